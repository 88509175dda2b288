package view

import "github.com/skyline-tui/skyline/domain"

// Notifications lists the user's notifications, newest first.
type Notifications struct {
	itemList[domain.Notification]
	pager
}

// NewNotifications creates an empty list; the caller populates it with ApplyPage.
func NewNotifications() *Notifications {
	return &Notifications{itemList: newItemList[domain.Notification](func(domain.Item, int) int {
		return NotificationHeight
	})}
}

func (n *Notifications) Kind() Kind    { return KindNotifications }
func (n *Notifications) Title() string { return "Notifications" }

// ApplyPage appends the page fetched by request seq. Stale pages are dropped.
func (n *Notifications) ApplyPage(seq int, page domain.NotificationPage) bool {
	if !n.finish(seq, page.Cursor) {
		return false
	}
	n.appendItems(page.Notifications)
	return true
}

// Prepend adds a newly arrived notification at the top unless its uri is
// already listed. The selection stays on the same notification.
func (n *Notifications) Prepend(notif domain.Notification) bool {
	return n.prepend(notif)
}

// Unread counts notifications not yet marked read.
func (n *Notifications) Unread() int {
	c := 0
	for _, it := range n.items {
		if !it.IsRead {
			c++
		}
	}
	return c
}
