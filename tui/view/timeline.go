package view

import "github.com/skyline-tui/skyline/domain"

// Timeline is the home feed. It is always at the bottom of the stack.
type Timeline struct {
	itemList[domain.Post]
	pager
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{itemList: newItemList[domain.Post](measurePost)}
}

func (t *Timeline) Kind() Kind    { return KindTimeline }
func (t *Timeline) Title() string { return "Timeline" }

// ApplyPage appends the page fetched by request seq. Stale pages are dropped.
func (t *Timeline) ApplyPage(seq int, page domain.PostPage) bool {
	if !t.finish(seq, page.Cursor) {
		return false
	}
	t.appendItems(page.Posts)
	return true
}

// BeginRefresh starts reloading from the first page and returns the request
// sequence number. Any page request still in flight becomes stale.
func (t *Timeline) BeginRefresh() int {
	return t.restart()
}

// ApplyRefresh replaces the items with the first page fetched by request seq.
func (t *Timeline) ApplyRefresh(seq int, page domain.PostPage) bool {
	if !t.finish(seq, page.Cursor) {
		return false
	}
	t.replaceItems(page.Posts)
	return true
}

func measurePost(item domain.Item, width int) int {
	p, ok := item.(domain.Post)
	if !ok {
		return DefaultItemHeight
	}
	return PostHeight(p, width)
}
