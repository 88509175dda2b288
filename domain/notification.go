package domain

import "time"

// Notification reasons.
const (
	ReasonLike    = "like"
	ReasonRepost  = "repost"
	ReasonFollow  = "follow"
	ReasonReply   = "reply"
	ReasonMention = "mention"
	ReasonQuote   = "quote"
)

// Notification is an entry from the user's notification feed.
type Notification struct {
	URI           string
	CID           string
	Author        Author
	Reason        string
	ReasonSubject string // uri of the post the notification is about, if any
	Text          string // text of the notifying record, when it has one
	IsRead        bool
	IndexedAt     time.Time
}

func (n Notification) ItemURI() string { return n.URI }
func (Notification) item() {}

// Icon returns the glyph shown for the notification reason.
func (n Notification) Icon() string {
	switch n.Reason {
	case ReasonLike:
		return "❤️"
	case ReasonRepost:
		return "🔁"
	case ReasonFollow:
		return "👤"
	case ReasonReply:
		return "💬"
	case ReasonMention:
		return "@"
	case ReasonQuote:
		return "💭"
	default:
		return "📨"
	}
}

// Action describes the reason in words.
func (n Notification) Action() string {
	switch n.Reason {
	case ReasonLike:
		return "liked your post"
	case ReasonRepost:
		return "reposted your post"
	case ReasonFollow:
		return "followed you"
	case ReasonReply:
		return "replied to your post"
	case ReasonMention:
		return "mentioned you"
	case ReasonQuote:
		return "quoted your post"
	default:
		return "interacted with you"
	}
}

// Summary is the one-line description "{icon} @{handle} {action}".
func (n Notification) Summary() string {
	return n.Icon() + " @" + n.Author.Handle + " " + n.Action()
}

// NotificationPage is one page of notifications.
type NotificationPage struct {
	Notifications []Notification
	Cursor        string
}

// Profile describes an account.
type Profile struct {
	Author
	Description     string
	FollowersCount  int
	FollowsCount    int
	PostsCount      int
	ViewerFollowing string // uri of the user's follow record, if following
}

// Following reports whether the logged-in user follows this account.
func (p Profile) Following() bool { return p.ViewerFollowing != "" }
