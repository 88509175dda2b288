package domain

import (
	"strings"
	"time"
)

// NoTextPlaceholder replaces the text of records that carry no usable text field.
const NoTextPlaceholder = "(No text content)"

// Item is anything a content list can hold: a Post or a Notification.
type Item interface {
	ItemURI() string
	item()
}

// Author identifies the account behind a post, notification or profile.
type Author struct {
	DID         string
	Handle      string
	DisplayName string
}

// Name returns the display name, falling back to the handle.
func (a Author) Name() string {
	if strings.TrimSpace(a.DisplayName) != "" {
		return a.DisplayName
	}
	return a.Handle
}

// StrongRef points at a specific version of a record.
type StrongRef struct {
	URI string
	CID string
}

// ReplyRef links a reply to its parent and to the root of its thread.
type ReplyRef struct {
	Root   StrongRef
	Parent StrongRef
}

// Image is a single embedded picture.
type Image struct {
	ThumbURL string
	FullURL  string
	Alt      string
}

// QuotedPost is a post embedded inside another post.
type QuotedPost struct {
	URI         string
	Author      Author
	Text        string
	CreatedAt   time.Time
	Images      []Image
	LikeCount   int
	RepostCount int
	ReplyCount  int
}

// Post is a single post as seen by the logged-in user.
type Post struct {
	URI       string
	CID       string
	Author    Author
	Text      string
	CreatedAt time.Time

	LikeCount   int
	RepostCount int
	ReplyCount  int

	Liked        bool
	Reposted     bool
	ViewerLike   string // uri of the user's like record, if any
	ViewerRepost string // uri of the user's repost record, if any

	Images []Image
	Quote  *QuotedPost
	Reply  *ReplyRef

	RepostedBy string // handle of the reposter when shown via a repost
}

func (p Post) ItemURI() string { return p.URI }
func (Post) item() {}

// IsReply reports whether the post replies to another post.
func (p Post) IsReply() bool { return p.Reply != nil }

// ParentURI returns the uri of the post this one replies to, or "".
func (p Post) ParentURI() string {
	if p.Reply == nil {
		return ""
	}
	return p.Reply.Parent.URI
}

// HasImages reports whether the post carries an image block.
func (p Post) HasImages() bool { return len(p.Images) > 0 }

// Ref returns a strong reference to this post.
func (p Post) Ref() StrongRef { return StrongRef{URI: p.URI, CID: p.CID} }

// ReplyTarget builds the reply reference for answering this post.
func (p Post) ReplyTarget() ReplyRef {
	root := p.Ref()
	if p.Reply != nil && p.Reply.Root.URI != "" {
		root = p.Reply.Root
	}
	return ReplyRef{Root: root, Parent: p.Ref()}
}

// PostPage is one page of posts plus the cursor for the next page.
type PostPage struct {
	Posts  []Post
	Cursor string
}

// ParentState describes what happened to the parent of a thread's anchor.
type ParentState int

const (
	ParentOK ParentState = iota
	ParentNotFound
	ParentBlocked
)

// ThreadTree is the anchor post, its ancestors (root first) and its direct replies.
type ThreadTree struct {
	Anchor    Post
	Ancestors []Post
	Replies   []Post
	Parent    ParentState
}

// Posts flattens the tree into ancestors, anchor, replies.
func (t ThreadTree) Posts() []Post {
	out := make([]Post, 0, len(t.Ancestors)+1+len(t.Replies))
	out = append(out, t.Ancestors...)
	out = append(out, t.Anchor)
	out = append(out, t.Replies...)
	return out
}
