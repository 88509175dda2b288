package view

import "github.com/skyline-tui/skyline/domain"

// AuthorFeed is one account's posts under its profile header.
type AuthorFeed struct {
	itemList[domain.Post]
	pager
	profile domain.Profile
}

// NewAuthorFeed creates an author feed seeded with the first page of posts.
func NewAuthorFeed(profile domain.Profile, first domain.PostPage) *AuthorFeed {
	f := &AuthorFeed{itemList: newItemList[domain.Post](measurePost), profile: profile}
	f.lead = ProfileHeaderHeight
	f.appendItems(first.Posts)
	f.next = first.Cursor
	f.exhausted = first.Cursor == ""
	return f
}

func (f *AuthorFeed) Kind() Kind { return KindAuthorFeed }

func (f *AuthorFeed) Title() string { return "@" + f.profile.Handle }

// Profile returns the profile shown in the header.
func (f *AuthorFeed) Profile() domain.Profile { return f.profile }

// SetProfile replaces the header profile, e.g. after a follow toggle.
func (f *AuthorFeed) SetProfile(p domain.Profile) { f.profile = p }

// ApplyPage appends the page fetched by request seq. Stale pages are dropped.
func (f *AuthorFeed) ApplyPage(seq int, page domain.PostPage) bool {
	if !f.finish(seq, page.Cursor) {
		return false
	}
	f.appendItems(page.Posts)
	return true
}
