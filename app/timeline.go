package app

import (
	"context"

	"github.com/skyline-tui/skyline/domain"
)

// FeedService fetches posts: the home timeline, author feeds and threads.
type FeedService interface {
	// FetchTimeline returns one page of the home timeline, newest first.
	// An empty cursor requests the first page.
	FetchTimeline(ctx context.Context, cursor string) (domain.PostPage, error)

	// FetchAuthorFeed returns one page of posts by actor (a handle or DID).
	FetchAuthorFeed(ctx context.Context, actor, cursor string) (domain.PostPage, error)

	// FetchThread returns the post at uri with its ancestors and direct replies.
	FetchThread(ctx context.Context, uri string) (domain.ThreadTree, error)

	// FetchPosts returns fresh views of up to MaxPostsPerLookup posts.
	FetchPosts(ctx context.Context, uris []string) ([]domain.Post, error)
}

// MaxPostsPerLookup bounds a single FetchPosts call.
const MaxPostsPerLookup = 25
