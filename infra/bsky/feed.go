package bsky

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/skyline-tui/skyline/app"
	"github.com/skyline-tui/skyline/domain"
)

// feedService implements app.FeedService.
type feedService struct {
	client   *Client
	pageSize int
}

// NewFeedService creates a FeedService fetching pageSize posts per page.
func NewFeedService(c *Client, pageSize int) app.FeedService {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &feedService{client: c, pageSize: pageSize}
}

func (s *feedService) FetchTimeline(ctx context.Context, cursor string) (domain.PostPage, error) {
	params := url.Values{"limit": {strconv.Itoa(s.pageSize)}}
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	var out feedResponse
	if err := s.client.Query(ctx, "app.bsky.feed.getTimeline", params, &out); err != nil {
		return domain.PostPage{}, fmt.Errorf("fetching timeline: %w", err)
	}
	return mapFeed(out), nil
}

func (s *feedService) FetchAuthorFeed(ctx context.Context, actor, cursor string) (domain.PostPage, error) {
	params := url.Values{
		"actor": {actor},
		"limit": {strconv.Itoa(s.pageSize)},
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	var out feedResponse
	if err := s.client.Query(ctx, "app.bsky.feed.getAuthorFeed", params, &out); err != nil {
		return domain.PostPage{}, fmt.Errorf("fetching author feed for %s: %w", actor, err)
	}
	return mapFeed(out), nil
}

func (s *feedService) FetchThread(ctx context.Context, uri string) (domain.ThreadTree, error) {
	params := url.Values{
		"uri":          {uri},
		"depth":        {"1"},
		"parentHeight": {"80"},
	}
	var out threadResponse
	if err := s.client.Query(ctx, "app.bsky.feed.getPostThread", params, &out); err != nil {
		return domain.ThreadTree{}, fmt.Errorf("fetching thread %s: %w", uri, err)
	}
	return mapThread(out.Thread)
}

func (s *feedService) FetchPosts(ctx context.Context, uris []string) ([]domain.Post, error) {
	if len(uris) == 0 {
		return nil, nil
	}
	if len(uris) > app.MaxPostsPerLookup {
		return nil, fmt.Errorf("fetching posts: %d uris exceeds limit of %d", len(uris), app.MaxPostsPerLookup)
	}
	var out postsResponse
	if err := s.client.Query(ctx, "app.bsky.feed.getPosts", url.Values{"uris": uris}, &out); err != nil {
		return nil, fmt.Errorf("fetching posts: %w", err)
	}
	posts := make([]domain.Post, 0, len(out.Posts))
	for _, v := range out.Posts {
		posts = append(posts, mapPost(v))
	}
	return posts, nil
}

func mapFeed(out feedResponse) domain.PostPage {
	page := domain.PostPage{Cursor: out.Cursor, Posts: make([]domain.Post, 0, len(out.Feed))}
	for _, item := range out.Feed {
		page.Posts = append(page.Posts, mapFeedItem(item))
	}
	return page
}

func mapThread(root threadNode) (domain.ThreadTree, error) {
	switch root.Type {
	case threadNotFound:
		return domain.ThreadTree{}, &domain.APIError{Kind: domain.KindNotFound, Detail: "post not found"}
	case threadBlocked:
		return domain.ThreadTree{}, &domain.APIError{Kind: domain.KindPermissionDenied, Detail: "post is blocked"}
	}
	if root.Post == nil {
		return domain.ThreadTree{}, fmt.Errorf("thread response has no post")
	}

	tree := domain.ThreadTree{Anchor: mapPost(*root.Post)}

	var chain []domain.Post
	for n := root.Parent; n != nil; n = n.Parent {
		if n.Type == threadNotFound || n.NotFound {
			tree.Parent = domain.ParentNotFound
			break
		}
		if n.Type == threadBlocked || n.Blocked {
			tree.Parent = domain.ParentBlocked
			break
		}
		if n.Post == nil {
			break
		}
		chain = append(chain, mapPost(*n.Post))
	}
	for i := len(chain) - 1; i >= 0; i-- {
		tree.Ancestors = append(tree.Ancestors, chain[i])
	}

	for _, r := range root.Replies {
		if r.Type != threadViewPost || r.Post == nil {
			continue
		}
		tree.Replies = append(tree.Replies, mapPost(*r.Post))
	}
	return tree, nil
}
