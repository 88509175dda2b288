package bsky

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/skyline-tui/skyline/app"
	"github.com/skyline-tui/skyline/domain"
)

const (
	collectionPost   = "app.bsky.feed.post"
	collectionLike   = "app.bsky.feed.like"
	collectionRepost = "app.bsky.feed.repost"
)

// postService implements app.PostService.
type postService struct {
	client *Client
	feed   app.FeedService
}

// NewPostService creates a PostService. feed is used to resolve the
// user's like/repost records when undoing them.
func NewPostService(c *Client, feed app.FeedService) app.PostService {
	return &postService{client: c, feed: feed}
}

func (s *postService) Like(ctx context.Context, uri, cid string) error {
	if err := s.client.createRecord(ctx, collectionLike, subject(collectionLike, uri, cid)); err != nil {
		return fmt.Errorf("liking %s: %w", uri, err)
	}
	return nil
}

func (s *postService) Unlike(ctx context.Context, uri string) error {
	post, err := s.lookup(ctx, uri)
	if err != nil {
		return err
	}
	if post.ViewerLike == "" {
		return nil
	}
	if err := s.client.deleteRecord(ctx, post.ViewerLike); err != nil {
		return fmt.Errorf("unliking %s: %w", uri, err)
	}
	return nil
}

func (s *postService) Repost(ctx context.Context, uri, cid string) error {
	if err := s.client.createRecord(ctx, collectionRepost, subject(collectionRepost, uri, cid)); err != nil {
		return fmt.Errorf("reposting %s: %w", uri, err)
	}
	return nil
}

func (s *postService) Unrepost(ctx context.Context, uri string) error {
	post, err := s.lookup(ctx, uri)
	if err != nil {
		return err
	}
	if post.ViewerRepost == "" {
		return nil
	}
	if err := s.client.deleteRecord(ctx, post.ViewerRepost); err != nil {
		return fmt.Errorf("unreposting %s: %w", uri, err)
	}
	return nil
}

func (s *postService) CreatePost(ctx context.Context, text string, replyTo *domain.ReplyRef) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyPost
	}
	if utf8.RuneCountInString(text) > domain.MaxPostLength {
		return domain.ErrPostTooLong
	}
	rec := postRecord{
		Type:      collectionPost,
		Text:      &text,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if replyTo != nil {
		rec.Reply = &replyRef{
			Root:   strongRef{URI: replyTo.Root.URI, CID: replyTo.Root.CID},
			Parent: strongRef{URI: replyTo.Parent.URI, CID: replyTo.Parent.CID},
		}
	}
	if err := s.client.createRecord(ctx, collectionPost, rec); err != nil {
		return fmt.Errorf("creating post: %w", err)
	}
	return nil
}

func (s *postService) DeletePost(ctx context.Context, uri string) error {
	repo, _, _, err := parseATURI(uri)
	if err != nil {
		return err
	}
	if repo != s.client.DID() {
		return &domain.APIError{Kind: domain.KindPermissionDenied, Detail: "not your post"}
	}
	if err := s.client.deleteRecord(ctx, uri); err != nil {
		return fmt.Errorf("deleting %s: %w", uri, err)
	}
	return nil
}

func (s *postService) lookup(ctx context.Context, uri string) (domain.Post, error) {
	posts, err := s.feed.FetchPosts(ctx, []string{uri})
	if err != nil {
		return domain.Post{}, err
	}
	if len(posts) == 0 {
		return domain.Post{}, &domain.APIError{Kind: domain.KindNotFound, Detail: uri}
	}
	return posts[0], nil
}

func subject(collection, uri, cid string) subjectRecord {
	return subjectRecord{
		Type:      collection,
		Subject:   strongRef{URI: uri, CID: cid},
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

func (c *Client) createRecord(ctx context.Context, collection string, record any) error {
	req := createRecordRequest{Repo: c.DID(), Collection: collection, Record: record}
	return c.Procedure(ctx, "com.atproto.repo.createRecord", req, nil)
}

func (c *Client) deleteRecord(ctx context.Context, uri string) error {
	repo, collection, rkey, err := parseATURI(uri)
	if err != nil {
		return err
	}
	req := deleteRecordRequest{Repo: repo, Collection: collection, Rkey: rkey}
	return c.Procedure(ctx, "com.atproto.repo.deleteRecord", req, nil)
}
