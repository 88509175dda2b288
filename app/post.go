package app

import (
	"context"

	"github.com/skyline-tui/skyline/domain"
)

// PostService performs write actions on posts.
type PostService interface {
	Like(ctx context.Context, uri, cid string) error
	Unlike(ctx context.Context, uri string) error
	Repost(ctx context.Context, uri, cid string) error
	Unrepost(ctx context.Context, uri string) error

	// CreatePost publishes text, as a reply when replyTo is non-nil.
	CreatePost(ctx context.Context, text string, replyTo *domain.ReplyRef) error

	// DeletePost removes one of the user's own posts.
	DeletePost(ctx context.Context, uri string) error
}
