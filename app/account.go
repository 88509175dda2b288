package app

import (
	"context"

	"github.com/skyline-tui/skyline/domain"
)

// ProfileService reads profiles and manages follows.
type ProfileService interface {
	FetchProfile(ctx context.Context, actor string) (domain.Profile, error)
	Follow(ctx context.Context, did string) error
	Unfollow(ctx context.Context, did string) error
}

// NotificationService reads the user's notifications.
type NotificationService interface {
	FetchNotifications(ctx context.Context, cursor string, limit int) (domain.NotificationPage, error)
}

// SessionRefresher renews an expired session.
type SessionRefresher interface {
	Refresh(ctx context.Context) error
}
