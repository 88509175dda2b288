package bsky

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/skyline-tui/skyline/app"
	"github.com/skyline-tui/skyline/domain"
)

// notificationService implements app.NotificationService.
type notificationService struct {
	client *Client
}

// NewNotificationService creates a NotificationService backed by the client.
func NewNotificationService(c *Client) app.NotificationService {
	return &notificationService{client: c}
}

func (s *notificationService) FetchNotifications(ctx context.Context, cursor string, limit int) (domain.NotificationPage, error) {
	if limit <= 0 {
		limit = 50
	}
	params := url.Values{"limit": {strconv.Itoa(limit)}}
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	var out notificationsResponse
	if err := s.client.Query(ctx, "app.bsky.notification.listNotifications", params, &out); err != nil {
		return domain.NotificationPage{}, fmt.Errorf("fetching notifications: %w", err)
	}
	page := domain.NotificationPage{Cursor: out.Cursor, Notifications: make([]domain.Notification, 0, len(out.Notifications))}
	for _, n := range out.Notifications {
		page.Notifications = append(page.Notifications, mapNotification(n))
	}
	return page, nil
}
