package bsky

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/skyline-tui/skyline/app"
	"github.com/skyline-tui/skyline/domain"
)

const collectionFollow = "app.bsky.graph.follow"

// profileService implements app.ProfileService.
type profileService struct {
	client *Client
}

// NewProfileService creates a ProfileService backed by the client.
func NewProfileService(c *Client) app.ProfileService {
	return &profileService{client: c}
}

func (s *profileService) FetchProfile(ctx context.Context, actor string) (domain.Profile, error) {
	var out profileViewDetailed
	if err := s.client.Query(ctx, "app.bsky.actor.getProfile", url.Values{"actor": {actor}}, &out); err != nil {
		return domain.Profile{}, fmt.Errorf("fetching profile %s: %w", actor, err)
	}
	return mapProfile(out), nil
}

func (s *profileService) Follow(ctx context.Context, did string) error {
	rec := followRecord{
		Type:      collectionFollow,
		Subject:   did,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.client.createRecord(ctx, collectionFollow, rec); err != nil {
		return fmt.Errorf("following %s: %w", did, err)
	}
	return nil
}

// Unfollow looks up the user's follow record for did and deletes it.
func (s *profileService) Unfollow(ctx context.Context, did string) error {
	profile, err := s.FetchProfile(ctx, did)
	if err != nil {
		return err
	}
	if profile.ViewerFollowing == "" {
		return nil
	}
	if err := s.client.deleteRecord(ctx, profile.ViewerFollowing); err != nil {
		return fmt.Errorf("unfollowing %s: %w", did, err)
	}
	return nil
}
