package bsky

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/skyline-tui/skyline/domain"
)

const (
	embedImagesView          = "app.bsky.embed.images#view"
	embedRecordView          = "app.bsky.embed.record#view"
	embedRecordWithMediaView = "app.bsky.embed.recordWithMedia#view"
	embedViewRecord          = "app.bsky.embed.record#viewRecord"
	reasonRepost             = "app.bsky.feed.defs#reasonRepost"
	threadViewPost           = "app.bsky.feed.defs#threadViewPost"
	threadNotFound           = "app.bsky.feed.defs#notFoundPost"
	threadBlocked            = "app.bsky.feed.defs#blockedPost"
)

func mapAuthor(p profileViewBasic) domain.Author {
	return domain.Author{
		DID:         p.DID,
		Handle:      p.Handle,
		DisplayName: sanitizeForTerminal(p.DisplayName),
	}
}

func mapPost(v postView) domain.Post {
	rec := decodePostRecord(v.Record)
	p := domain.Post{
		URI:         v.URI,
		CID:         v.CID,
		Author:      mapAuthor(v.Author),
		Text:        recordText(rec),
		CreatedAt:   parseTime(rec.CreatedAt, v.IndexedAt),
		LikeCount:   v.LikeCount,
		RepostCount: v.RepostCount,
		ReplyCount:  v.ReplyCount,
	}
	if rec.Reply != nil {
		p.Reply = &domain.ReplyRef{
			Root:   domain.StrongRef{URI: rec.Reply.Root.URI, CID: rec.Reply.Root.CID},
			Parent: domain.StrongRef{URI: rec.Reply.Parent.URI, CID: rec.Reply.Parent.CID},
		}
	}
	if v.Viewer != nil {
		p.ViewerLike = v.Viewer.Like
		p.ViewerRepost = v.Viewer.Repost
		p.Liked = v.Viewer.Like != ""
		p.Reposted = v.Viewer.Repost != ""
	}
	if v.Embed != nil {
		p.Images, p.Quote = mapEmbed(*v.Embed)
	}
	return p
}

func mapFeedItem(item feedViewPost) domain.Post {
	p := mapPost(item.Post)
	if item.Reason != nil && item.Reason.Type == reasonRepost {
		p.RepostedBy = item.Reason.By.Handle
	}
	return p
}

func mapEmbed(e embedView) ([]domain.Image, *domain.QuotedPost) {
	switch e.Type {
	case embedImagesView:
		return mapImages(e.Images), nil
	case embedRecordView:
		return nil, mapQuote(e.Record)
	case embedRecordWithMediaView:
		var images []domain.Image
		if e.Media != nil {
			images, _ = mapEmbed(*e.Media)
		}
		var wrapper struct {
			Record json.RawMessage `json:"record"`
		}
		if err := json.Unmarshal(e.Record, &wrapper); err != nil {
			return images, nil
		}
		return images, mapQuote(wrapper.Record)
	default:
		return nil, nil
	}
}

func mapImages(in []imageView) []domain.Image {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Image, 0, len(in))
	for _, img := range in {
		out = append(out, domain.Image{ThumbURL: img.Thumb, FullURL: img.Fullsize, Alt: sanitizeForTerminal(img.Alt)})
	}
	return out
}

// mapQuote returns nil for notFound/blocked/detached records and feed generators.
func mapQuote(raw json.RawMessage) *domain.QuotedPost {
	var vr viewRecord
	if len(raw) == 0 || json.Unmarshal(raw, &vr) != nil || vr.Type != embedViewRecord {
		return nil
	}
	rec := decodePostRecord(vr.Value)
	q := &domain.QuotedPost{
		URI:         vr.URI,
		Author:      mapAuthor(vr.Author),
		Text:        recordText(rec),
		CreatedAt:   parseTime(rec.CreatedAt, vr.IndexedAt),
		LikeCount:   vr.LikeCount,
		RepostCount: vr.RepostCount,
		ReplyCount:  vr.ReplyCount,
	}
	for _, e := range vr.Embeds {
		images, _ := mapEmbed(e)
		q.Images = append(q.Images, images...)
	}
	return q
}

func mapNotification(v notificationView) domain.Notification {
	n := domain.Notification{
		URI:           v.URI,
		CID:           v.CID,
		Author:        mapAuthor(v.Author),
		Reason:        v.Reason,
		ReasonSubject: v.ReasonSubject,
		IsRead:        v.IsRead,
		IndexedAt:     parseTime(v.IndexedAt, ""),
	}
	if rec := decodePostRecord(v.Record); rec.Text != nil {
		n.Text = sanitizeForTerminal(*rec.Text)
	}
	return n
}

func mapProfile(v profileViewDetailed) domain.Profile {
	p := domain.Profile{
		Author:         mapAuthor(v.profileViewBasic),
		Description:    sanitizeForTerminal(v.Description),
		FollowersCount: v.FollowersCount,
		FollowsCount:   v.FollowsCount,
		PostsCount:     v.PostsCount,
	}
	if v.Viewer != nil {
		p.ViewerFollowing = v.Viewer.Following
	}
	return p
}

// decodePostRecord tolerates malformed records; the zero value renders as a placeholder.
func decodePostRecord(raw json.RawMessage) postRecord {
	var rec postRecord
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec)
	}
	return rec
}

func recordText(rec postRecord) string {
	if rec.Text == nil {
		return domain.NoTextPlaceholder
	}
	return sanitizeForTerminal(*rec.Text)
}

func parseTime(primary, fallback string) time.Time {
	for _, s := range []string{primary, fallback} {
		if s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// sanitizeForTerminal strips escape sequences and control characters from
// remote text so it cannot drive the terminal. Newlines and tabs survive.
func sanitizeForTerminal(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case r < 0x20, r == 0x7f, r >= 0x80 && r < 0xa0:
			return -1
		default:
			return r
		}
	}, s)
}

// parseATURI splits at://repo/collection/rkey.
func parseATURI(uri string) (repo, collection, rkey string, err error) {
	rest, ok := strings.CutPrefix(uri, "at://")
	if !ok {
		return "", "", "", fmt.Errorf("not an at-uri: %q", uri)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("malformed at-uri: %q", uri)
	}
	return parts[0], parts[1], parts[2], nil
}
