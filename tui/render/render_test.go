package render

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/skyline-tui/skyline/domain"
	"github.com/skyline-tui/skyline/tui/view"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

type stubImages map[string]string

func (s stubImages) Thumbnail(url string, w, h int) (string, bool) {
	if _, ok := s[url]; !ok {
		return "", false
	}
	return strings.TrimSuffix(strings.Repeat(strings.Repeat("#", w)+"\n", h), "\n"), true
}

func samplePost(uri string) domain.Post {
	return domain.Post{
		URI:       uri,
		Author:    domain.Author{DID: "did:plc:alice", Handle: "alice.test", DisplayName: "Alice"},
		Text:      "hello from the terminal",
		CreatedAt: now.Add(-5 * time.Minute),
		LikeCount: 2,
	}
}

func lineCount(s string) int { return len(strings.Split(s, "\n")) }

func TestPostCardMatchesMeasuredHeight(t *testing.T) {
	plain := samplePost("at://a/1")
	empty := samplePost("at://a/2")
	empty.Text = ""
	long := samplePost("at://a/3")
	long.Text = strings.Repeat("a fairly long sentence that wraps ", 12)
	withImage := samplePost("at://a/4")
	withImage.Images = []domain.Image{{ThumbURL: "https://cdn/1", Alt: "a cat"}}
	quoted := samplePost("at://a/5")
	quoted.Quote = &domain.QuotedPost{
		URI:    "at://b/1",
		Author: domain.Author{Handle: "bob.test"},
		Text:   strings.Repeat("quoted words ", 10),
		Images: []domain.Image{{ThumbURL: "https://cdn/2"}},
	}
	reposted := samplePost("at://a/6")
	reposted.RepostedBy = "carol.test"
	reposted.Reply = &domain.ReplyRef{Parent: domain.StrongRef{URI: "at://a/1"}}

	for _, width := range []int{40, 80, 120} {
		for _, p := range []domain.Post{plain, empty, long, withImage, quoted, reposted} {
			for _, show := range []bool{true, false} {
				opts := Options{Width: width, ShowImages: show, Images: stubImages{"https://cdn/1": ""}, Now: now}
				card := PostCard(p, width, true, false, opts)
				if got, want := lineCount(card), view.PostHeight(p, width); got != want {
					t.Fatalf("%s at width %d: rendered %d rows, measured %d\n%s", p.URI, width, got, want, card)
				}
				for _, ln := range strings.Split(card, "\n") {
					if w := ansi.StringWidth(ln); w > width {
						t.Fatalf("%s at width %d: line %d cells wide", p.URI, width, w)
					}
				}
			}
		}
	}
}

func TestListFillsViewport(t *testing.T) {
	tl := view.NewTimeline()
	seq, _, _ := tl.BeginPage()
	var items []domain.Post
	for _, uri := range []string{"at://a/1", "at://a/2", "at://a/3", "at://a/4"} {
		items = append(items, samplePost(uri))
	}
	tl.ApplyPage(seq, domain.PostPage{Posts: items})
	tl.SetViewport(60, 12)

	opts := Options{Width: 60, Height: 12, Now: now}
	out := List(tl, opts)
	if lineCount(out) != 12 {
		t.Fatalf("expected 12 rows, got %d", lineCount(out))
	}
	if !strings.Contains(out, "hello from the terminal") {
		t.Fatalf("expected post text in output:\n%s", out)
	}

	tl.ScrollDown()
	tl.ScrollDown()
	if out := List(tl, opts); lineCount(out) != 12 {
		t.Fatalf("expected 12 rows after scrolling, got %d", lineCount(out))
	}
}

func TestListEmptyStates(t *testing.T) {
	out := List(view.NewNotifications(), Options{Width: 40, Height: 3})
	if !strings.Contains(out, "No notifications yet") || lineCount(out) != 3 {
		t.Fatalf("unexpected empty notifications view: %q", out)
	}
	if List(view.NewTimeline(), Options{Width: 40}) != "" {
		t.Fatalf("zero-height viewport renders nothing")
	}
}

func TestAuthorFeedDrawsProfileHeader(t *testing.T) {
	profile := domain.Profile{
		Author:         domain.Author{Handle: "bob.test", DisplayName: "Bob"},
		Description:    "builds terminal things",
		FollowersCount: 10,
	}
	f := view.NewAuthorFeed(profile, domain.PostPage{Posts: []domain.Post{samplePost("at://b/1")}})
	f.SetViewport(60, 20)
	out := List(f, Options{Width: 60, Height: 20, Now: now})
	if !strings.Contains(out, "@bob.test") || !strings.Contains(out, "10 followers") {
		t.Fatalf("expected profile header:\n%s", out)
	}
	if strings.Index(out, "10 followers") > strings.Index(out, "hello from the terminal") {
		t.Fatalf("profile header should come before posts")
	}
}

func TestEmptyAuthorFeedKeepsProfileHeader(t *testing.T) {
	profile := domain.Profile{Author: domain.Author{Handle: "quiet.test"}, FollowersCount: 3}
	f := view.NewAuthorFeed(profile, domain.PostPage{})
	f.SetViewport(60, 12)
	out := List(f, Options{Width: 60, Height: 12, Now: now})
	if lineCount(out) != 12 {
		t.Fatalf("expected 12 rows, got %d", lineCount(out))
	}
	header, empty := strings.Index(out, "@quiet.test"), strings.Index(out, "No posts yet")
	if header < 0 || empty < 0 || header > empty {
		t.Fatalf("expected profile header above the empty message:\n%s", out)
	}
}

func TestThreadItemsAreIndented(t *testing.T) {
	root := samplePost("at://t/root")
	anchor := samplePost("at://t/anchor")
	anchor.Reply = &domain.ReplyRef{Parent: domain.StrongRef{URI: root.URI}}
	th := view.NewThread(domain.ThreadTree{Anchor: anchor, Ancestors: []domain.Post{root}})
	th.SetViewport(60, 40)

	opts := Options{Width: 60, Height: 40, Now: now}
	rootCard := Item(th, 0, false, opts)
	anchorCard := Item(th, 1, true, opts)
	if strings.HasPrefix(rootCard, " ") {
		t.Fatalf("root should not be indented")
	}
	for _, ln := range strings.Split(anchorCard, "\n") {
		if !strings.HasPrefix(ln, strings.Repeat(" ", view.IndentWidth)) {
			t.Fatalf("anchor lines should be indented: %q", ln)
		}
	}
	if lineCount(anchorCard) != th.HeightAt(1) {
		t.Fatalf("indented card should keep its measured height")
	}
}

func TestNotificationRow(t *testing.T) {
	n := domain.Notification{
		URI:       "at://n/1",
		Author:    domain.Author{Handle: "bob.test"},
		Reason:    domain.ReasonFollow,
		IndexedAt: now.Add(-2 * time.Hour),
	}
	out := NotificationRow(n, 60, true, now)
	if lineCount(out) != view.NotificationHeight {
		t.Fatalf("expected %d rows, got %d", view.NotificationHeight, lineCount(out))
	}
	for _, want := range []string{"👤 @bob.test followed you", "● New", "2h"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	n.IsRead = true
	if strings.Contains(NotificationRow(n, 60, false, now), "● New") {
		t.Fatalf("read notifications are not marked new")
	}
}

func TestProfileHeaderHeight(t *testing.T) {
	p := domain.Profile{
		Author:          domain.Author{Handle: "bob.test"},
		Description:     strings.Repeat("long bio ", 40),
		ViewerFollowing: "at://me/app.bsky.graph.follow/1",
	}
	out := ProfileHeader(p, 50)
	if lineCount(out) != view.ProfileHeaderHeight {
		t.Fatalf("expected %d rows, got %d", view.ProfileHeaderHeight, lineCount(out))
	}
	if !strings.Contains(out, "Following") {
		t.Fatalf("expected follow state: %q", out)
	}
}

func TestImageBlockUsesThumbnail(t *testing.T) {
	images := []domain.Image{{ThumbURL: "https://cdn/1", Alt: "sunset"}, {ThumbURL: "https://cdn/2"}}
	out := ImageBlock(images, 40, Options{ShowImages: true, Images: stubImages{"https://cdn/1": ""}})
	if lineCount(out) != view.ImageRows {
		t.Fatalf("expected %d rows, got %d", view.ImageRows, lineCount(out))
	}
	if !strings.Contains(out, "####") || !strings.Contains(out, "sunset") || !strings.Contains(out, "2 images") {
		t.Fatalf("unexpected image block:\n%s", out)
	}

	hidden := ImageBlock(images, 40, Options{ShowImages: false})
	if !strings.Contains(hidden, "press i to show") || strings.Contains(hidden, "####") {
		t.Fatalf("hidden images should not draw thumbnails:\n%s", hidden)
	}
}

func TestPendingImages(t *testing.T) {
	p := samplePost("at://a/1")
	p.Images = []domain.Image{{ThumbURL: "https://cdn/missing"}}
	q := samplePost("at://a/2")
	q.Images = []domain.Image{{ThumbURL: "https://cdn/have"}}

	tl := view.NewTimeline()
	seq, _, _ := tl.BeginPage()
	tl.ApplyPage(seq, domain.PostPage{Posts: []domain.Post{p, q}})
	tl.SetViewport(80, 60)

	opts := Options{Width: 80, Height: 60, ShowImages: true, Images: stubImages{"https://cdn/have": ""}}
	got := PendingImages(tl, opts)
	if len(got) != 1 || got[0].URL != "https://cdn/missing" {
		t.Fatalf("unexpected pending images %+v", got)
	}
	w, h := ThumbnailSize(80 - view.CardPadding)
	if got[0].W != w || got[0].H != h {
		t.Fatalf("unexpected thumbnail size %+v", got[0])
	}

	opts.ShowImages = false
	if len(PendingImages(tl, opts)) != 0 {
		t.Fatalf("hidden images are never requested")
	}
}

func TestHeaderAndStatusLine(t *testing.T) {
	h := Header([]string{"Timeline", "Thread by @bob.test"}, "live", 80)
	if !strings.Contains(h, "Timeline › Thread by @bob.test") || !strings.Contains(h, "● live") {
		t.Fatalf("unexpected header %q", h)
	}
	if ansi.StringWidth(h) != 80 {
		t.Fatalf("header should span the width, got %d", ansi.StringWidth(h))
	}

	tl := view.NewTimeline()
	if Position(tl) != "0/0" {
		t.Fatalf("empty position should be 0/0")
	}
	s := StatusLine("Liked", false, "3/10", 40)
	if !strings.HasSuffix(s, "3/10") || !strings.Contains(s, "Liked") {
		t.Fatalf("unexpected status line %q", s)
	}
}
