package tui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/skyline-tui/skyline/app"
	"github.com/skyline-tui/skyline/domain"
	"github.com/skyline-tui/skyline/tui/render"
	"github.com/skyline-tui/skyline/tui/view"
)

// --- Messages ---

// pageMsg carries a page of posts for the list with listID.
type pageMsg struct {
	listID  int
	seq     int
	page    domain.PostPage
	refresh bool
	err     error
}

// notificationsMsg carries a page of notifications.
// With refresh set, only notifications newer than the list are applied.
type notificationsMsg struct {
	listID  int
	seq     int
	page    domain.NotificationPage
	refresh bool
	err     error
}

// threadMsg carries a fetched thread to push.
type threadMsg struct {
	gen  int
	uri  string
	tree domain.ThreadTree
	err  error
}

// authorMsg carries a fetched profile and first feed page to push.
type authorMsg struct {
	gen     int
	profile domain.Profile
	page    domain.PostPage
	err     error
}

// threadReloadMsg carries a re-fetched thread for an open thread list.
type threadReloadMsg struct {
	listID int
	tree   domain.ThreadTree
	err    error
}

// refreshedMsg carries fresh copies of the posts of a list.
type refreshedMsg struct {
	listID int
	posts  []domain.Post
	err    error
}

// actionMsg reports the result of an optimistic like or repost.
type actionMsg struct {
	verb     string
	original domain.Post
	err      error
}

// followMsg reports a follow toggle. profile is the re-read profile when
// fresh is set.
type followMsg struct {
	did       string
	handle    string
	following bool
	profile   domain.Profile
	fresh     bool
	err       error
}

type deleteMsg struct {
	uri string
	err error
}

type postedMsg struct {
	reply bool
	err   error
}

type newNotificationMsg struct {
	notification domain.Notification
	ok           bool
	err          error
}

type imageMsg struct {
	key string
	url string
	err error
}

// --- Commands ---

func (a App) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// nextPage requests the next page of l, if one is due and none is in flight.
func (a App) nextPage(l view.Paginated) tea.Cmd {
	seq, cursor, ok := l.BeginPage()
	if !ok {
		return nil
	}
	id := l.ID()
	switch l := l.(type) {
	case *view.Timeline:
		return a.fetchTimeline(id, seq, cursor, false)
	case *view.AuthorFeed:
		actor := l.Profile().DID
		return func() tea.Msg {
			ctx, cancel := a.ctx()
			defer cancel()
			slog.Debug("fetching author feed", "actor", actor, "cursor", cursor)
			page, err := app.WithSessionRetry(ctx, a.deps.Session, func(ctx context.Context) (domain.PostPage, error) {
				return a.deps.Feed.FetchAuthorFeed(ctx, actor, cursor)
			})
			return pageMsg{listID: id, seq: seq, page: page, err: err}
		}
	case *view.Notifications:
		return a.fetchNotifications(id, seq, cursor, false)
	}
	return nil
}

func (a App) fetchTimeline(id, seq int, cursor string, refresh bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		slog.Debug("fetching timeline", "cursor", cursor, "refresh", refresh)
		page, err := app.WithSessionRetry(ctx, a.deps.Session, func(ctx context.Context) (domain.PostPage, error) {
			return a.deps.Feed.FetchTimeline(ctx, cursor)
		})
		return pageMsg{listID: id, seq: seq, page: page, refresh: refresh, err: err}
	}
}

func (a App) fetchNotifications(id, seq int, cursor string, refresh bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		page, err := app.WithSessionRetry(ctx, a.deps.Session, func(ctx context.Context) (domain.NotificationPage, error) {
			return a.deps.Notifications.FetchNotifications(ctx, cursor, notificationsLimit)
		})
		return notificationsMsg{listID: id, seq: seq, page: page, refresh: refresh, err: err}
	}
}

// fetchNewestNotification looks up the notification behind a live event.
func (a App) fetchNewestNotification() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		page, err := app.WithSessionRetry(ctx, a.deps.Session, func(ctx context.Context) (domain.NotificationPage, error) {
			return a.deps.Notifications.FetchNotifications(ctx, "", 1)
		})
		if err != nil || len(page.Notifications) == 0 {
			return newNotificationMsg{err: err}
		}
		return newNotificationMsg{notification: page.Notifications[0], ok: true}
	}
}

func (a App) fetchThread(uri string) tea.Cmd {
	gen := a.stack.Generation()
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		slog.Debug("fetching thread", "uri", uri)
		tree, err := app.WithSessionRetry(ctx, a.deps.Session, func(ctx context.Context) (domain.ThreadTree, error) {
			return a.deps.Feed.FetchThread(ctx, uri)
		})
		return threadMsg{gen: gen, uri: uri, tree: tree, err: err}
	}
}

func (a App) reloadThread(th *view.Thread) tea.Cmd {
	id, uri := th.ID(), th.Anchor()
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		tree, err := app.WithSessionRetry(ctx, a.deps.Session, func(ctx context.Context) (domain.ThreadTree, error) {
			return a.deps.Feed.FetchThread(ctx, uri)
		})
		return threadReloadMsg{listID: id, tree: tree, err: err}
	}
}

// fetchAuthor loads the profile and the first feed page concurrently.
func (a App) fetchAuthor(actor string) tea.Cmd {
	gen := a.stack.Generation()
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		slog.Debug("fetching author", "actor", actor)
		var (
			profile domain.Profile
			page    domain.PostPage
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			profile, err = app.WithSessionRetry(gctx, a.deps.Session, func(ctx context.Context) (domain.Profile, error) {
				return a.deps.Profiles.FetchProfile(ctx, actor)
			})
			return err
		})
		g.Go(func() error {
			var err error
			page, err = app.WithSessionRetry(gctx, a.deps.Session, func(ctx context.Context) (domain.PostPage, error) {
				return a.deps.Feed.FetchAuthorFeed(ctx, actor, "")
			})
			return err
		})
		err := g.Wait()
		return authorMsg{gen: gen, profile: profile, page: page, err: err}
	}
}

// refreshPosts re-fetches every post of l in chunks, concurrently.
// Failed chunks are logged and skipped.
func (a App) refreshPosts(l view.ContentList) tea.Cmd {
	uris := view.PostURIs(l)
	if len(uris) == 0 {
		return nil
	}
	id := l.ID()
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		var (
			mu    sync.Mutex
			posts []domain.Post
		)
		var g errgroup.Group
		g.SetLimit(4)
		for start := 0; start < len(uris); start += app.MaxPostsPerLookup {
			chunk := uris[start:min(start+app.MaxPostsPerLookup, len(uris))]
			g.Go(func() error {
				got, err := app.WithSessionRetry(ctx, a.deps.Session, func(ctx context.Context) ([]domain.Post, error) {
					return a.deps.Feed.FetchPosts(ctx, chunk)
				})
				if err != nil {
					slog.Warn("refreshing posts", "count", len(chunk), "err", err)
					return err
				}
				mu.Lock()
				posts = append(posts, got...)
				mu.Unlock()
				return nil
			})
		}
		err := g.Wait()
		return refreshedMsg{listID: id, posts: posts, err: err}
	}
}

// toggle sends a like/repost change and, once it lands, schedules a
// follow-up fetch of the post to pick up server-side counts.
func (a App) toggle(verb string, original domain.Post) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		err := app.Do(ctx, a.deps.Session, func(ctx context.Context) error {
			switch verb {
			case "like":
				return a.deps.Posts.Like(ctx, original.URI, original.CID)
			case "unlike":
				return a.deps.Posts.Unlike(ctx, original.URI)
			case "repost":
				return a.deps.Posts.Repost(ctx, original.URI, original.CID)
			case "unrepost":
				return a.deps.Posts.Unrepost(ctx, original.URI)
			}
			return fmt.Errorf("unknown action %q", verb)
		})
		if err == nil {
			go a.followUp(original.URI)
		}
		return actionMsg{verb: verb, original: original, err: err}
	}
}

// followUp re-fetches uri after a short delay and queues the result for the
// next tick. Failures and a full queue are only logged.
func (a App) followUp(uri string) {
	time.Sleep(followUpDelay)
	ctx, cancel := a.ctx()
	defer cancel()
	posts, err := a.deps.Feed.FetchPosts(ctx, []string{uri})
	if err != nil || len(posts) == 0 {
		slog.Warn("follow-up fetch", "uri", uri, "err", err)
		return
	}
	select {
	case a.followUps <- posts[0]:
	default:
		slog.Warn("follow-up queue full, dropping", "uri", uri)
	}
}

// toggleFollow follows or unfollows did. known is the profile when the
// caller already has it; otherwise it is fetched first to learn the current
// follow state.
func (a App) toggleFollow(did string, known *domain.Profile) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		var profile domain.Profile
		if known != nil {
			profile = *known
		} else {
			var err error
			profile, err = app.WithSessionRetry(ctx, a.deps.Session, func(ctx context.Context) (domain.Profile, error) {
				return a.deps.Profiles.FetchProfile(ctx, did)
			})
			if err != nil {
				return followMsg{err: err}
			}
		}
		following := !profile.Following()
		err := app.Do(ctx, a.deps.Session, func(ctx context.Context) error {
			if following {
				return a.deps.Profiles.Follow(ctx, did)
			}
			return a.deps.Profiles.Unfollow(ctx, did)
		})
		if err != nil {
			return followMsg{handle: profile.Handle, err: err}
		}
		msg := followMsg{did: did, handle: profile.Handle, following: following}
		if updated, err := a.deps.Profiles.FetchProfile(ctx, did); err == nil {
			msg.profile, msg.fresh = updated, true
		}
		return msg
	}
}

func (a App) deletePost(uri string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		err := app.Do(ctx, a.deps.Session, func(ctx context.Context) error {
			return a.deps.Posts.DeletePost(ctx, uri)
		})
		return deleteMsg{uri: uri, err: err}
	}
}

func (a App) createPost(text string, reply *domain.ReplyRef) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		err := app.Do(ctx, a.deps.Session, func(ctx context.Context) error {
			return a.deps.Posts.CreatePost(ctx, text, reply)
		})
		return postedMsg{reply: reply != nil, err: err}
	}
}

func imageKey(url string, w, h int) string {
	return fmt.Sprintf("%s|%dx%d", url, w, h)
}

// imageCmds starts loading the thumbnails the current window is missing.
func (a App) imageCmds() tea.Cmd {
	if a.deps.Images == nil || a.width <= 0 {
		return nil
	}
	var cmds []tea.Cmd
	for _, req := range render.PendingImages(a.stack.Current(), a.renderOptions()) {
		key := imageKey(req.URL, req.W, req.H)
		if _, busy := a.requested[key]; busy {
			continue
		}
		a.requested[key] = struct{}{}
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := a.ctx()
			defer cancel()
			_, err := a.deps.Images.Load(ctx, req.URL, req.W, req.H)
			return imageMsg{key: key, url: req.URL, err: err}
		})
	}
	return tea.Batch(cmds...)
}
