package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skyline-tui/skyline/domain"
	"github.com/skyline-tui/skyline/tui/command"
	"github.com/skyline-tui/skyline/tui/compose"
	"github.com/skyline-tui/skyline/tui/view"
)

func (a App) handlePage(msg pageMsg) (App, tea.Cmd) {
	l, ok := a.stack.Find(msg.listID)
	if !ok {
		slog.Debug("dropping page for a closed list", "list", msg.listID)
		return a, nil
	}
	if msg.err != nil {
		if p, ok := l.(view.Paginated); ok {
			p.FailPage(msg.seq)
		}
		slog.Error("loading posts", "list", l.Title(), "err", msg.err)
		a.setError(msg.err)
		return a, nil
	}

	applied := false
	switch l := l.(type) {
	case *view.Timeline:
		if msg.refresh {
			applied = l.ApplyRefresh(msg.seq, msg.page)
		} else {
			applied = l.ApplyPage(msg.seq, msg.page)
		}
	case *view.AuthorFeed:
		applied = l.ApplyPage(msg.seq, msg.page)
	}
	if !applied {
		slog.Debug("dropping stale page", "list", msg.listID, "seq", msg.seq)
		return a, nil
	}
	if msg.refresh {
		a.setStatus("Refreshed")
	}
	return a, nil
}

func (a App) handleNotifications(msg notificationsMsg) (App, tea.Cmd) {
	l, ok := a.stack.Find(msg.listID)
	if !ok {
		return a, nil
	}
	n, ok := l.(*view.Notifications)
	if !ok {
		return a, nil
	}
	if msg.err != nil {
		if !msg.refresh {
			n.FailPage(msg.seq)
		}
		slog.Error("loading notifications", "err", msg.err)
		a.setError(msg.err)
		return a, nil
	}
	if msg.refresh {
		items := msg.page.Notifications
		for i := len(items) - 1; i >= 0; i-- {
			n.Prepend(items[i])
		}
		a.setStatus("Refreshed")
		return a, nil
	}
	if !n.ApplyPage(msg.seq, msg.page) {
		slog.Debug("dropping stale notifications page", "seq", msg.seq)
	}
	return a, nil
}

func (a App) handleThread(msg threadMsg) (App, tea.Cmd) {
	if msg.gen != a.stack.Generation() {
		slog.Debug("discarding thread for a stale view", "uri", msg.uri)
		return a, nil
	}
	if msg.err != nil {
		slog.Error("loading thread", "uri", msg.uri, "err", msg.err)
		a.setError(msg.err)
		return a, nil
	}
	a.stack.Push(view.NewThread(msg.tree))
	switch msg.tree.Parent {
	case domain.ParentNotFound:
		a.status, a.statusErr = "Parent post not found", true
	case domain.ParentBlocked:
		a.status, a.statusErr = "Parent post is blocked", true
	default:
		a.setStatus("")
	}
	return a, nil
}

func (a App) handleAuthor(msg authorMsg) (App, tea.Cmd) {
	if msg.gen != a.stack.Generation() {
		slog.Debug("discarding profile for a stale view", "actor", msg.profile.Handle)
		return a, nil
	}
	if msg.err != nil {
		slog.Error("loading profile", "err", msg.err)
		a.setError(msg.err)
		return a, nil
	}
	a.stack.Push(view.NewAuthorFeed(msg.profile, msg.page))
	a.setStatus("")
	return a, nil
}

func (a App) handleThreadReload(msg threadReloadMsg) (App, tea.Cmd) {
	l, ok := a.stack.Find(msg.listID)
	if !ok {
		return a, nil
	}
	th, ok := l.(*view.Thread)
	if !ok {
		return a, nil
	}
	if msg.err != nil {
		a.setError(msg.err)
		return a, nil
	}
	for _, p := range msg.tree.Posts() {
		if !th.UpdateItem(p) {
			th.AddItem(p)
		}
	}
	a.setStatus("Refreshed")
	return a, nil
}

// handleRefreshed applies re-fetched posts. Refreshing is best-effort, so
// errors are only logged.
func (a App) handleRefreshed(msg refreshedMsg) (App, tea.Cmd) {
	if msg.err != nil {
		slog.Warn("refresh incomplete", "list", msg.listID, "err", msg.err)
	}
	l, ok := a.stack.Find(msg.listID)
	if !ok {
		return a, nil
	}
	for _, p := range msg.posts {
		l.UpdateItem(p)
	}
	return a, nil
}

func (a App) handleAction(msg actionMsg) (App, tea.Cmd) {
	if msg.err != nil {
		slog.Error("post action failed", "verb", msg.verb, "uri", msg.original.URI, "err", msg.err)
		a.updateEverywhere(msg.original)
		a.setError(msg.err)
		return a, nil
	}
	switch msg.verb {
	case "like":
		a.setStatus("Liked")
	case "unlike":
		a.setStatus("Unliked")
	case "repost":
		a.setStatus("Reposted")
	case "unrepost":
		a.setStatus("Repost removed")
	}
	return a, nil
}

func (a App) handleFollow(msg followMsg) (App, tea.Cmd) {
	if msg.err != nil {
		slog.Error("follow failed", "handle", msg.handle, "err", msg.err)
		a.setError(msg.err)
		return a, nil
	}
	if msg.following {
		a.setStatus("Followed @" + msg.handle)
	} else {
		a.setStatus("Unfollowed @" + msg.handle)
	}
	if msg.fresh {
		a.stack.Each(func(l view.ContentList) {
			if f, ok := l.(*view.AuthorFeed); ok && f.Profile().DID == msg.did {
				f.SetProfile(msg.profile)
			}
		})
	}
	return a, nil
}

func (a App) handleDelete(msg deleteMsg) (App, tea.Cmd) {
	if msg.err != nil {
		slog.Error("delete failed", "uri", msg.uri, "err", msg.err)
		a.setError(msg.err)
		return a, nil
	}
	a.stack.Each(func(l view.ContentList) { l.RemoveItem(msg.uri) })
	a.setStatus("Post deleted")
	if th, ok := a.stack.Current().(*view.Thread); ok && th.Anchor() == msg.uri {
		return a.back()
	}
	return a, nil
}

func (a App) handlePosted(msg postedMsg) (App, tea.Cmd) {
	if msg.err != nil {
		slog.Error("posting failed", "err", msg.err)
		a.setError(msg.err)
		return a, nil
	}
	a, cmd := a.refresh()
	if msg.reply {
		a.setStatus("Reply posted!")
	} else {
		a.setStatus("Posted!")
	}
	return a, cmd
}

func (a App) handleNewNotification(msg newNotificationMsg) (App, tea.Cmd) {
	if msg.err != nil {
		slog.Warn("fetching new notification", "err", msg.err)
		return a, nil
	}
	if !msg.ok {
		return a, nil
	}
	added := false
	a.stack.Each(func(l view.ContentList) {
		if n, ok := l.(*view.Notifications); ok && n.Prepend(msg.notification) {
			added = true
		}
	})
	if added || a.stack.Current().Kind() != view.KindNotifications {
		a.setStatus("🔔 " + msg.notification.Summary())
	}
	return a, nil
}

func (a App) handleComposeDone(msg compose.DoneMsg) (App, tea.Cmd) {
	a.composing = false
	if msg.Err != nil {
		a.setError(msg.Err)
		return a, nil
	}
	if msg.Content == "" {
		a.setStatus("Cancelled.")
		return a, nil
	}
	a.setStatus("Posting...")
	return a, a.createPost(msg.Content, msg.Reply)
}

func (a App) handleCommand(msg command.SubmitMsg) (App, tea.Cmd) {
	switch msg.Name {
	case command.Post:
		a.setStatus("Posting...")
		return a, a.createPost(msg.Args, nil)
	case command.Reply:
		p, ok := a.selectedPost()
		if !ok {
			a.setStatus("Select a post to reply to")
			return a, nil
		}
		ref := p.ReplyTarget()
		a.setStatus("Posting...")
		return a, a.createPost(msg.Args, &ref)
	case command.Refresh:
		return a.refresh()
	case command.Notifications:
		return a.openNotifications()
	case command.Timeline:
		return a.home()
	case command.Profile:
		actor := msg.Args
		if actor == "" {
			actor = a.deps.Self
		}
		return a.openAuthor(actor)
	case command.Delete:
		return a.askDelete()
	case command.Like:
		return a.toggleLike()
	case command.Repost:
		return a.toggleRepost()
	case command.Follow:
		return a.follow()
	case command.Quit:
		return a, tea.Quit
	}
	return a, nil
}
