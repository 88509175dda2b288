package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skyline-tui/skyline/domain"
	"github.com/skyline-tui/skyline/infra/config"
	"github.com/skyline-tui/skyline/tui/compose"
	"github.com/skyline-tui/skyline/tui/view"
)

// handleKey processes key presses on the main view.
func (a App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		return a, tea.Quit
	}

	if a.confirmDelete != "" {
		uri := a.confirmDelete
		a.confirmDelete = ""
		if key.Matches(msg, a.keys.Confirm) {
			a.setStatus("Deleting...")
			return a, a.deletePost(uri)
		}
		a.setStatus("Cancelled.")
		return a, nil
	}

	cur := a.stack.Current()
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		cur.ScrollDown()
		return a, a.maybePaginate()

	case key.Matches(msg, a.keys.Up):
		cur.ScrollUp()
		return a, nil

	case key.Matches(msg, a.keys.OpenThread):
		return a.openThread()

	case key.Matches(msg, a.keys.OpenAuthor):
		return a.openAuthor("")

	case key.Matches(msg, a.keys.Notifications):
		return a.openNotifications()

	case key.Matches(msg, a.keys.Back):
		return a.back()

	case key.Matches(msg, a.keys.Like):
		return a.toggleLike()

	case key.Matches(msg, a.keys.Repost):
		return a.toggleRepost()

	case key.Matches(msg, a.keys.Follow):
		return a.follow()

	case key.Matches(msg, a.keys.Delete):
		return a.askDelete()

	case key.Matches(msg, a.keys.Refresh):
		return a.refresh()

	case key.Matches(msg, a.keys.Images):
		return a.toggleImages()

	case key.Matches(msg, a.keys.NewEditor):
		return a.startCompose(false, false)
	case key.Matches(msg, a.keys.NewInline):
		return a.startCompose(false, true)
	case key.Matches(msg, a.keys.Reply):
		return a.startCompose(true, false)
	case key.Matches(msg, a.keys.ReplyInline):
		return a.startCompose(true, true)

	case key.Matches(msg, a.keys.Command):
		return a, a.command.Show()

	case key.Matches(msg, a.keys.ToggleHints):
		a.showHelp = !a.showHelp
		return a, nil
	}
	return a, nil
}

// maybePaginate requests the next page once the selection nears the end.
func (a App) maybePaginate() tea.Cmd {
	cur := a.stack.Current()
	p, ok := cur.(view.Paginated)
	if !ok || !cur.NeedsMorePagination() {
		return nil
	}
	return a.nextPage(p)
}

func (a App) selectedPost() (domain.Post, bool) {
	it, ok := a.stack.Current().SelectedItem()
	if !ok {
		return domain.Post{}, false
	}
	p, ok := it.(domain.Post)
	return p, ok
}

func (a App) openThread() (App, tea.Cmd) {
	it, ok := a.stack.Current().SelectedItem()
	if !ok {
		return a, nil
	}
	var uri string
	switch it := it.(type) {
	case domain.Post:
		uri = it.URI
	case domain.Notification:
		switch it.Reason {
		case domain.ReasonFollow:
			return a.openAuthor(it.Author.DID)
		case domain.ReasonLike, domain.ReasonRepost:
			uri = it.ReasonSubject
		default:
			uri = it.URI
		}
	}
	if uri == "" {
		return a, nil
	}
	if th, ok := a.stack.Current().(*view.Thread); ok && !th.CanViewThread(uri) {
		a.setStatus("Already viewing this thread")
		return a, nil
	}
	a.setStatus("Loading thread...")
	return a, a.fetchThread(uri)
}

// openAuthor pushes the author feed of actor, or of the selected item's
// author when actor is empty.
func (a App) openAuthor(actor string) (App, tea.Cmd) {
	if actor == "" {
		it, ok := a.stack.Current().SelectedItem()
		if !ok {
			return a, nil
		}
		switch it := it.(type) {
		case domain.Post:
			actor = it.Author.DID
		case domain.Notification:
			actor = it.Author.DID
		}
	}
	if f, ok := a.stack.Current().(*view.AuthorFeed); ok && (f.Profile().DID == actor || f.Profile().Handle == actor) {
		return a, nil
	}
	a.setStatus("Loading profile...")
	return a, a.fetchAuthor(actor)
}

func (a App) openNotifications() (App, tea.Cmd) {
	if a.stack.Current().Kind() == view.KindNotifications {
		return a, nil
	}
	n := view.NewNotifications()
	a.stack.Push(n)
	a.setStatus("")
	return a, a.nextPage(n)
}

// back pops the current list and refreshes the one underneath.
func (a App) back() (App, tea.Cmd) {
	if !a.stack.Pop() {
		return a, nil
	}
	a.setStatus("")
	return a, a.refreshPosts(a.stack.Current())
}

// home pops back down to the timeline.
func (a App) home() (App, tea.Cmd) {
	if a.stack.Len() == 1 {
		return a, nil
	}
	for a.stack.Pop() {
	}
	a.setStatus("")
	return a, a.refreshPosts(a.stack.Current())
}

func (a App) toggleLike() (App, tea.Cmd) {
	p, ok := a.selectedPost()
	if !ok {
		return a, nil
	}
	next := p
	verb := "like"
	if p.Liked {
		verb = "unlike"
		next.Liked = false
		next.LikeCount = max(p.LikeCount-1, 0)
	} else {
		next.Liked = true
		next.LikeCount = p.LikeCount + 1
	}
	a.updateEverywhere(next)
	return a, a.toggle(verb, p)
}

func (a App) toggleRepost() (App, tea.Cmd) {
	p, ok := a.selectedPost()
	if !ok {
		return a, nil
	}
	next := p
	verb := "repost"
	if p.Reposted {
		verb = "unrepost"
		next.Reposted = false
		next.RepostCount = max(p.RepostCount-1, 0)
	} else {
		next.Reposted = true
		next.RepostCount = p.RepostCount + 1
	}
	a.updateEverywhere(next)
	return a, a.toggle(verb, p)
}

func (a App) follow() (App, tea.Cmd) {
	if f, ok := a.stack.Current().(*view.AuthorFeed); ok {
		profile := f.Profile()
		return a, a.toggleFollow(profile.DID, &profile)
	}
	it, ok := a.stack.Current().SelectedItem()
	if !ok {
		return a, nil
	}
	var did string
	switch it := it.(type) {
	case domain.Post:
		did = it.Author.DID
	case domain.Notification:
		did = it.Author.DID
	}
	if did == a.deps.Self {
		a.setStatus("You cannot follow yourself")
		return a, nil
	}
	return a, a.toggleFollow(did, nil)
}

func (a App) askDelete() (App, tea.Cmd) {
	p, ok := a.selectedPost()
	if !ok {
		return a, nil
	}
	if p.Author.DID != a.deps.Self {
		a.status, a.statusErr = "You can only delete your own posts", true
		return a, nil
	}
	a.confirmDelete = p.URI
	a.setStatus("Delete this post? (y/n)")
	return a, nil
}

// refresh reloads the current list.
func (a App) refresh() (App, tea.Cmd) {
	switch l := a.stack.Current().(type) {
	case *view.Timeline:
		a.setStatus("Refreshing...")
		return a, a.fetchTimeline(l.ID(), l.BeginRefresh(), "", true)
	case *view.Thread:
		return a, a.reloadThread(l)
	case *view.Notifications:
		a.setStatus("Refreshing...")
		return a, a.fetchNotifications(l.ID(), 0, "", true)
	default:
		return a, a.refreshPosts(l)
	}
}

func (a App) toggleImages() (App, tea.Cmd) {
	a.showImages = !a.showImages
	if a.showImages {
		a.setStatus("Image previews on")
	} else {
		a.setStatus("Image previews off")
	}
	if a.deps.UIStatePath != "" {
		if err := config.SaveUIState(a.deps.UIStatePath, config.UIState{HideImages: !a.showImages}); err != nil {
			a.setError(err)
		}
	}
	return a, nil
}

func (a App) startCompose(reply, inline bool) (App, tea.Cmd) {
	var target *domain.ReplyRef
	var to string
	if reply {
		p, ok := a.selectedPost()
		if !ok {
			a.setStatus("Select a post to reply to")
			return a, nil
		}
		ref := p.ReplyTarget()
		target, to = &ref, p.Author.Handle
	}
	if inline {
		a.compose = compose.NewInline(target, to, a.width)
	} else {
		a.compose = compose.NewEditor(a.deps.Editor, target, to)
	}
	a.composing = true
	a.setStatus("")
	return a, a.compose.Init()
}
