package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skyline-tui/skyline/app"
	"github.com/skyline-tui/skyline/domain"
	"github.com/skyline-tui/skyline/infra/stream"
	"github.com/skyline-tui/skyline/tui/command"
	"github.com/skyline-tui/skyline/tui/common"
	"github.com/skyline-tui/skyline/tui/compose"
	"github.com/skyline-tui/skyline/tui/render"
	"github.com/skyline-tui/skyline/tui/view"
)

const (
	tickInterval       = 250 * time.Millisecond
	followUpDelay      = 200 * time.Millisecond
	followUpBuffer     = 10
	requestTimeout     = 20 * time.Second
	notificationsLimit = 50
)

// ImageLoader renders thumbnails, loading them in the background on demand.
type ImageLoader interface {
	render.Images
	Load(ctx context.Context, url string, w, h int) (string, error)
}

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Feed          app.FeedService
	Profiles      app.ProfileService
	Notifications app.NotificationService
	Posts         app.PostService
	Session       app.SessionRefresher
	Editor        app.Composer
	Images        ImageLoader         // nil disables thumbnails
	Events        <-chan stream.Event // nil when live updates are off

	Self        string // DID of the logged-in user
	Handle      string
	ShowImages  bool
	UIStatePath string
}

// App is the root Bubble Tea model. It owns the view stack and routes input
// to the current list, the composer or the command line.
type App struct {
	deps    Deps
	keys    common.KeyMap
	help    help.Model
	spinner spinner.Model
	stack   *view.Stack

	followUps chan domain.Post
	requested map[string]struct{} // thumbnails being loaded

	compose   compose.Model
	composing bool
	command   command.Model

	width, height int
	status        string
	statusErr     bool
	confirmDelete string // uri awaiting y/n
	showImages    bool
	showHelp      bool
	live          string
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = common.BreadcrumbStyle
	return App{
		deps:       deps,
		keys:       common.DefaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		stack:      view.NewStack(view.NewTimeline()),
		followUps:  make(chan domain.Post, followUpBuffer),
		requested:  make(map[string]struct{}),
		command:    command.New(),
		showImages: deps.ShowImages,
	}
}

// Init loads the first timeline page and starts the drain tick.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.nextPage(a.stack.Root()),
		tick(),
	)
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update routes msg, then re-lays out the current list and requests any
// thumbnails that became visible.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a, cmd := a.update(msg)
	a.layout()
	return a, tea.Batch(cmd, a.imageCmds())
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		a.command.SetWidth(msg.Width)
		return a, nil

	case tickMsg:
		return a, tea.Batch(a.drain(), tick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if a.command.IsActive() {
			var cmd tea.Cmd
			a.command, cmd = a.command.Update(msg)
			return a, cmd
		}
		if a.composing {
			var cmd tea.Cmd
			a.compose, cmd = a.compose.Update(msg)
			return a, cmd
		}
		return a.handleKey(msg)

	case command.SubmitMsg:
		return a.handleCommand(msg)

	case compose.DoneMsg:
		return a.handleComposeDone(msg)

	case pageMsg:
		return a.handlePage(msg)
	case notificationsMsg:
		return a.handleNotifications(msg)
	case threadMsg:
		return a.handleThread(msg)
	case authorMsg:
		return a.handleAuthor(msg)
	case threadReloadMsg:
		return a.handleThreadReload(msg)
	case refreshedMsg:
		return a.handleRefreshed(msg)
	case actionMsg:
		return a.handleAction(msg)
	case followMsg:
		return a.handleFollow(msg)
	case deleteMsg:
		return a.handleDelete(msg)
	case postedMsg:
		return a.handlePosted(msg)
	case newNotificationMsg:
		return a.handleNewNotification(msg)
	case imageMsg:
		// Failed thumbnails stay requested so they are not retried every tick.
		if msg.err != nil {
			slog.Debug("thumbnail failed", "url", msg.url, "err", msg.err)
			return a, nil
		}
		delete(a.requested, msg.key)
		return a, nil
	}

	if a.composing {
		var cmd tea.Cmd
		a.compose, cmd = a.compose.Update(msg)
		return a, cmd
	}
	if a.command.IsActive() {
		var cmd tea.Cmd
		a.command, cmd = a.command.Update(msg)
		return a, cmd
	}
	return a, nil
}

// drain applies everything waiting on the follow-up and live-update
// channels without blocking.
func (a *App) drain() tea.Cmd {
followUps:
	for {
		select {
		case p := <-a.followUps:
			a.updateEverywhere(p)
		default:
			break followUps
		}
	}
	if a.deps.Events == nil {
		return nil
	}

	var cmds []tea.Cmd
events:
	for {
		select {
		case ev, ok := <-a.deps.Events:
			if !ok {
				a.deps.Events = nil
				break events
			}
			switch ev.Kind {
			case stream.ConnectionStatus:
				a.live = ev.Status.String()
				slog.Debug("live updates", "status", a.live)
			case stream.NewNotification:
				cmds = append(cmds, a.fetchNewestNotification())
			}
		default:
			break events
		}
	}
	return tea.Batch(cmds...)
}

// layout gives the current list the rows left over by the chrome.
func (a *App) layout() {
	if a.width <= 0 || a.height <= 0 {
		return
	}
	a.stack.Current().SetViewport(a.width, a.listHeight())
}

func (a App) listHeight() int {
	rows := a.height - 2 - a.footerRows()
	if a.composing && a.compose.IsInline() {
		rows -= a.compose.Height()
	}
	return max(rows, 1)
}

func (a App) footerRows() int {
	if a.showHelp {
		n := 0
		for _, col := range a.keys.FullHelp() {
			n = max(n, len(col))
		}
		return n
	}
	return 1
}

func (a App) renderOptions() render.Options {
	opts := render.Options{
		Width:      a.width,
		Height:     a.listHeight(),
		ShowImages: a.showImages,
		Self:       a.deps.Self,
	}
	if a.deps.Images != nil {
		opts.Images = a.deps.Images
	}
	return opts
}

// updateEverywhere applies a fresher copy of a post to every list holding it.
func (a *App) updateEverywhere(p domain.Post) {
	a.stack.Each(func(l view.ContentList) { l.UpdateItem(p) })
}

func (a *App) setStatus(msg string) {
	a.status, a.statusErr = msg, false
}

func (a *App) setError(err error) {
	a.status, a.statusErr = app.StatusText(err), true
}
