// Package command implements the ":" command line: parsing, history and
// tab completion.
package command

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skyline-tui/skyline/tui/common"
)

// Command names.
const (
	Post          = "post"
	Reply         = "reply"
	Refresh       = "refresh"
	Notifications = "notifications"
	Timeline      = "timeline"
	Profile       = "profile"
	Delete        = "delete"
	Like          = "like"
	Repost        = "repost"
	Follow        = "follow"
	Quit          = "quit"
)

// Names lists every command in completion order.
var Names = []string{Post, Reply, Refresh, Notifications, Timeline, Profile, Delete, Like, Repost, Follow, Quit}

const maxHistory = 100

// SubmitMsg carries a parsed command to the app.
type SubmitMsg struct {
	Name string
	Args string
}

// Parse splits a command line into its name and argument text and checks
// that required arguments are present.
func Parse(line string) (SubmitMsg, error) {
	line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	if line == "" {
		return SubmitMsg{}, fmt.Errorf("empty command")
	}
	name, args, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	args = strings.TrimSpace(args)
	if !slices.Contains(Names, name) {
		return SubmitMsg{}, fmt.Errorf("unknown command: %s", name)
	}
	if (name == Post || name == Reply) && args == "" {
		return SubmitMsg{}, fmt.Errorf("usage: %s <text>", name)
	}
	return SubmitMsg{Name: name, Args: args}, nil
}

// Complete returns the command names starting with prefix.
func Complete(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []string
	for _, n := range Names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}

// Model is the command line shown at the bottom of the screen.
type Model struct {
	active         bool
	input          textinput.Model
	history        []string
	historyIdx     int
	suggestions    []string
	suggestionIdx  int
	completionBase string
	err            string
}

// New creates an inactive command line.
func New() Model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 76
	ti.Prompt = ":"
	return Model{input: ti, historyIdx: -1}
}

// SetWidth updates the input width.
func (c *Model) SetWidth(width int) {
	c.input.Width = max(width-4, 10)
}

// Show activates the command line with an empty input.
func (c *Model) Show() tea.Cmd {
	c.active = true
	c.err = ""
	c.input.SetValue("")
	c.historyIdx = len(c.history)
	c.resetCompletion()
	return c.input.Focus()
}

// Hide deactivates the command line.
func (c *Model) Hide() {
	c.active = false
	c.input.Blur()
	c.input.SetValue("")
	c.historyIdx = -1
	c.resetCompletion()
}

func (c *Model) resetCompletion() {
	c.suggestions = nil
	c.suggestionIdx = 0
	c.completionBase = ""
}

// IsActive reports whether the command line has focus.
func (c Model) IsActive() bool { return c.active }

// History returns the submitted lines, oldest first.
func (c Model) History() []string { return c.history }

// Update handles input while the command line is active.
func (c Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !c.active {
		return c, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}

	switch key.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		c.Hide()
		return c, nil

	case tea.KeyEnter:
		line := strings.TrimSpace(c.input.Value())
		if line == "" {
			c.Hide()
			return c, nil
		}
		c.addToHistory(line)
		sub, err := Parse(line)
		if err != nil {
			c.err = err.Error()
			c.input.SetValue("")
			c.historyIdx = len(c.history)
			return c, nil
		}
		c.Hide()
		return c, func() tea.Msg { return sub }

	case tea.KeyUp:
		if c.historyIdx > 0 {
			c.historyIdx--
			c.input.SetValue(c.history[c.historyIdx])
			c.input.CursorEnd()
		}
		return c, nil

	case tea.KeyDown:
		if c.historyIdx < len(c.history)-1 {
			c.historyIdx++
			c.input.SetValue(c.history[c.historyIdx])
			c.input.CursorEnd()
		} else if c.historyIdx == len(c.history)-1 {
			c.historyIdx = len(c.history)
			c.input.SetValue("")
		}
		return c, nil

	case tea.KeyTab:
		c.complete()
		return c, nil
	}

	c.err = ""
	c.resetCompletion()
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// complete cycles through the command names matching the typed prefix.
// Only the command name is completed; arguments are left alone.
func (c *Model) complete() {
	current := c.input.Value()
	if strings.Contains(current, " ") {
		return
	}
	if len(c.suggestions) == 0 {
		c.completionBase = current
		c.suggestions = Complete(current)
		c.suggestionIdx = 0
		if len(c.suggestions) == 0 {
			return
		}
	}
	next := c.suggestions[c.suggestionIdx%len(c.suggestions)]
	c.suggestionIdx = (c.suggestionIdx + 1) % len(c.suggestions)
	if len(c.suggestions) == 1 {
		next += " "
	}
	c.input.SetValue(next)
	c.input.CursorEnd()
}

func (c *Model) addToHistory(line string) {
	if n := len(c.history); n > 0 && c.history[n-1] == line {
		return
	}
	c.history = append(c.history, line)
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}
}

// View renders the command line, or the last error in its place.
func (c Model) View() string {
	if !c.active {
		return ""
	}
	if c.err != "" {
		return common.ErrorStyle.Render(c.err) + "  " + c.input.View()
	}
	return c.input.View()
}
