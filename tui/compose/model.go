package compose

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skyline-tui/skyline/app"
	"github.com/skyline-tui/skyline/domain"
)

// --- Mode ---

type mode int

const (
	editorMode mode = iota
	inlineMode
)

// --- Messages ---

// DoneMsg is sent when composing is complete (success or cancel).
type DoneMsg struct {
	Content string           // Empty if cancelled
	Reply   *domain.ReplyRef // Set when answering a post
	Err     error
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// --- Model ---

// Model holds the state for composing a post or a reply.
type Model struct {
	mode       mode
	editor     app.Composer
	reply      *domain.ReplyRef
	replyingTo string
	status     string
	textarea   textarea.Model // Only used in inline mode
	tmpPath    string         // Temp file path for editor mode
}

// NewEditor creates a compose model that opens $EDITOR via tea.Exec.
// reply is nil for a new top-level post.
func NewEditor(ed app.Composer, reply *domain.ReplyRef, replyingTo string) Model {
	return Model{
		mode:       editorMode,
		editor:     ed,
		reply:      reply,
		replyingTo: replyingTo,
		status:     "Opening editor...",
	}
}

// NewInline creates a compose model with an inline Bubble Tea textarea.
func NewInline(reply *domain.ReplyRef, replyingTo string, width int) Model {
	ta := textarea.New()
	ta.Placeholder = "What's happening?"
	if reply != nil {
		ta.Placeholder = "Write your reply..."
	}
	ta.CharLimit = domain.MaxPostLength
	ta.SetWidth(min(max(width-4, 20), 80))
	ta.SetHeight(5)
	ta.ShowLineNumbers = false
	ta.Focus()

	return Model{
		mode:       inlineMode,
		reply:      reply,
		replyingTo: replyingTo,
		textarea:   ta,
	}
}

// IsInline reports whether the composer draws inside the main view.
func (m Model) IsInline() bool { return m.mode == inlineMode }

// Height is the number of rows View occupies in inline mode.
func (m Model) Height() int {
	if m.mode != inlineMode {
		return 1
	}
	return m.textarea.Height() + 2
}

// Init returns the initial command for the active mode.
func (m *Model) Init() tea.Cmd {
	switch m.mode {
	case editorMode:
		return m.launchEditor()
	case inlineMode:
		return textarea.Blink
	}
	return nil
}

// launchEditor prepares the editor command and uses tea.ExecProcess to
// suspend Bubble Tea's raw terminal mode while the editor runs.
func (m *Model) launchEditor() tea.Cmd {
	cmd, tmpPath, err := m.editor.Cmd("", m.replyingTo)
	if err != nil {
		return done(DoneMsg{Reply: m.reply, Err: fmt.Errorf("preparing editor: %w", err)})
	}
	m.tmpPath = tmpPath
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// Update handles messages for the composer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case editorFinishedMsg:
		if msg.err != nil {
			return m, done(DoneMsg{Reply: m.reply, Err: fmt.Errorf("editor: %w", msg.err)})
		}
		content, err := m.editor.ReadContent(msg.tmpPath)
		if err != nil {
			return m, done(DoneMsg{Reply: m.reply, Err: err})
		}
		return m, m.finish(content)

	case tea.KeyMsg:
		if m.mode != inlineMode {
			break
		}
		switch msg.String() {
		case "esc":
			return m, done(DoneMsg{Reply: m.reply}) // Cancel.
		case "ctrl+d":
			if n := utf8.RuneCountInString(strings.TrimSpace(m.textarea.Value())); n > domain.MaxPostLength {
				m.status = fmt.Sprintf("Post is %d characters, the limit is %d", n, domain.MaxPostLength)
				return m, nil
			}
			return m, m.finish(m.textarea.Value())
		}
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		m.status = ""
		return m, cmd
	}

	if m.mode == inlineMode {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) finish(content string) tea.Cmd {
	content = strings.TrimSpace(content)
	if content == "" {
		return done(DoneMsg{Reply: m.reply}) // Cancel.
	}
	if utf8.RuneCountInString(content) > domain.MaxPostLength {
		return done(DoneMsg{Reply: m.reply, Err: domain.ErrPostTooLong})
	}
	return done(DoneMsg{Content: content, Reply: m.reply})
}

// done wraps a DoneMsg into a tea.Cmd for immediate delivery.
func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
