package compose

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skyline-tui/skyline/domain"
)

type stubComposer struct {
	content    string
	readErr    error
	replyingTo string
}

func (s *stubComposer) Cmd(_, replyingTo string) (*exec.Cmd, string, error) {
	s.replyingTo = replyingTo
	return exec.Command("true"), "/tmp/skyline-test.md", nil
}

func (s *stubComposer) ReadContent(string) (string, error) {
	return s.content, s.readErr
}

func runDone(t *testing.T, cmd tea.Cmd) DoneMsg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	msg, ok := cmd().(DoneMsg)
	if !ok {
		t.Fatalf("expected DoneMsg, got %T", cmd())
	}
	return msg
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestInlineSubmit(t *testing.T) {
	reply := &domain.ReplyRef{Parent: domain.StrongRef{URI: "at://p/1"}}
	m := NewInline(reply, "bob.test", 80)
	m = typeText(m, "hi bob")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	got := runDone(t, cmd)
	if got.Content != "hi bob" || got.Reply != reply || got.Err != nil {
		t.Fatalf("unexpected done message %+v", got)
	}
	if !strings.Contains(m.View(), "Reply to @bob.test") {
		t.Fatalf("expected reply title in view")
	}
}

func TestInlineCancel(t *testing.T) {
	m := typeText(NewInline(nil, "", 80), "draft")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := runDone(t, cmd); got.Content != "" || got.Err != nil {
		t.Fatalf("esc should cancel, got %+v", got)
	}

	m = NewInline(nil, "", 80)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if got := runDone(t, cmd); got.Content != "" {
		t.Fatalf("empty text should cancel, got %+v", got)
	}
}

func TestInlineHeightMatchesView(t *testing.T) {
	m := NewInline(nil, "", 80)
	if got := len(strings.Split(m.View(), "\n")); got != m.Height() {
		t.Fatalf("view has %d rows, Height reports %d", got, m.Height())
	}
	if !m.IsInline() {
		t.Fatalf("expected inline mode")
	}
}

func TestEditorFlow(t *testing.T) {
	ed := &stubComposer{content: "  from the editor \n"}
	m := NewEditor(ed, nil, "")
	if m.Init() == nil {
		t.Fatalf("expected the editor to be launched")
	}

	_, cmd := m.Update(editorFinishedMsg{tmpPath: "/tmp/skyline-test.md"})
	if got := runDone(t, cmd); got.Content != "from the editor" {
		t.Fatalf("unexpected content %q", got.Content)
	}

	ed.content = strings.Repeat("x", domain.MaxPostLength+1)
	_, cmd = m.Update(editorFinishedMsg{})
	if got := runDone(t, cmd); !errors.Is(got.Err, domain.ErrPostTooLong) {
		t.Fatalf("expected too-long error, got %v", got.Err)
	}

	_, cmd = m.Update(editorFinishedMsg{err: errors.New("exit status 1")})
	if got := runDone(t, cmd); got.Err == nil || !strings.Contains(got.Err.Error(), "editor") {
		t.Fatalf("expected editor error, got %v", got.Err)
	}
}

func TestEditorPassesReplyTarget(t *testing.T) {
	ed := &stubComposer{}
	m := NewEditor(ed, &domain.ReplyRef{}, "carol.test")
	m.Init()
	if ed.replyingTo != "carol.test" {
		t.Fatalf("expected reply target to reach the editor, got %q", ed.replyingTo)
	}
}
