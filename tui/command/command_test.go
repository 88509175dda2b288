package command

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeLine(c Model, s string) Model {
	for _, r := range s {
		c, _ = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return c
}

func TestParse(t *testing.T) {
	got, err := Parse(":post hello  world ")
	if err != nil || got.Name != Post || got.Args != "hello  world" {
		t.Fatalf("unexpected parse result %+v, %v", got, err)
	}
	if got, err := Parse("Profile bob.test"); err != nil || got.Name != Profile || got.Args != "bob.test" {
		t.Fatalf("names are case-insensitive: %+v, %v", got, err)
	}
	if _, err := Parse("post"); err == nil || !strings.Contains(err.Error(), "usage") {
		t.Fatalf("post needs text, got %v", err)
	}
	if _, err := Parse("frobnicate"); err == nil {
		t.Fatalf("unknown commands should fail")
	}
	if _, err := Parse("  "); err == nil {
		t.Fatalf("empty line should fail")
	}
}

func TestComplete(t *testing.T) {
	if got := Complete("re"); len(got) != 3 || got[0] != Reply || got[1] != Refresh || got[2] != Repost {
		t.Fatalf("unexpected completions %v", got)
	}
	if got := Complete("x"); len(got) != 0 {
		t.Fatalf("expected no completions, got %v", got)
	}
}

func TestSubmitEmitsMessage(t *testing.T) {
	c := New()
	c.Show()
	c = typeLine(c, "like")
	c, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected a submit command")
	}
	if msg, ok := cmd().(SubmitMsg); !ok || msg.Name != Like {
		t.Fatalf("unexpected message %#v", cmd())
	}
	if c.IsActive() {
		t.Fatalf("command line should close after submit")
	}
}

func TestInvalidCommandKeepsLineOpen(t *testing.T) {
	c := New()
	c.Show()
	c = typeLine(c, "nope")
	c, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || !c.IsActive() {
		t.Fatalf("invalid command should keep the line open without a command")
	}
	if !strings.Contains(c.View(), "unknown command") {
		t.Fatalf("expected error in view: %q", c.View())
	}
}

func TestHistoryNavigation(t *testing.T) {
	c := New()
	for _, line := range []string{"refresh", "timeline"} {
		c.Show()
		c = typeLine(c, line)
		c, _ = c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	c.Show()
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyUp})
	if c.input.Value() != "timeline" {
		t.Fatalf("expected last command, got %q", c.input.Value())
	}
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyUp})
	if c.input.Value() != "refresh" {
		t.Fatalf("expected first command, got %q", c.input.Value())
	}
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyDown})
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyDown})
	if c.input.Value() != "" {
		t.Fatalf("moving past the newest entry clears the line, got %q", c.input.Value())
	}
	if len(c.History()) != 2 {
		t.Fatalf("expected 2 history entries, got %v", c.History())
	}
}

func TestTabCompletionCycles(t *testing.T) {
	c := New()
	c.Show()
	c = typeLine(c, "re")
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyTab})
	if c.input.Value() != Reply {
		t.Fatalf("expected %q, got %q", Reply, c.input.Value())
	}
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyTab})
	if c.input.Value() != Refresh {
		t.Fatalf("expected %q, got %q", Refresh, c.input.Value())
	}

	c.Show()
	c = typeLine(c, "noti")
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyTab})
	if c.input.Value() != Notifications+" " {
		t.Fatalf("a unique match completes with a trailing space, got %q", c.input.Value())
	}
}

func TestEscCloses(t *testing.T) {
	c := New()
	c.Show()
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if c.IsActive() || c.View() != "" {
		t.Fatalf("esc should close the command line")
	}
}
