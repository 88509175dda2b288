package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the main view.
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	OpenThread    key.Binding // v/enter
	OpenAuthor    key.Binding // a
	Notifications key.Binding // n
	Back          key.Binding // esc
	Quit          key.Binding
	ForceQuit     key.Binding

	Like    key.Binding // l
	Repost  key.Binding // r
	Follow  key.Binding // f
	Delete  key.Binding // d, confirmed with y
	Confirm key.Binding
	Refresh key.Binding // ctrl+r
	Images  key.Binding // i

	NewEditor   key.Binding // p, compose via $EDITOR
	NewInline   key.Binding // P, compose inline
	Reply       key.Binding // c, reply via $EDITOR
	ReplyInline key.Binding // C, reply inline
	Command     key.Binding // :
	ToggleHints key.Binding // ?
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		OpenThread: key.NewBinding(
			key.WithKeys("v", "enter"),
			key.WithHelp("v", "thread"),
		),
		OpenAuthor: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "author"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "notifications"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "like"),
		),
		Repost: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "repost"),
		),
		Follow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "follow"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
		Images: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "images"),
		),
		NewEditor: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "post ($EDITOR)"),
		),
		NewInline: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "post (inline)"),
		),
		Reply: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "reply ($EDITOR)"),
		),
		ReplyInline: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "reply (inline)"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command"),
		),
		ToggleHints: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "keys"),
		),
	}
}

// ShortHelp is the one-line hint shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.OpenThread, k.OpenAuthor, k.Notifications, k.Like, k.Repost, k.NewEditor, k.Command, k.ToggleHints, k.Quit}
}

// FullHelp groups every binding for the expanded hint view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.OpenThread, k.OpenAuthor, k.Notifications, k.Back},
		{k.Like, k.Repost, k.Follow, k.Delete, k.Refresh, k.Images},
		{k.NewEditor, k.NewInline, k.Reply, k.ReplyInline, k.Command, k.Quit},
	}
}
