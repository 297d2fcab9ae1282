package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the bindings for the queue view.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Search    key.Binding
	Kinds     key.Binding
	AllKinds  key.Binding
	Level     key.Binding
	Sort      key.Binding
	Toggle    key.Binding
	SelectAll key.Binding
	Bump      key.Binding
	BumpAll   key.Binding
	Open      key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding

	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Kinds:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "kind")),
		AllKinds:  key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "all kinds")),
		Level:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "level")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		SelectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		Bump:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bump")),
		BumpAll:   key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "bump selected")),
		Open:      key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter", "open")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Confirm: key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "send")),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Kinds, k.Toggle, k.Bump, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Refresh},
		{k.Search, k.Kinds, k.AllKinds, k.Level, k.Sort},
		{k.Toggle, k.SelectAll, k.Bump, k.BumpAll},
		{k.Help, k.Quit},
	}
}

// kindForKey maps the digit keys to kinds in display order.
func kindForKey(s string) (int, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}
