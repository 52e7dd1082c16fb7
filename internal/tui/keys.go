package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the ticket browser.
type KeyMap struct {
	// Navigation. The list table and the detail viewport also accept
	// their own paging keys.
	Up   key.Binding
	Down key.Binding
	Open key.Binding
	Back key.Binding

	// List scope.
	Refresh        key.Binding
	ToggleAll      key.Binding
	Search         key.Binding
	StatusFilter   key.Binding
	PriorityFilter key.Binding

	// Mutations. Each opens a modal that closes before the store is
	// touched.
	New     key.Binding
	Edit    key.Binding
	Status  key.Binding
	Comment key.Binding
	Delete  key.Binding

	// Modal input.
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Confirm   key.Binding
	Deny      key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style j/k work
// alongside the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "view"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	ToggleAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all projects"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	StatusFilter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "status filter"),
	),
	PriorityFilter: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "priority filter"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Status: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "status"),
	),
	Comment: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "comment"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "previous field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("C-d", "save"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	),
	Deny: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n", "no"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap for the list view.
func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Open, keys.New, keys.Search, keys.ToggleAll, keys.Help, keys.Quit}
}

// FullHelp implements help.KeyMap for the list view.
func (keys KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Up, keys.Down, keys.Open, keys.Back},
		{keys.Refresh, keys.ToggleAll, keys.Search, keys.StatusFilter, keys.PriorityFilter},
		{keys.New, keys.Edit, keys.Status, keys.Comment, keys.Delete},
		{keys.Help, keys.Quit},
	}
}
