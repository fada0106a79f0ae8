package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
)

type keyMap struct {
	Next        key.Binding
	Prev        key.Binding
	FilterName  key.Binding
	FilterEmail key.Binding
	Search      key.Binding
	SortName    key.Binding
	SortEmail   key.Binding
	Detail      key.Binding
	Refresh     key.Binding
	Back        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n/→", "next page"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p/←", "prev page"),
		),
		FilterName: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter names"),
		),
		FilterEmail: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "filter emails"),
		),
		Search: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "search all"),
		),
		SortName: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort name"),
		),
		SortEmail: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "sort email"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refetch"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.FilterName, k.FilterEmail, k.Search, k.Detail, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.FilterName, k.FilterEmail, k.Search},
		{k.SortName, k.SortEmail},
		{k.Detail, k.Back, k.Refresh, k.Quit},
	}
}

// tableKeyMap keeps row navigation on the table and frees the letters the
// browser binds itself.
func tableKeyMap() table.KeyMap {
	km := table.DefaultKeyMap()
	km.LineUp = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up"))
	km.LineDown = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down"))
	km.PageUp = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up"))
	km.PageDown = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down"))
	km.HalfPageUp = key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "½ page up"))
	km.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "½ page down"))
	km.GotoTop = key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "go to start"))
	km.GotoBottom = key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "go to end"))
	return km
}
