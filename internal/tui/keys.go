package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"fricu/internal/analysis"
)

type keyMap struct {
	Window30  key.Binding
	Window90  key.Binding
	Window180 key.Binding
	Window365 key.Binding
	WindowAll key.Binding
	Sport     key.Binding
	Tab       key.Binding
	Refresh   key.Binding
	Profile   key.Binding
	Help      key.Binding
	Back      key.Binding
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Window30: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "30 days"),
	),
	Window90: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "90 days"),
	),
	Window180: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "180 days"),
	),
	Window365: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "365 days"),
	),
	WindowAll: key.NewBinding(
		key.WithKeys("5"),
		key.WithHelp("5", "all time"),
	),
	Sport: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "cycle sport filter"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "dashboard/activities"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Profile: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "edit profile"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "previous page"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "next page"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Window30, k.WindowAll, k.Sport, k.Tab, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Window30, k.Window90, k.Window180, k.Window365, k.WindowAll},
		{k.Sport, k.Tab, k.Refresh, k.Profile},
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Help, k.Back, k.Quit},
	}
}

// windowFor maps a window key to its window
func windowFor(s string) (analysis.Window, bool) {
	switch s {
	case "1":
		return analysis.Window30, true
	case "2":
		return analysis.Window90, true
	case "3":
		return analysis.Window180, true
	case "4":
		return analysis.Window365, true
	case "5":
		return analysis.WindowAll, true
	}
	return analysis.Window{}, false
}
