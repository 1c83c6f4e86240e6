// Package widget provides the notebook controls: sliders, toggles, choices
// and tabs. Controls never commit a value on their own; they report the value
// the operator asked for and accept the confirmed value through SetValue.
package widget

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds the bindings shared by every notebook page.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	CoarseLeft  key.Binding
	CoarseRight key.Binding
	Activate    key.Binding
}

// DefaultKeyMap returns the default notebook key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev control"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next control"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "decrease"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "increase"),
		),
		CoarseLeft: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("⇧←", "decrease more"),
		),
		CoarseRight: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("⇧→", "increase more"),
		),
		Activate: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
	}
}

// ShortHelp returns the bindings shown in the one-line help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Activate}
}

// FullHelp returns every binding, grouped in columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Left, k.Right, k.CoarseLeft, k.CoarseRight},
		{k.Activate},
	}
}

// Steps translates an adjust key into a signed step count. ok is false for
// any other key.
func (k KeyMap) Steps(msg tea.KeyMsg, coarse int) (int, bool) {
	switch {
	case key.Matches(msg, k.CoarseLeft):
		return -coarse, true
	case key.Matches(msg, k.CoarseRight):
		return coarse, true
	case key.Matches(msg, k.Left):
		return -1, true
	case key.Matches(msg, k.Right):
		return 1, true
	default:
		return 0, false
	}
}
