package app

import (
	"github.com/alkime/scope/internal/tui/widget"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the console key bindings. The help shown depends on
// whether the graph or the notebook has focus.
type KeyMap struct {
	Quit     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Focus    key.Binding
	Help     key.Binding
	Meter    key.Binding

	Notebook widget.KeyMap

	graphFocused bool
}

// DefaultKeyMap returns the default console key bindings.
func DefaultKeyMap(meter key.Binding) KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev page"),
		),
		Focus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "focus graph/notebook"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Meter:    meter,
		Notebook: widget.DefaultKeyMap(),
	}
}

// ShortHelp returns the short help bindings.
func (k KeyMap) ShortHelp() []key.Binding {
	if k.graphFocused {
		return []key.Binding{k.Meter, k.Notebook.Up, k.Notebook.Down, k.Focus, k.Quit, k.Help}
	}

	return []key.Binding{k.NextPage, k.Notebook.Up, k.Notebook.Down, k.Notebook.Activate, k.Focus, k.Quit, k.Help}
}

// FullHelp returns the full help bindings.
func (k KeyMap) FullHelp() [][]key.Binding {
	if k.graphFocused {
		return [][]key.Binding{
			{k.Meter},
			{k.Notebook.Up, k.Notebook.Down, k.Notebook.Left, k.Notebook.Right},
			{k.Focus, k.Help, k.Quit},
		}
	}

	return append(k.Notebook.FullHelp(), []key.Binding{k.NextPage, k.PrevPage, k.Focus, k.Help, k.Quit})
}
