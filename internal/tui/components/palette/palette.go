// Package palette is a collapsible notebook section.
package palette

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Signal is emitted when the section opens or closes.
type Signal interface{ isPaletteSignal() }

type (
	Expand struct{}
	Fold   struct{}
)

func (Expand) isPaletteSignal() {}
func (Fold) isPaletteSignal()   {}

// Model is a header that folds or unfolds its body.
type Model struct {
	title    string
	color    lipgloss.Color
	expanded bool
	activate key.Binding
}

func New(title string, color lipgloss.Color, expanded bool) *Model {
	return &Model{
		title:    title,
		color:    color,
		expanded: expanded,
		activate: key.NewBinding(key.WithKeys(" ", "enter")),
	}
}

func (m *Model) Expanded() bool {
	return m.expanded
}

// Update flips the section on activation. The fold state is purely local,
// so it is applied here and then announced.
func (m *Model) Update(msg tea.Msg, emit func(Signal)) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok || !key.Matches(k, m.activate) {
		return nil
	}

	m.expanded = !m.expanded
	if m.expanded {
		emit(Expand{})
	} else {
		emit(Fold{})
	}

	return nil
}

// View renders the header line. body is shown under it when expanded.
func (m *Model) View(focused bool, body string) string {
	arrow := "▸"
	if m.expanded {
		arrow = "▾"
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(m.color)
	if focused {
		header = header.Reverse(true)
	}

	head := header.Render(arrow + " " + m.title)
	if !m.expanded || body == "" {
		return head
	}

	return lipgloss.JoinVertical(lipgloss.Left, head, body)
}
