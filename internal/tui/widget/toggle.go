package widget

import (
	"github.com/alkime/scope/internal/tui/style"
	"github.com/alkime/scope/pkg/uictl"
	"github.com/charmbracelet/lipgloss"
)

var _ uictl.Knob = (*Toggle)(nil)

// Toggle is an on/off control.
type Toggle struct {
	label    string
	on       bool
	onLabel  string
	offLabel string
}

// NewToggle returns a toggle in the off position.
func NewToggle(label, onLabel, offLabel string) *Toggle {
	return &Toggle{label: label, onLabel: onLabel, offLabel: offLabel}
}

func (t *Toggle) Read() bool {
	return t.on
}

// Set stores the confirmed state.
func (t *Toggle) Set(on bool) {
	t.on = on
}

// Request returns the state activation asks for.
func (t *Toggle) Request() bool {
	return !t.on
}

func (t *Toggle) View(focused bool, _ int) string {
	label := style.Label
	if focused {
		label = style.Focused
	}

	state := style.Muted.Render("○ " + t.offLabel)
	if t.on {
		state = style.Success.Render("● " + t.onLabel)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		label.Width(labelWidth).Render(t.label),
		" ",
		state,
	)
}
