package widget

import (
	"github.com/alkime/scope/internal/tui/style"
	"github.com/alkime/scope/pkg/collections"
	"github.com/charmbracelet/lipgloss"
)

// Choice selects one of a fixed list of options.
type Choice[T comparable] struct {
	label   string
	options []T
	name    func(T) string
	curr    int
}

// NewChoice returns a choice on its first option.
func NewChoice[T comparable](label string, options []T, name func(T) string) *Choice[T] {
	return &Choice[T]{label: label, options: options, name: name}
}

func (c *Choice[T]) Value() T {
	return c.options[c.curr]
}

// SetValue selects v. Unknown values are ignored.
func (c *Choice[T]) SetValue(v T) {
	if i := collections.Index(c.options, v); i >= 0 {
		c.curr = i
	}
}

// Request returns the option n places away, wrapping around.
func (c *Choice[T]) Request(n int) T {
	return c.options[collections.Wrap(c.curr+n, len(c.options))]
}

func (c *Choice[T]) View(focused bool, _ int) string {
	label := style.Label
	if focused {
		label = style.Focused
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		label.Width(labelWidth).Render(c.label),
		" ",
		style.Muted.Render("‹ "),
		style.Title.Render(c.name(c.Value())),
		style.Muted.Render(" ›"),
	)
}
