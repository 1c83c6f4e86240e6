package widget

import (
	"fmt"

	"github.com/alkime/scope/internal/tui/style"
	"github.com/alkime/scope/pkg/uictl"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

const (
	labelWidth = 11
	valueWidth = 10
)

var _ uictl.Valuer[float32] = (*Slider[float32])(nil)

// Slider is a bounded numeric control drawn as a progress track.
type Slider[N uictl.Number] struct {
	label  string
	format func(N) string
	rng    uictl.Range[N]
	value  N
	bar    progress.Model
}

// SliderOption configures a Slider.
type SliderOption[N uictl.Number] func(*Slider[N])

// WithFormat sets how the value is printed next to the track.
func WithFormat[N uictl.Number](format func(N) string) SliderOption[N] {
	return func(s *Slider[N]) {
		s.format = format
	}
}

// NewSlider returns a slider positioned at zero, clamped to rng.
func NewSlider[N uictl.Number](label string, rng uictl.Range[N], opts ...SliderOption[N]) *Slider[N] {
	s := &Slider[N]{
		label:  label,
		format: func(v N) string { return fmt.Sprintf("%v", v) },
		rng:    rng,
		value:  rng.Clamp(0),
		bar: progress.New(
			progress.WithSolidFill("63"),
			progress.WithoutPercentage(),
			progress.WithFillCharacters('━', '─'),
		),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Slider[N]) Label() string {
	return s.label
}

func (s *Slider[N]) Range() uictl.Range[N] {
	return s.rng
}

func (s *Slider[N]) Value() N {
	return s.value
}

// SetValue stores a confirmed value, clamped to the range.
func (s *Slider[N]) SetValue(v N) {
	s.value = s.rng.Clamp(v)
}

// Request returns the value n steps away from the current one. changed is
// false when the slider is already at the bound in that direction.
func (s *Slider[N]) Request(n int) (v N, changed bool) {
	v = s.rng.Nudge(s.value, n)

	return v, v != s.value
}

// CoarseSteps returns the step count of a coarse adjustment.
func (s *Slider[N]) CoarseSteps() int {
	return s.rng.CoarseSteps()
}

// View renders the slider on one line of the given width.
func (s *Slider[N]) View(focused bool, width int) string {
	s.bar.Width = max(4, width-labelWidth-valueWidth-2)

	label := style.Label
	if focused {
		label = style.Focused
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		label.Width(labelWidth).Render(s.label),
		" ",
		s.bar.ViewAs(s.rng.Fraction(s.value)),
		" ",
		style.Muted.Width(valueWidth).Align(lipgloss.Right).Render(s.format(s.value)),
	)
}
