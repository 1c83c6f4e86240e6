// Package trigger is the trigger page. It also paints the trigger marker on
// the graph.
package trigger

import (
	"fmt"

	"github.com/alkime/scope/internal/instrument"
	"github.com/alkime/scope/internal/scales"
	"github.com/alkime/scope/internal/tui/canvas"
	"github.com/alkime/scope/internal/tui/style"
	"github.com/alkime/scope/internal/tui/widget"
	"github.com/alkime/scope/pkg/uictl"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Signal is emitted when the operator asks for a new trigger setting.
type Signal interface{ isTriggerSignal() }

type (
	Delay struct{ Value uint16 }
	Level struct{ Value float32 }
)

func (Delay) isTriggerSignal() {}
func (Level) isTriggerSignal() {}

// Ranges of the trigger controls.
var (
	DelayRange = uictl.Range[uint16]{Min: 0, Max: instrument.SampleCount, Step: 64, Coarse: 16}
	LevelRange = uictl.Range[float32]{Min: instrument.MinVoltage, Max: instrument.MaxVoltage, Step: 0.05}
)

const (
	rowDelay = iota
	rowLevel
	rowCount
)

type Model struct {
	delay *widget.Slider[uint16]
	level *widget.Slider[float32]
	focus widget.Focus
	keys  widget.KeyMap
}

func New() *Model {
	return &Model{
		delay: widget.NewSlider("Delay", DelayRange,
			widget.WithFormat(func(v uint16) string { return fmt.Sprintf("%d smp", v) })),
		level: widget.NewSlider("Level", LevelRange,
			widget.WithFormat(func(v float32) string { return fmt.Sprintf("%+.2f V", v) })),
		keys: widget.DefaultKeyMap(),
	}
}

func (m *Model) Delay() uint16 {
	return m.delay.Value()
}

func (m *Model) SetDelay(v uint16) {
	m.delay.SetValue(v)
}

func (m *Model) Level() float32 {
	return m.level.Value()
}

func (m *Model) SetLevel(v float32) {
	m.level.SetValue(v)
}

func (m *Model) Update(msg tea.Msg, emit func(Signal)) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(k, m.keys.Up):
		m.focus.Move(-1, rowCount)
		return nil
	case key.Matches(k, m.keys.Down):
		m.focus.Move(1, rowCount)
		return nil
	}

	switch m.focus.Index(rowCount) {
	case rowDelay:
		if n, ok := m.keys.Steps(k, m.delay.CoarseSteps()); ok {
			if v, changed := m.delay.Request(n); changed {
				emit(Delay{Value: v})
			}
		}
	case rowLevel:
		if n, ok := m.keys.Steps(k, m.level.CoarseSteps()); ok {
			if v, changed := m.level.Request(n); changed {
				emit(Level{Value: v})
			}
		}
	}

	return nil
}

func (m *Model) View(focused bool, width int) string {
	row := m.focus.Index(rowCount)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.delay.View(focused && row == rowDelay, width),
		m.level.View(focused && row == rowLevel, width),
	)
}

// Draw paints the trigger marker: a vertical line at the delay and a
// horizontal one at the level.
func (m *Model) Draw(ctx canvas.Context, s scales.Scales) {
	x, y := s.Clamp(float64(m.delay.Value()), float64(m.level.Value()))

	ctx.SetColor(style.TriggerMarker)

	ctx.SetLineWidth(s.Width() / 1000)
	ctx.MoveTo(x, s.V.Min)
	ctx.LineTo(x, s.V.Max)
	ctx.Stroke()

	ctx.SetLineWidth(s.Height() / 1000)
	ctx.MoveTo(s.H.Min, y)
	ctx.LineTo(s.H.Max, y)
	ctx.Stroke()
}
