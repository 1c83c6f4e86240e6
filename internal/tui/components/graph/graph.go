// Package graph is the drawing area: a raster surface with the grid and the
// three edge meters.
package graph

import (
	"time"

	"github.com/alkime/scope/internal/instrument"
	"github.com/alkime/scope/internal/scales"
	"github.com/alkime/scope/internal/tui/bus"
	"github.com/alkime/scope/internal/tui/canvas"
	"github.com/alkime/scope/internal/tui/components/generator"
	"github.com/alkime/scope/internal/tui/components/level"
	"github.com/alkime/scope/internal/tui/components/trigger"
	"github.com/alkime/scope/internal/tui/style"
	"github.com/alkime/scope/pkg/collections"
	"github.com/alkime/scope/pkg/uictl"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Meter names. They double as the identifiers the application maps meter
// requests by.
const (
	MeterTriggerLevel = "trigger-level"
	MeterOffset       = "offset"
	MeterTriggerDelay = "trigger-delay"
)

// GridBands is the number of bands each axis is split into.
const GridBands = 10

// Signal is emitted by the graph.
type Signal interface{ isGraphSignal() }

// Draw asks for a repaint.
type Draw struct{}

// Level is a meter value request.
type Level struct {
	Name  string
	Value float64
}

func (Draw) isGraphSignal()  {}
func (Level) isGraphSignal() {}

func mapMeter(s level.Signal) (Signal, bool) {
	if l, ok := s.(level.Level); ok {
		return Level(l), true
	}

	return nil, false
}

// Model owns the surface and the meters.
type Model struct {
	surface  *canvas.Surface
	meters   []*level.Model
	children []*bus.Child[level.Signal, Signal]
	selected int
	next     key.Binding
}

// New builds the graph. frame is the interval between meter easing steps.
func New(frame time.Duration) *Model {
	m := &Model{
		surface: canvas.NewSurface(),
		meters: []*level.Model{
			level.New(MeterTriggerLevel, level.Left, toFloat64(trigger.LevelRange), frame),
			level.New(MeterOffset, level.Right, toFloat64(generator.OffsetRange), frame),
			level.New(MeterTriggerDelay, level.Top, toFloat64(trigger.DelayRange), frame),
		},
		next: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "next meter"),
		),
	}

	for _, meter := range m.meters {
		m.children = append(m.children, bus.Attach[level.Signal, Signal](meter, mapMeter))
	}

	return m
}

func toFloat64[N uictl.Number](r uictl.Range[N]) uictl.Range[float64] {
	return uictl.Range[float64]{
		Min:    float64(r.Min),
		Max:    float64(r.Max),
		Step:   float64(r.Step),
		Coarse: r.Coarse,
	}
}

func (m *Model) Surface() *canvas.Surface {
	return m.surface
}

// Meters returns the meters in paint order: left, right, top.
func (m *Model) Meters() []*level.Model {
	return m.meters
}

// Meter returns the meter called name, or nil.
func (m *Model) Meter(name string) *level.Model {
	names := collections.Apply(m.meters, (*level.Model).Name)
	if i := collections.Index(names, name); i >= 0 {
		return m.meters[i]
	}

	return nil
}

// Selected returns the meter that receives adjustments.
func (m *Model) Selected() *level.Model {
	return m.meters[m.selected]
}

// NextMeterKey is the binding that cycles the selected meter.
func (m *Model) NextMeterKey() key.Binding {
	return m.next
}

// Update turns expose notifications into Draw and routes keys to the
// selected meter. The caller only forwards keys while the graph has focus.
func (m *Model) Update(msg tea.Msg, emit func(Signal)) tea.Cmd {
	switch msg := msg.(type) {
	case canvas.ExposeMsg:
		emit(Draw{})
		return nil

	case tea.KeyMsg:
		if key.Matches(msg, m.next) {
			m.selected = collections.Wrap(m.selected+1, len(m.meters))
			return nil
		}

		return m.children[m.selected].Update(msg, emit)
	}

	return nil
}

// Draw paints the grid.
func (m *Model) Draw(ctx canvas.Context, s scales.Scales) {
	lines := GridLines(GridBands)

	// Secondary lines first so the main ones stay on top.
	for _, main := range []bool{false, true} {
		if main {
			ctx.SetColor(style.MainScale)
		} else {
			ctx.SetColor(style.SecondaryScale)
		}

		ctx.SetLineWidth(s.Width() / 1000)
		for _, l := range lines {
			if l.Main != main {
				continue
			}

			x := s.H.Min + l.Frac*s.Width()
			ctx.MoveTo(x, s.V.Min)
			ctx.LineTo(x, s.V.Max)
		}
		ctx.Stroke()

		ctx.SetLineWidth(s.Height() / 1000)
		for _, l := range lines {
			if l.Main != main {
				continue
			}

			y := s.V.Min + l.Frac*s.Height()
			ctx.MoveTo(s.H.Min, y)
			ctx.LineTo(s.H.Max, y)
		}
		ctx.Stroke()
	}
}

// GridLine is one subdivision line on an axis.
type GridLine struct {
	Index int
	// Frac is the position along the axis, 0 at the minimum and 1 at the
	// maximum.
	Frac float64
	Main bool
}

// GridLines splits an axis into bands equal bands and returns the bands+1
// lines including the border. Lines on multiples of bands/2 (the border and
// the center, for an even count) are main lines.
func GridLines(bands int) []GridLine {
	if bands < 1 {
		return nil
	}

	half := max(1, bands/2)
	if bands%2 != 0 {
		half = bands
	}

	lines := make([]GridLine, bands+1)
	for i := range lines {
		lines[i] = GridLine{
			Index: i,
			Frac:  float64(i) / float64(bands),
			Main:  i%half == 0,
		}
	}

	return lines
}

// View renders the surface.
func (m *Model) View() string {
	return m.surface.View()
}

// Scales returns the fixed ranges of the instrument: the acquisition buffer
// horizontally and the input voltage range vertically.
func Scales() (scales.Scales, error) {
	return scales.New(
		scales.Range{Min: 0, Max: instrument.SampleCount},
		scales.Range{Min: instrument.MinVoltage, Max: instrument.MaxVoltage},
	)
}
