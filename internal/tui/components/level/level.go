// Package level draws the edge meters around the graph. Each meter shows an
// eased reading as a bar and an editable value as a marker.
package level

import (
	"time"

	"github.com/alkime/scope/internal/scales"
	"github.com/alkime/scope/internal/tui/canvas"
	"github.com/alkime/scope/internal/tui/style"
	"github.com/alkime/scope/internal/tui/widget"
	"github.com/alkime/scope/pkg/uictl"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
)

// Orientation is the graph edge a meter sits on.
type Orientation int

const (
	Left Orientation = iota
	Right
	Top
)

func (o Orientation) String() string {
	switch o {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	default:
		return "unknown"
	}
}

// Strip thickness as a share of the graph extent.
const (
	sideShare = 0.02
	topShare  = 0.04
)

// Signal is emitted when the operator asks for a new meter value.
type Signal interface{ isLevelSignal() }

// Level carries the meter name and the requested value.
type Level struct {
	Name  string
	Value float64
}

func (Level) isLevelSignal() {}

var _ uictl.Valuer[float64] = (*Model)(nil)

// Model is one edge meter.
type Model struct {
	name   string
	orient Orientation
	rng    uictl.Range[float64]
	value  float64

	hasReading bool
	reading    float64
	velocity   float64
	target     float64
	spring     harmonica.Spring

	keys widget.KeyMap
}

// New returns a meter. frame is the interval between Step calls.
func New(name string, orient Orientation, rng uictl.Range[float64], frame time.Duration) *Model {
	return &Model{
		name:   name,
		orient: orient,
		rng:    rng,
		value:  rng.Clamp(0),
		spring: harmonica.NewSpring(frame.Seconds(), 8.0, 0.9),
		keys:   widget.DefaultKeyMap(),
	}
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Orientation() Orientation {
	return m.orient
}

func (m *Model) Value() float64 {
	return m.value
}

// SetValue stores a confirmed value.
func (m *Model) SetValue(v float64) {
	m.value = m.rng.Clamp(v)
}

// SetReading sets where the bar eases toward. The first reading is shown
// immediately.
func (m *Model) SetReading(v float64) {
	m.target = v
	if !m.hasReading {
		m.hasReading = true
		m.reading = v
		m.velocity = 0
	}
}

// Reading returns the eased reading.
func (m *Model) Reading() (float64, bool) {
	return m.reading, m.hasReading
}

// Step advances the easing by one frame.
func (m *Model) Step() {
	if !m.hasReading {
		return
	}

	m.reading, m.velocity = m.spring.Update(m.reading, m.velocity, m.target)
}

// Update turns arrow keys into value requests. The graph only forwards keys
// to the selected meter.
func (m *Model) Update(msg tea.Msg, emit func(Signal)) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	steps, ok := m.keys.Steps(k, m.rng.CoarseSteps())
	if !ok {
		switch {
		case key.Matches(k, m.keys.Up):
			steps = 1
		case key.Matches(k, m.keys.Down):
			steps = -1
		default:
			return nil
		}
	}

	if v := m.rng.Nudge(m.value, steps); v != m.value {
		emit(Level{Name: m.name, Value: v})
	}

	return nil
}

// Rect returns the strip the meter draws in, in sample space.
func (m *Model) Rect(s scales.Scales) (x0, y0, x1, y1 float64) {
	switch m.orient {
	case Right:
		return s.H.Max - sideShare*s.Width(), s.V.Min, s.H.Max, s.V.Max
	case Top:
		return s.H.Min, s.V.Max - topShare*s.Height(), s.H.Max, s.V.Max
	default:
		return s.H.Min, s.V.Min, s.H.Min + sideShare*s.Width(), s.V.Max
	}
}

// Draw paints the bar and the marker clipped to the strip.
func (m *Model) Draw(ctx canvas.Context, s scales.Scales) {
	x0, y0, x1, y1 := m.Rect(s)

	extent := m.value
	if m.hasReading {
		extent = m.reading
	}

	ctx.SetColor(style.LevelBar)

	if m.orient == Top {
		end := clamp(extent, x0, x1)
		ctx.Rectangle(x0, y0, end-x0, y1-y0)
		ctx.Fill()

		mx := clamp(m.value, x0, x1)
		ctx.SetColor(style.LevelMarker)
		ctx.SetLineWidth(s.Width() / 500)
		ctx.MoveTo(mx, y0)
		ctx.LineTo(mx, y1)
		ctx.Stroke()

		return
	}

	base := clamp(0, y0, y1)
	end := clamp(extent, y0, y1)
	ctx.Rectangle(x0, min(base, end), x1-x0, max(base, end)-min(base, end))
	ctx.Fill()

	my := clamp(m.value, y0, y1)
	ctx.SetColor(style.LevelMarker)
	ctx.SetLineWidth(s.Height() / 500)
	ctx.MoveTo(x0, my)
	ctx.LineTo(x1, my)
	ctx.Stroke()
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
