// Package render paints one complete frame of the graph in a fixed order.
package render

import (
	"errors"

	"github.com/alkime/scope/internal/scales"
	"github.com/alkime/scope/internal/tui/canvas"
	"github.com/alkime/scope/internal/tui/style"
)

// Panel is anything that can paint itself given a context and the current
// scales. Draw must not change shared state.
type Panel interface {
	Draw(ctx canvas.Context, s scales.Scales)
}

// PanelFunc adapts a function to Panel.
type PanelFunc func(ctx canvas.Context, s scales.Scales)

func (f PanelFunc) Draw(ctx canvas.Context, s scales.Scales) {
	f(ctx, s)
}

// Target is a drawable region.
type Target interface {
	Size() (width, height int)
	Paint(fn func(canvas.Context)) error
}

// Pipeline paints the background, the fixed layers in declaration order and
// finally the trace, which is only drawn while active reports true.
type Pipeline struct {
	layers []Panel
	trace  Panel
	active func() bool
}

// New declares the paint order once.
func New(trace Panel, active func() bool, layers ...Panel) *Pipeline {
	return &Pipeline{layers: layers, trace: trace, active: active}
}

// Frame paints one frame onto t. The surface size is queried on every call.
// It reports false, without painting anything, for a degenerate surface.
func (p *Pipeline) Frame(t Target, s scales.Scales) (bool, error) {
	w, h := t.Size()

	m, ok := s.Transform(w, h)
	if !ok {
		return false, nil
	}

	err := t.Paint(func(ctx canvas.Context) {
		ctx.SetMatrix(m)

		ctx.SetColor(style.Background)
		ctx.Rectangle(s.H.Min, s.V.Min, s.Width(), s.Height())
		ctx.Fill()

		for _, l := range p.layers {
			l.Draw(ctx, s)
		}

		if p.trace != nil && p.active != nil && p.active() {
			p.trace.Draw(ctx, s)
		}
	})
	if errors.Is(err, canvas.ErrDegenerateSurface) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}
