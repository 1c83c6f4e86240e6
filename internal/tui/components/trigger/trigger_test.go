package trigger_test

import (
	"testing"

	"github.com/alkime/scope/internal/tui/canvas"
	"github.com/alkime/scope/internal/tui/components/graph"
	"github.com/alkime/scope/internal/tui/components/trigger"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestTrigger_Requests(t *testing.T) {
	t.Parallel()

	m := trigger.New()
	m.SetDelay(8192)

	var got []trigger.Signal
	emit := func(s trigger.Signal) { got = append(got, s) }

	m.Update(tea.KeyMsg{Type: tea.KeyRight}, emit)
	m.Update(tea.KeyMsg{Type: tea.KeyShiftLeft}, emit)
	m.Update(tea.KeyMsg{Type: tea.KeyDown}, emit)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft}, emit)

	require.Len(t, got, 3)
	assert.Equal(t, trigger.Delay{Value: 8192 + 64}, got[0])
	assert.Equal(t, trigger.Delay{Value: 8192 - 16*64}, got[1])

	lvl, ok := got[2].(trigger.Level)
	require.True(t, ok)
	assert.InDelta(t, -0.05, lvl.Value, 1e-6)

	assert.Equal(t, uint16(8192), m.Delay(), "requests are not applied")
	assert.Zero(t, m.Level())
}

func TestTrigger_SettersClamp(t *testing.T) {
	t.Parallel()

	m := trigger.New()
	m.SetDelay(60000)
	m.SetLevel(-9)

	assert.Equal(t, trigger.DelayRange.Max, m.Delay())
	assert.InDelta(t, -5, m.Level(), 1e-6)

	view := m.View(true, 40)
	assert.Contains(t, view, "16384 smp")
	assert.Contains(t, view, "-5.00 V")
}

func TestTrigger_DrawCrosshair(t *testing.T) {
	t.Parallel()

	s, err := graph.Scales()
	require.NoError(t, err)

	m := trigger.New()
	m.SetDelay(4096)
	m.SetLevel(2.5)

	surface := canvas.NewSurface()
	surface.Allocate(80, 20)

	w, h := surface.Size()
	mat, ok := s.Transform(w, h)
	require.True(t, ok)

	require.NoError(t, surface.Paint(func(ctx canvas.Context) {
		ctx.SetMatrix(mat)
		m.Draw(ctx, s)
	}))

	img := surface.Image()

	// Delay 4096 of 16384 is a quarter across; level 2.5 V a quarter down.
	_, _, _, a := img.At(w/4, h-2).RGBA()
	assert.NotZero(t, a, "vertical line")

	_, _, _, a = img.At(w-2, h/4).RGBA()
	assert.NotZero(t, a, "horizontal line")

	_, _, _, a = img.At(w/2, h-2).RGBA()
	assert.Zero(t, a)
}
