package canvas_test

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"gioui.org/f32"
	"github.com/alkime/scope/internal/tui/canvas"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func fill(c color.Color) func(canvas.Context) {
	return func(ctx canvas.Context) {
		w, h := ctx.Size()
		ctx.SetColor(c)
		ctx.Rectangle(0, 0, float64(w), float64(h))
		ctx.Fill()
	}
}

func TestSurface_DegenerateSkipsPaint(t *testing.T) {
	t.Parallel()

	for _, size := range [][2]int{{0, 0}, {0, 10}, {10, 0}} {
		s := canvas.NewSurface()
		s.Allocate(size[0], size[1])

		called := false
		err := s.Paint(func(canvas.Context) { called = true })

		require.ErrorIs(t, err, canvas.ErrDegenerateSurface)
		assert.False(t, called, "paint callback must not run for %v", size)
		assert.Nil(t, s.Image())
		assert.Zero(t, s.Frames())
	}
}

func TestSurface_SizeIsTwoPixelsPerRow(t *testing.T) {
	t.Parallel()

	s := canvas.NewSurface()
	s.Allocate(40, 12)

	w, h := s.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 24, h)

	s.Allocate(-3, 5)
	w, h = s.Size()
	assert.Equal(t, 0, w)
	assert.Equal(t, 10, h)
}

func TestSurface_FillCoversFrame(t *testing.T) {
	t.Parallel()

	s := canvas.NewSurface()
	s.Allocate(8, 4)
	require.NoError(t, s.Paint(fill(red)))

	img := s.Image()
	require.NotNil(t, img)

	for y := range 8 {
		for x := range 8 {
			require.Equal(t, red, img.RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}

	assert.Equal(t, 1, s.Frames())
}

func TestSurface_PanicKeepsPreviousFrame(t *testing.T) {
	t.Parallel()

	s := canvas.NewSurface()
	s.Allocate(4, 2)
	require.NoError(t, s.Paint(fill(red)))

	var leaked canvas.Context

	assert.Panics(t, func() {
		_ = s.Paint(func(ctx canvas.Context) {
			leaked = ctx
			fill(blue)(ctx)
			panic("boom")
		})
	})

	assert.Equal(t, red, s.Image().RGBAAt(1, 1), "partial frame must not become visible")
	assert.Equal(t, 1, s.Frames())

	// The leaked context was released; using it is a no-op.
	assert.NotPanics(t, func() {
		leaked.Rectangle(0, 0, 1, 1)
		leaked.Fill()
		leaked.Stroke()
		leaked.PaintImage(image.NewRGBA(image.Rect(0, 0, 1, 1)), 0, 0)
	})

	w, h := leaked.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestSurface_RepaintIsPixelIdentical(t *testing.T) {
	t.Parallel()

	scene := func(ctx canvas.Context) {
		fill(color.Black)(ctx)
		ctx.SetMatrix(f32.NewAffine2D(2, 0, 1, 0, -3, 20))
		ctx.SetColor(red)
		ctx.SetLineWidth(0.3)
		ctx.MoveTo(0, 0)
		ctx.LineTo(5, 4)
		ctx.LineTo(9, 1)
		ctx.Stroke()
	}

	s := canvas.NewSurface()
	s.Allocate(20, 12)

	require.NoError(t, s.Paint(scene))
	first := append([]uint8(nil), s.Image().Pix...)
	firstView := s.View()

	require.NoError(t, s.Paint(scene))
	assert.Equal(t, first, s.Image().Pix)
	assert.Equal(t, firstView, s.View())
}

func TestStroke_HairlineStaysVisible(t *testing.T) {
	t.Parallel()

	s := canvas.NewSurface()
	s.Allocate(20, 10)

	require.NoError(t, s.Paint(func(ctx canvas.Context) {
		fill(color.Black)(ctx)
		ctx.SetColor(red)
		ctx.SetLineWidth(0.001)
		ctx.MoveTo(10, 0)
		ctx.LineTo(10, 20)
		ctx.Stroke()
	}))

	px := s.Image().RGBAAt(10, 10)
	assert.Positive(t, px.R, "hairline should leave coverage on its column")
	assert.Equal(t, color.RGBA{A: 255}, s.Image().RGBAAt(2, 10), "far pixels stay background")
}

func TestStroke_ClosedRectangleOutline(t *testing.T) {
	t.Parallel()

	s := canvas.NewSurface()
	s.Allocate(20, 10)

	require.NoError(t, s.Paint(func(ctx canvas.Context) {
		fill(color.Black)(ctx)
		ctx.SetColor(red)
		ctx.SetLineWidth(2)
		ctx.Rectangle(2, 2, 16, 16)
		ctx.Stroke()
	}))

	img := s.Image()
	assert.Equal(t, uint8(255), img.RGBAAt(10, 2).R, "top edge")
	assert.Equal(t, uint8(255), img.RGBAAt(2, 10).R, "left edge")
	assert.Equal(t, uint8(255), img.RGBAAt(17, 10).R, "right edge")
	assert.Zero(t, img.RGBAAt(10, 10).R, "interior untouched")
}

func TestPaintImage(t *testing.T) {
	t.Parallel()

	stamp := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := range 2 {
		for x := range 2 {
			stamp.SetRGBA(x, y, blue)
		}
	}

	s := canvas.NewSurface()
	s.Allocate(6, 3)
	require.NoError(t, s.Paint(func(ctx canvas.Context) {
		fill(red)(ctx)
		ctx.PaintImage(stamp, 3, 1)
	}))

	assert.Equal(t, blue, s.Image().RGBAAt(3, 1))
	assert.Equal(t, blue, s.Image().RGBAAt(4, 2))
	assert.Equal(t, red, s.Image().RGBAAt(2, 1))
}

func TestSurface_View(t *testing.T) {
	t.Parallel()

	s := canvas.NewSurface()
	assert.Empty(t, s.View())

	s.Allocate(5, 3)
	blank := strings.Split(s.View(), "\n")
	assert.Len(t, blank, 3)
	assert.Equal(t, "     ", blank[0])

	require.NoError(t, s.Paint(fill(red)))

	lines := strings.Split(s.View(), "\n")
	require.Len(t, lines, 3)

	for _, line := range lines {
		assert.Equal(t, strings.Repeat("▀", 5), line)
	}
}

func TestSurface_Invalidate(t *testing.T) {
	t.Parallel()

	cmd := canvas.NewSurface().Invalidate()
	require.NotNil(t, cmd)
	assert.IsType(t, canvas.ExposeMsg{}, cmd())
}
