package canvas

import (
	"errors"
	"image"
	"image/color"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrDegenerateSurface is returned by Paint when the surface has no pixels.
var ErrDegenerateSurface = errors.New("degenerate surface")

// upperHalf is drawn with the top pixel as foreground and the bottom
// pixel as background, so each terminal cell carries two pixels.
const upperHalf = "▀"

// ExposeMsg asks the owner of a surface to repaint it.
type ExposeMsg struct{}

// Surface is a drawable terminal region. Frames are painted into a back
// buffer and only replace the visible frame once painting returns.
type Surface struct {
	cols   int
	rows   int
	front  *image.RGBA
	view   string
	frames int
}

// NewSurface returns an unallocated (zero sized) surface.
func NewSurface() *Surface {
	return &Surface{}
}

// Allocate sets the terminal cell size of the surface. The previous frame
// is discarded since it no longer matches the allocation.
func (s *Surface) Allocate(cols, rows int) {
	s.cols = max(0, cols)
	s.rows = max(0, rows)
	s.front = nil
	s.view = ""
}

// Cells returns the allocation in terminal cells.
func (s *Surface) Cells() (cols, rows int) {
	return s.cols, s.rows
}

// Size returns the current pixel size.
func (s *Surface) Size() (width, height int) {
	return s.cols, s.rows * 2
}

// Paint acquires a context over a fresh back buffer and hands it to fn.
// The context is released when fn returns, whatever the outcome; the back
// buffer becomes visible only if fn returned normally.
func (s *Surface) Paint(fn func(Context)) error {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return ErrDegenerateSurface
	}

	back := image.NewRGBA(image.Rect(0, 0, w, h))
	ctx := newRaster(back)

	func() {
		defer ctx.release()
		fn(ctx)
	}()

	s.front = back
	s.view = renderCells(back)
	s.frames++

	return nil
}

// Invalidate requests a repaint through the event loop.
func (s *Surface) Invalidate() tea.Cmd {
	return func() tea.Msg {
		return ExposeMsg{}
	}
}

// Image returns the visible frame, or nil before the first paint.
func (s *Surface) Image() *image.RGBA {
	return s.front
}

// Frames returns how many frames have been completed.
func (s *Surface) Frames() int {
	return s.frames
}

// View renders the visible frame as terminal cells.
func (s *Surface) View() string {
	if s.view != "" {
		return s.view
	}

	if s.cols == 0 || s.rows == 0 {
		return ""
	}

	line := strings.Repeat(" ", s.cols)
	lines := make([]string, s.rows)
	for i := range lines {
		lines[i] = line
	}

	return strings.Join(lines, "\n")
}

type cellColors struct {
	top, bottom color.RGBA
}

func renderCells(img *image.RGBA) string {
	b := img.Bounds()
	rows := b.Dy() / 2

	var sb strings.Builder

	for row := range rows {
		if row > 0 {
			sb.WriteString("\n")
		}

		var (
			cur cellColors
			run int
		)

		flush := func() {
			if run == 0 {
				return
			}

			sb.WriteString(lipgloss.NewStyle().
				Foreground(hexColor(cur.top)).
				Background(hexColor(cur.bottom)).
				Render(strings.Repeat(upperHalf, run)))
			run = 0
		}

		for col := range b.Dx() {
			cc := cellColors{
				top:    img.RGBAAt(col, row*2),
				bottom: img.RGBAAt(col, row*2+1),
			}

			if run > 0 && cc != cur {
				flush()
			}

			cur = cc
			run++
		}

		flush()
	}

	return sb.String()
}

func hexColor(c color.RGBA) lipgloss.Color {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return lipgloss.Color("#000000")
	}

	return lipgloss.Color(cc.Hex())
}
