// Package data holds the latest acquisition and draws it as the waveform
// trace.
package data

import (
	"math"
	"strings"

	"github.com/alkime/scope/internal/scales"
	"github.com/alkime/scope/internal/tui/canvas"
	"github.com/alkime/scope/internal/tui/style"
	"github.com/alkime/scope/pkg/collections"
)

// Block characters for the overview strip (8 levels, bottom to top).
// Index 0 = empty (space), 1-8 = increasing fill levels.
const blockChars = " ▁▂▃▄▅▆▇█"

// Buffer is the most recent sample sequence of the active channel. It is
// replaced wholesale on every acquisition and read-only to renderers.
type Buffer struct {
	samples []float64
}

// Replace swaps in a new acquisition. The buffer keeps its own copy.
func (b *Buffer) Replace(samples []float64) {
	b.samples = append(make([]float64, 0, len(samples)), samples...)
}

// Samples returns the current acquisition. Callers must not modify it.
func (b *Buffer) Samples() []float64 {
	return b.samples
}

func (b *Buffer) Len() int {
	return len(b.samples)
}

// Peaks returns the positive and negative extremes. ok is false while the
// buffer is empty.
func (b *Buffer) Peaks() (positive, negative float64, ok bool) {
	lo, hi, ok := collections.MinMax(b.samples)
	if !ok {
		return 0, 0, false
	}

	return hi, lo, true
}

// Draw paints the trace as one polyline, sample i at x = H.Min + i.
func (b *Buffer) Draw(ctx canvas.Context, s scales.Scales) {
	n := min(len(b.samples), int(s.Width())+1)
	if n < 2 {
		return
	}

	ctx.SetColor(style.Waveform)
	ctx.SetLineWidth(s.Height() / 400)

	for i := range n {
		x, y := s.Clamp(s.H.Min+float64(i), b.samples[i])
		if i == 0 {
			ctx.MoveTo(x, y)
			continue
		}

		ctx.LineTo(x, y)
	}

	ctx.Stroke()
}

// Overview renders the absolute amplitude as vertical bars across width
// columns and height rows (left=older, right=newer). full is the amplitude
// that fills a column.
func (b *Buffer) Overview(width, height int, full float64) string {
	height = max(1, height)
	width = max(0, width)

	if len(b.samples) == 0 || full <= 0 {
		return renderEmpty(width, height)
	}

	levels := calculateLevels(b.samples, width, height, full)
	runes := []rune(blockChars)

	var sb strings.Builder

	// Render row by row, from top to bottom
	for row := range height {
		if row > 0 {
			sb.WriteString("\n")
		}

		var rowSB strings.Builder
		for col := range width {
			rowSB.WriteRune(runes[blockIndexForRow(levels[col], row, height)])
		}

		sb.WriteString(style.Progress.Render(rowSB.String()))
	}

	return sb.String()
}

// calculateLevels computes a level from 0 to height*8 for each column.
func calculateLevels(samples []float64, width, height int, full float64) []int {
	levels := make([]int, width)
	if width == 0 {
		return levels
	}

	bucketSize := max(1, len(samples)/width)
	maxLevel := height * 8

	for col := range width {
		start := col * bucketSize
		if start >= len(samples) {
			continue
		}

		end := min(start+bucketSize, len(samples))

		var peak float64
		for _, v := range samples[start:end] {
			peak = max(peak, math.Abs(v))
		}

		levels[col] = min(int(peak/full*float64(maxLevel)), maxLevel)
	}

	return levels
}

// blockIndexForRow returns the block character index (0-8) for a column
// level at a row. Row 0 is the top.
func blockIndexForRow(level, row, height int) int {
	rowFromBottom := height - 1 - row
	fill := level - rowFromBottom*8

	return max(0, min(fill, 8))
}

func renderEmpty(width, height int) string {
	lines := make([]string, height)
	for row := range height {
		if row == height-1 {
			// Bottom row shows baseline
			lines[row] = strings.Repeat("▁", width)
			continue
		}

		lines[row] = strings.Repeat(" ", width)
	}

	return style.Muted.Render(strings.Join(lines, "\n"))
}
