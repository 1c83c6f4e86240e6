// Package scales maps instrument sample space onto drawing surfaces.
package scales

import (
	"errors"
	"fmt"

	"gioui.org/f32"
)

// ErrInvalidScale is returned when a range is empty or inverted.
var ErrInvalidScale = errors.New("invalid scale")

// Range is a closed interval on one axis.
type Range struct {
	Min float64
	Max float64
}

// Span returns Max-Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Scales pairs the sample-index range (H) with the value range (V).
// Values are fixed at construction and never change.
type Scales struct {
	H Range
	V Range
}

// New validates both ranges and returns the Scales.
func New(h, v Range) (Scales, error) {
	if !(h.Min < h.Max) {
		return Scales{}, fmt.Errorf("%w: horizontal range [%g, %g]", ErrInvalidScale, h.Min, h.Max)
	}

	if !(v.Min < v.Max) {
		return Scales{}, fmt.Errorf("%w: vertical range [%g, %g]", ErrInvalidScale, v.Min, v.Max)
	}

	return Scales{H: h, V: v}, nil
}

// Width returns the horizontal span in sample units.
func (s Scales) Width() float64 {
	return s.H.Span()
}

// Height returns the vertical span in value units.
func (s Scales) Height() float64 {
	return s.V.Span()
}

// Transform returns the affine map from sample space onto a surface of
// widthPx by heightPx pixels. H.Min lands on x=0, V.Max on y=0 (the
// vertical axis is flipped). It reports false for a degenerate surface or
// an unvalidated zero value Scales.
func (s Scales) Transform(widthPx, heightPx int) (f32.Affine2D, bool) {
	if widthPx <= 0 || heightPx <= 0 || s.Width() <= 0 || s.Height() <= 0 {
		return f32.Affine2D{}, false
	}

	sx := float64(widthPx) / s.Width()
	sy := float64(heightPx) / s.Height()

	return f32.NewAffine2D(
		float32(sx), 0, float32(-s.H.Min*sx),
		0, float32(-sy), float32(s.V.Max*sy),
	), true
}

// Clamp limits (x, y) to the scales rectangle.
func (s Scales) Clamp(x, y float64) (float64, float64) {
	return clamp(x, s.H), clamp(y, s.V)
}

func clamp(v float64, r Range) float64 {
	if v < r.Min {
		return r.Min
	}

	if v > r.Max {
		return r.Max
	}

	return v
}
