// Package canvas provides the drawable terminal surface and its 2D paint context.
package canvas

import (
	"image"
	"image/color"

	"gioui.org/f32"
)

// Context is a cairo-style paint context. Paths are built in user space and
// mapped through the current matrix when they are filled or stroked.
type Context interface {
	// Size returns the pixel size of the target.
	Size() (width, height int)

	SetColor(c color.Color)
	SetLineWidth(w float64)
	SetMatrix(m f32.Affine2D)
	Matrix() f32.Affine2D

	// Rectangle adds a closed rectangular subpath.
	Rectangle(x, y, w, h float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)

	// Fill paints the interior of the current path and clears it.
	Fill()
	// Stroke paints the outline of the current path and clears it.
	Stroke()

	// PaintImage composites img with its top-left corner at device pixel (x, y).
	PaintImage(img image.Image, x, y int)
}
