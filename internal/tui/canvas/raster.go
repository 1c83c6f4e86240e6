package canvas

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// minStrokePx is the narrowest stroke, in device pixels, that a raster
// context will paint. Terminal pixels are coarse; anything thinner vanishes.
const minStrokePx = 1.0

type point struct {
	x, y float64
}

type subpath struct {
	pts    []point
	closed bool
}

// raster is the Context implementation backing a Surface frame.
type raster struct {
	dst       *image.RGBA
	rz        *vector.Rasterizer
	matrix    f32.Affine2D
	src       *image.Uniform
	lineWidth float64
	path      []subpath
	released  bool
}

func newRaster(dst *image.RGBA) *raster {
	return &raster{
		dst:       dst,
		rz:        &vector.Rasterizer{},
		src:       image.NewUniform(color.Black),
		lineWidth: 1,
	}
}

// release detaches the context from its buffer. Later calls are no-ops.
func (r *raster) release() {
	r.released = true
	r.dst = nil
	r.path = nil
}

func (r *raster) Size() (int, int) {
	if r.released {
		return 0, 0
	}

	b := r.dst.Bounds()

	return b.Dx(), b.Dy()
}

func (r *raster) SetColor(c color.Color) {
	r.src = image.NewUniform(c)
}

func (r *raster) SetLineWidth(w float64) {
	r.lineWidth = w
}

func (r *raster) SetMatrix(m f32.Affine2D) {
	r.matrix = m
}

func (r *raster) Matrix() f32.Affine2D {
	return r.matrix
}

func (r *raster) Rectangle(x, y, w, h float64) {
	r.path = append(r.path, subpath{
		pts:    []point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}},
		closed: true,
	})
}

func (r *raster) MoveTo(x, y float64) {
	r.path = append(r.path, subpath{pts: []point{{x, y}}})
}

func (r *raster) LineTo(x, y float64) {
	if len(r.path) == 0 {
		r.MoveTo(x, y)

		return
	}

	last := &r.path[len(r.path)-1]
	last.pts = append(last.pts, point{x, y})
}

func (r *raster) Fill() {
	defer r.clearPath()

	if r.released || len(r.path) == 0 {
		return
	}

	r.begin()

	for _, sp := range r.path {
		if len(sp.pts) < 3 {
			continue
		}

		r.rz.MoveTo(r.device(sp.pts[0]))
		for _, p := range sp.pts[1:] {
			r.rz.LineTo(r.device(p))
		}
		r.rz.ClosePath()
	}

	r.finish()
}

func (r *raster) Stroke() {
	defer r.clearPath()

	if r.released || len(r.path) == 0 {
		return
	}

	r.begin()

	for _, sp := range r.path {
		for i := 1; i < len(sp.pts); i++ {
			r.segment(sp.pts[i-1], sp.pts[i])
		}

		if sp.closed && len(sp.pts) > 2 {
			r.segment(sp.pts[len(sp.pts)-1], sp.pts[0])
		}
	}

	r.finish()
}

func (r *raster) PaintImage(img image.Image, x, y int) {
	if r.released {
		return
	}

	draw.Copy(r.dst, image.Pt(x, y), img, img.Bounds(), draw.Over, nil)
}

func (r *raster) begin() {
	b := r.dst.Bounds()
	r.rz.Reset(b.Dx(), b.Dy())
}

func (r *raster) finish() {
	r.rz.Draw(r.dst, r.dst.Bounds(), r.src, image.Point{})
}

func (r *raster) clearPath() {
	r.path = r.path[:0]
}

func (r *raster) device(p point) (float32, float32) {
	q := r.matrix.Transform(f32.Pt(float32(p.x), float32(p.y)))

	return q.X, q.Y
}

// segment adds the quad covering the stroke of a->b. The pen is expressed in
// user space and mapped through the matrix, so an anisotropic matrix gives
// vertical and horizontal lines different device widths.
func (r *raster) segment(a, b point) {
	dx, dy := b.x-a.x, b.y-a.y

	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}

	half := r.lineWidth / 2
	nx, ny := -dy/length*half, dx/length*half

	// Map the normal through the linear part of the matrix only.
	origin := r.matrix.Transform(f32.Pt(0, 0))
	tip := r.matrix.Transform(f32.Pt(float32(nx), float32(ny)))
	ox, oy := float64(tip.X-origin.X), float64(tip.Y-origin.Y)

	ax, ay := r.device(a)
	bx, by := r.device(b)

	if math.Hypot(ox, oy) < minStrokePx/2 {
		ddx, ddy := float64(bx-ax), float64(by-ay)

		dl := math.Hypot(ddx, ddy)
		if dl == 0 {
			return
		}

		ox, oy = -ddy/dl*minStrokePx/2, ddx/dl*minStrokePx/2
	}

	quad := [4][2]float32{
		{ax + float32(ox), ay + float32(oy)},
		{bx + float32(ox), by + float32(oy)},
		{bx - float32(ox), by - float32(oy)},
		{ax - float32(ox), ay - float32(oy)},
	}

	// Keep every quad in the same winding so overlapping segments add up
	// instead of cancelling out.
	if signedArea(quad) < 0 {
		quad[1], quad[3] = quad[3], quad[1]
	}

	r.rz.MoveTo(quad[0][0], quad[0][1])
	r.rz.LineTo(quad[1][0], quad[1][1])
	r.rz.LineTo(quad[2][0], quad[2][1])
	r.rz.LineTo(quad[3][0], quad[3][1])
	r.rz.ClosePath()
}

func signedArea(q [4][2]float32) float32 {
	var a float32

	for i := range q {
		j := (i + 1) % len(q)
		a += q[i][0]*q[j][1] - q[j][0]*q[i][1]
	}

	return a
}
