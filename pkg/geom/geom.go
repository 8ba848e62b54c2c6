// Package geom holds the pixel-space primitives shared by the batcher and its backends.
package geom

import (
	"image/color"

	"github.com/Faultbox/spritebatch/pkg/math"
)

// Rect is an integer pixel rectangle. It is used both for source regions in
// texture space and destination regions in target space.
type Rect struct {
	X, Y int32
	W, H uint32
}

// NewRect creates a rectangle.
func NewRect(x, y int32, w, h uint32) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.W == 0 || r.H == 0
}

// Center returns the geometric center of the rectangle.
func (r Rect) Center() Point {
	return Point{
		X: float32(r.X) + float32(r.W)/2,
		Y: float32(r.Y) + float32(r.H)/2,
	}
}

// Floats returns x, y, w, h as float32.
func (r Rect) Floats() [4]float32 {
	return [4]float32{float32(r.X), float32(r.Y), float32(r.W), float32(r.H)}
}

// Point is a position in destination space, used as rotation pivot.
type Point struct {
	X, Y float32
}

// Size is the pixel size of a surface or texture.
type Size struct {
	Width, Height uint32
}

// Rect returns the rectangle covering the whole surface.
func (s Size) Rect() Rect {
	return Rect{W: s.Width, H: s.Height}
}

// Empty reports whether either dimension is zero.
func (s Size) Empty() bool {
	return s.Width == 0 || s.Height == 0
}

// Color is an 8-bit straight-alpha RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGBA creates a color from 8-bit components.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Floats returns the color normalized to [0, 1].
func (c Color) Floats() [4]float32 {
	return [4]float32{
		float32(c.R) / 255.0,
		float32(c.G) / 255.0,
		float32(c.B) / 255.0,
		float32(c.A) / 255.0,
	}
}

// NRGBA converts to the image/color representation.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Normalize maps r into texture space fractions of width and height:
// [x/width, y/height, w/width, h/height]. Both dimensions must be non-zero.
func Normalize(r Rect, width, height uint32) [4]float32 {
	fw, fh := float32(width), float32(height)
	return [4]float32{
		float32(r.X) / fw,
		float32(r.Y) / fh,
		float32(r.W) / fw,
		float32(r.H) / fh,
	}
}

// Transform builds the matrix that maps the unit quad (0,0)-(1,1) onto dest,
// rotated by angle radians about pivot. pivot is in destination space.
//
//	T = Translate(dest.xy) * Translate(d) * RotateZ(angle) * Translate(-d) * Scale(dest.wh)
//
// where d is the pivot relative to dest's origin.
func Transform(dest Rect, pivot Point, angle float32) math.Mat4 {
	x, y := float32(dest.X), float32(dest.Y)
	m := math.Translate(x, y, 0)
	if angle != 0 {
		m = m.Mul(math.RotateAround(pivot.X-x, pivot.Y-y, angle))
	}
	return m.Mul(math.Scale(float32(dest.W), float32(dest.H), 1))
}

// Intersects reports whether a and b share at least one pixel. Rectangles
// are half-open, so rectangles that only touch along an edge do not
// intersect, and an empty rectangle intersects nothing.
func Intersects(a, b Rect) bool {
	if a.Empty() || b.Empty() {
		return false
	}
	ax0, ay0 := int64(a.X), int64(a.Y)
	ax1, ay1 := ax0+int64(a.W), ay0+int64(a.H)
	bx0, by0 := int64(b.X), int64(b.Y)
	bx1, by1 := bx0+int64(b.W), by0+int64(b.H)
	return ax0 < bx1 && bx0 < ax1 && ay0 < by1 && by0 < ay1
}

// Bounds returns the axis-aligned bounds of the unit quad transformed by m.
func Bounds(m math.Mat4) (lo, hi Point) {
	corners := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i, c := range corners {
		x, y := m.TransformXY(c[0], c[1])
		if i == 0 {
			lo, hi = Point{x, y}, Point{x, y}
			continue
		}
		lo.X, lo.Y = min(lo.X, x), min(lo.Y, y)
		hi.X, hi.Y = max(hi.X, x), max(hi.Y, y)
	}
	return lo, hi
}

// OverlapsBounds reports whether the box (lo, hi) shares area with r.
func OverlapsBounds(lo, hi Point, r Rect) bool {
	if r.Empty() || lo.X >= hi.X || lo.Y >= hi.Y {
		return false
	}
	rx0, ry0 := float32(r.X), float32(r.Y)
	rx1, ry1 := rx0+float32(r.W), ry0+float32(r.H)
	return lo.X < rx1 && rx0 < hi.X && lo.Y < ry1 && ry0 < hi.Y
}
