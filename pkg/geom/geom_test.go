package geom

import (
	stdmath "math"
	"testing"
)

func TestNormalizeRoundTrip(t *testing.T) {
	const width, height = 256, 128

	rects := []Rect{
		NewRect(0, 0, width, height),
		NewRect(0, 0, 1, 1),
		NewRect(16, 32, 48, 64),
		NewRect(255, 127, 1, 1),
		NewRect(100, 0, 156, 128),
	}

	for _, r := range rects {
		uv := Normalize(r, width, height)
		got := [4]float32{uv[0] * width, uv[1] * height, uv[2] * width, uv[3] * height}
		want := r.Floats()
		for i := range got {
			if abs(got[i]-want[i]) > 1e-3 {
				t.Errorf("Normalize(%+v) round trip [%d]: got %f, want %f", r, i, got[i], want[i])
			}
		}
	}
}

func TestNormalizeFullTexture(t *testing.T) {
	uv := Normalize(NewRect(0, 0, 64, 32), 64, 32)
	if uv != [4]float32{0, 0, 1, 1} {
		t.Errorf("Normalize full texture: got %v, want [0 0 1 1]", uv)
	}
}

func TestCenter(t *testing.T) {
	tests := []struct {
		r    Rect
		want Point
	}{
		{NewRect(0, 0, 50, 50), Point{25, 25}},
		{NewRect(10, 20, 30, 40), Point{25, 40}},
		{NewRect(-10, -10, 5, 5), Point{-7.5, -7.5}},
	}
	for _, tt := range tests {
		if got := tt.r.Center(); got != tt.want {
			t.Errorf("Center(%+v): got %+v, want %+v", tt.r, got, tt.want)
		}
	}
}

func TestIntersects(t *testing.T) {
	viewport := Size{Width: 800, Height: 600}.Rect()

	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"inside", NewRect(10, 10, 50, 50), true},
		{"covers", NewRect(-10, -10, 1000, 1000), true},
		{"touching right edge", NewRect(800, 0, 10, 10), false},
		{"one pixel in from right", NewRect(799, 0, 10, 10), true},
		{"touching bottom edge", NewRect(0, 600, 10, 10), false},
		{"touching left edge", NewRect(-10, 0, 10, 10), false},
		{"one pixel over left edge", NewRect(-9, 0, 10, 10), true},
		{"touching top edge", NewRect(0, -10, 10, 10), false},
		{"far away", NewRect(5000, 5000, 10, 10), false},
		{"empty width", NewRect(10, 10, 0, 10), false},
		{"empty height", NewRect(10, 10, 10, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersects(tt.r, viewport); got != tt.want {
				t.Errorf("Intersects(%+v, viewport): got %v, want %v", tt.r, got, tt.want)
			}
			if got := Intersects(viewport, tt.r); got != tt.want {
				t.Errorf("Intersects is not symmetric for %+v", tt.r)
			}
		})
	}
}

func TestTransformNoRotation(t *testing.T) {
	dest := NewRect(10, 20, 30, 40)
	m := Transform(dest, dest.Center(), 0)

	tests := []struct {
		u, v float32
		x, y float32
	}{
		{0, 0, 10, 20},
		{1, 0, 40, 20},
		{1, 1, 40, 60},
		{0, 1, 10, 60},
	}
	for _, tt := range tests {
		x, y := m.TransformXY(tt.u, tt.v)
		if abs(x-tt.x) > 1e-4 || abs(y-tt.y) > 1e-4 {
			t.Errorf("corner (%v,%v): got (%f, %f), want (%f, %f)", tt.u, tt.v, x, y, tt.x, tt.y)
		}
	}
}

func TestTransformRotatesAboutPivot(t *testing.T) {
	dest := NewRect(10, 20, 30, 40)
	pivot := dest.Center() // (25, 40)
	m := Transform(dest, pivot, float32(stdmath.Pi/2))

	// (0,0) maps to (10,20) unrotated; relative to the pivot that is (-15,-20).
	// A quarter turn counter-clockwise gives (20,-15), i.e. (45,25).
	x, y := m.TransformXY(0, 0)
	if abs(x-45) > 1e-3 || abs(y-25) > 1e-3 {
		t.Errorf("rotated origin: got (%f, %f), want (45, 25)", x, y)
	}

	// The center of the quad stays on the pivot.
	x, y = m.TransformXY(0.5, 0.5)
	if abs(x-pivot.X) > 1e-3 || abs(y-pivot.Y) > 1e-3 {
		t.Errorf("rotated center: got (%f, %f), want (%f, %f)", x, y, pivot.X, pivot.Y)
	}
}

func TestTransformCustomPivot(t *testing.T) {
	dest := NewRect(100, 100, 10, 10)
	// Rotating half a turn about the top-left corner mirrors the quad through it.
	m := Transform(dest, Point{100, 100}, float32(stdmath.Pi))
	x, y := m.TransformXY(1, 1)
	if abs(x-90) > 1e-3 || abs(y-90) > 1e-3 {
		t.Errorf("half turn about corner: got (%f, %f), want (90, 90)", x, y)
	}
}

func TestBounds(t *testing.T) {
	dest := NewRect(0, 0, 10, 10)
	lo, hi := Bounds(Transform(dest, dest.Center(), float32(stdmath.Pi/4)))

	// A 10x10 square rotated 45 degrees spans 10*sqrt(2) around its center.
	half := float32(5 * stdmath.Sqrt2)
	if abs(lo.X-(5-half)) > 1e-3 || abs(hi.X-(5+half)) > 1e-3 {
		t.Errorf("Bounds X: got [%f, %f], want [%f, %f]", lo.X, hi.X, 5-half, 5+half)
	}
	if abs(lo.Y-(5-half)) > 1e-3 || abs(hi.Y-(5+half)) > 1e-3 {
		t.Errorf("Bounds Y: got [%f, %f], want [%f, %f]", lo.Y, hi.Y, 5-half, 5+half)
	}
}

func TestOverlapsBounds(t *testing.T) {
	r := NewRect(0, 0, 100, 100)

	// A long thin quad crossing the whole rectangle has no corner inside it
	// but still overlaps.
	if !OverlapsBounds(Point{-50, 40}, Point{150, 60}, r) {
		t.Error("expected crossing box to overlap")
	}
	if OverlapsBounds(Point{100, 0}, Point{110, 10}, r) {
		t.Error("box touching the right edge should not overlap")
	}
	if OverlapsBounds(Point{10, 10}, Point{10, 20}, r) {
		t.Error("degenerate box should not overlap")
	}
}

func TestColorFloats(t *testing.T) {
	c := RGBA(255, 0, 51, 255).Floats()
	want := [4]float32{1, 0, 0.2, 1}
	for i := range c {
		if abs(c[i]-want[i]) > 1e-6 {
			t.Errorf("Floats[%d]: got %f, want %f", i, c[i], want[i])
		}
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
