package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation lives in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestScale(t *testing.T) {
	m := Scale(2, 3, 4)

	if m[0] != 2 || m[5] != 3 || m[10] != 4 {
		t.Errorf("Scale diagonal: got (%f, %f, %f), want (2, 3, 4)", m[0], m[5], m[10])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformPoint([3]float32{1, 2, 3})

	expected := [3]float32{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestMulOrder(t *testing.T) {
	// Translate * Scale scales first, then translates.
	m := Translate(10, 0, 0).Mul(Scale(2, 2, 1))
	x, y := m.TransformXY(1, 1)
	if x != 12 || y != 2 {
		t.Errorf("T*S applied to (1,1): got (%f, %f), want (12, 2)", x, y)
	}
}

func TestRotateZ90(t *testing.T) {
	m := RotateZ(float32(math.Pi / 2))
	x, y := m.TransformXY(1, 0)

	// Counter-clockwise: X axis maps onto Y axis.
	if abs(x) > 0.001 || abs(y-1) > 0.001 {
		t.Errorf("RotateZ 90: got (%f, %f), want (0, 1)", x, y)
	}
}

func TestRotateAround(t *testing.T) {
	m := RotateAround(5, 5, float32(math.Pi))

	// The pivot itself is fixed.
	x, y := m.TransformXY(5, 5)
	if abs(x-5) > 0.001 || abs(y-5) > 0.001 {
		t.Errorf("pivot moved: got (%f, %f)", x, y)
	}

	// Half-turn mirrors through the pivot.
	x, y = m.TransformXY(6, 5)
	if abs(x-4) > 0.001 || abs(y-5) > 0.001 {
		t.Errorf("RotateAround 180: got (%f, %f), want (4, 5)", x, y)
	}
}

func TestOrthoScreenSpace(t *testing.T) {
	const w, h = 800, 600
	m := Ortho(0, w, h, 0, 1, -1)

	want := Mat4{
		2.0 / w, 0, 0, 0,
		0, -2.0 / h, 0, 0,
		0, 0, 1, 0,
		-1, 1, 0, 1,
	}
	for i := range want {
		if abs(m[i]-want[i]) > 1e-6 {
			t.Errorf("Ortho[%d]: got %f, want %f", i, m[i], want[i])
		}
	}

	tests := []struct {
		x, y   float32
		nx, ny float32
	}{
		{0, 0, -1, 1},
		{w, h, 1, -1},
		{w / 2, h / 2, 0, 0},
	}
	for _, tt := range tests {
		nx, ny := m.TransformXY(tt.x, tt.y)
		if abs(nx-tt.nx) > 1e-5 || abs(ny-tt.ny) > 1e-5 {
			t.Errorf("Ortho(%v, %v): got (%f, %f), want (%f, %f)", tt.x, tt.y, nx, ny, tt.nx, tt.ny)
		}
	}
}

func TestColumn(t *testing.T) {
	m := Translate(7, 8, 9)
	if got := m.Column(3); got != [4]float32{7, 8, 9, 1} {
		t.Errorf("Column(3): got %v", got)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
