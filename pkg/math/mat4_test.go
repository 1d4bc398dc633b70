package math

import (
	"math"
	"testing"
)

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I should equal M: got %v, want %v", result, m)
	}
}

func TestTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		p    [3]float32
		want [3]float32
	}{
		{"translate", Translate(10, 20, 30), [3]float32{1, 2, 3}, [3]float32{11, 22, 33}},
		{"scale", Scale(2, 2, 2), [3]float32{1, 2, 3}, [3]float32{2, 4, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformPoint(tt.p); got != tt.want {
				t.Errorf("TransformPoint: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1, 0.1, 100)
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 0, 5}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})
	p := m.TransformPoint(eye.Array())
	for i := range p {
		if abs(p[i]) > 0.0001 {
			t.Fatalf("eye in view space = %v, want origin", p)
		}
	}
}

func TestComposeTranslation(t *testing.T) {
	pos := Vec3{X: 3, Y: -2, Z: 7}
	m := Compose(pos, QuatIdentity(), Vec3{X: 1, Y: 1, Z: 1})
	if got := m.Translation(); got != pos {
		t.Errorf("Translation = %v, want %v", got, pos)
	}
}

func TestComposeScaleThenRotate(t *testing.T) {
	rot := QuatFromAxisAngle(Vec3{Y: 1}, float32(math.Pi/2))
	m := Compose(Vec3{X: 10}, rot, Vec3{X: 2, Y: 2, Z: 2})

	// (1,0,0) scaled to (2,0,0), rotated 90 degrees around Y to (0,0,-2),
	// then translated by (10,0,0).
	got := m.TransformPoint([3]float32{1, 0, 0})
	want := [3]float32{10, 0, -2}
	for i := range got {
		if abs(got[i]-want[i]) > 0.001 {
			t.Fatalf("Compose point = %v, want %v", got, want)
		}
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestInverse(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"identity", Identity()},
		{"translate", Translate(3, -2, 5)},
		{"compose", Compose(Vec3{1, 2, 3}, QuatFromAxisAngle(Vec3{0, 1, 0}, 0.7), Vec3{2, 2, 0.5})},
		{"projection", Perspective(1.0, 1.5, 0.1, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Inverse()
			if !ok {
				t.Fatal("matrix reported singular")
			}
			got := tt.m.Mul(inv)
			want := Identity()
			for i := range got {
				if math.Abs(float64(got[i]-want[i])) > 1e-4 {
					t.Fatalf("M * M^-1 [%d] = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}

	if _, ok := Scale(1, 0, 1).Inverse(); ok {
		t.Error("zero scale should be singular")
	}
}

func TestMulVec4(t *testing.T) {
	got := Translate(1, 2, 3).MulVec4(Vec4{1, 1, 1, 1})
	if got != (Vec4{2, 3, 4, 1}) {
		t.Errorf("MulVec4 = %v, want [2 3 4 1]", got)
	}
	if got := Translate(1, 2, 3).MulVec4(Vec4{1, 1, 1, 0}); got != (Vec4{1, 1, 1, 0}) {
		t.Errorf("direction should ignore translation, got %v", got)
	}
}
