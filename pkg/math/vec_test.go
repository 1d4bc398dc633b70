package math

import "testing"

func TestVec3Cross(t *testing.T) {
	x := Vec3{X: 1}
	y := Vec3{Y: 1}
	got := x.Cross(y)
	if got != (Vec3{Z: 1}) {
		t.Errorf("X cross Y: got %v, want (0, 0, 1)", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want float32
	}{
		{"axis", Vec3{X: 5}, 1},
		{"diagonal", Vec3{X: 3, Y: 4}, 1},
		{"zero", Vec3{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize().Length(); abs(got-tt.want) > 0.0001 {
				t.Errorf("length after Normalize = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{X: 0, Y: 10, Z: -4}
	b := Vec3{X: 10, Y: 20, Z: 4}

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
	if got := a.Lerp(b, 0.5); got != (Vec3{X: 5, Y: 15, Z: 0}) {
		t.Errorf("Lerp(0.5) = %v, want (5, 15, 0)", got)
	}
}

func TestVec3Distance(t *testing.T) {
	a := Vec3{X: 1, Y: 1, Z: 1}
	b := Vec3{X: 4, Y: 5, Z: 1}
	if d := a.Distance(b); abs(d-5) > 0.0001 {
		t.Errorf("Distance = %f, want 5", d)
	}
}
