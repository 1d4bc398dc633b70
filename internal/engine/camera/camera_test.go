package camera

import (
	"testing"

	"github.com/Faultbox/scenecore/pkg/math"
)

func TestPositionDistance(t *testing.T) {
	c := NewOrbitCamera()
	c.SetCenter(1, 2, 3)
	got := c.Position().Distance(math.Vec3{X: 1, Y: 2, Z: 3})
	if diff := got - c.Distance; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("eye distance = %f, want %f", got, c.Distance)
	}
}

func TestViewMatrixMapsCenterOntoAxis(t *testing.T) {
	c := NewOrbitCamera()
	c.SetCenter(0, 1, 0)
	p := c.ViewMatrix().TransformPoint([3]float32{0, 1, 0})
	if abs(p[0]) > 1e-4 || abs(p[1]) > 1e-4 || abs(p[2]+c.Distance) > 1e-3 {
		t.Errorf("center in view space = %v, want (0, 0, -%f)", p, c.Distance)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 1e6)
	if c.RotationX != c.MaxPitch {
		t.Errorf("pitch = %f, want clamped to %f", c.RotationX, c.MaxPitch)
	}
	c.HandleDrag(0, -1e6)
	if c.RotationX != c.MinPitch {
		t.Errorf("pitch = %f, want clamped to %f", c.RotationX, c.MinPitch)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	tests := []struct {
		name  string
		delta float32
		want  func(*OrbitCamera) float32
	}{
		{"zoom in", 100, func(c *OrbitCamera) float32 { return c.MinDistance }},
		{"zoom out", -100, func(c *OrbitCamera) float32 { return c.MaxDistance }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewOrbitCamera()
			for i := 0; i < 100; i++ {
				c.HandleZoom(tt.delta)
			}
			if c.Distance != tt.want(c) {
				t.Errorf("distance = %f, want %f", c.Distance, tt.want(c))
			}
		})
	}
}

func TestFit(t *testing.T) {
	c := NewOrbitCamera()
	c.Fit(math.Vec3{X: 5}, 2)
	if c.CenterX != 5 {
		t.Errorf("center X = %f, want 5", c.CenterX)
	}
	// sin(30 degrees) = 0.5
	if d := c.Distance - 4; d > 1e-4 || d < -1e-4 {
		t.Errorf("distance = %f, want 4", c.Distance)
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
