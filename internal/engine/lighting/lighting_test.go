package lighting

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/pkg/math"
)

func TestBufferSet(t *testing.T) {
	amb := scene.NewLight(scene.LightAmbient)
	amb.Color = [3]float32{0.2, 0.2, 0.2}

	sun := scene.NewLight(scene.LightDirectional)
	sun.Direction = math.Vec3{Y: -2}
	sun.Intensity = 0.5

	lamp := scene.NewLight(scene.LightOmni)
	lamp.Position = math.Vec3{X: 1, Y: 2, Z: 3}
	lamp.AttenuationEnd = 10

	var b Buffer
	if dropped := b.Set([]*scene.Light{amb, sun, lamp}); dropped != 0 {
		t.Fatalf("dropped = %d, want 0", dropped)
	}

	if b.Count != 2 {
		t.Fatalf("Count = %d, want 2 (ambient takes no slot)", b.Count)
	}
	if b.Ambient != [3]float32{0.2, 0.2, 0.2} {
		t.Errorf("Ambient = %v", b.Ambient)
	}
	if got := b.Kinds(); got[0] != KindDirectional || got[1] != KindOmni {
		t.Errorf("Kinds = %v", got)
	}
	if got := b.Directions()[:3]; got[1] != -1 {
		t.Errorf("direction not normalized: %v", got)
	}
	if got := b.Colors()[:3]; got[0] != 0.5 {
		t.Errorf("color not scaled by intensity: %v", got)
	}
	if got := b.Positions()[3:6]; got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("omni position = %v", got)
	}
	if got := b.Attenuations(); got[1] != 10 {
		t.Errorf("attenuation = %v", got)
	}
}

func TestBufferTruncates(t *testing.T) {
	lights := make([]*scene.Light, MaxLights+3)
	for i := range lights {
		lights[i] = scene.NewLight(scene.LightOmni)
	}
	var b Buffer
	if dropped := b.Set(lights); dropped != 3 {
		t.Errorf("dropped = %d, want 3", dropped)
	}
	if b.Count != MaxLights || len(b.Positions()) != MaxLights*3 {
		t.Errorf("Count = %d, want %d", b.Count, MaxLights)
	}

	b.Set(nil)
	if b.Count != 0 || len(b.Colors()) != 0 {
		t.Error("Set(nil) should empty the buffer")
	}
}

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float32
		want     math.Vec3
	}{
		{"overhead", 0, 90, math.Vec3{Y: -1}},
		{"horizon south", 0, 0, math.Vec3{Z: -1}},
		{"horizon east", 90, 0, math.Vec3{X: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.lon, tt.lat)
			if got.Distance(tt.want) > 1e-5 {
				t.Errorf("SunDirection(%v, %v) = %+v, want %+v", tt.lon, tt.lat, got, tt.want)
			}
			if l := got.Length(); gomath.Abs(float64(l-1)) > 1e-5 {
				t.Errorf("length = %f, want 1", l)
			}
		})
	}
}
