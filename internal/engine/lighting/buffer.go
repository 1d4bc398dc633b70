// Package lighting flattens scene lights into the uniform arrays the GLSL
// programs read.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/scenecore/internal/engine/scene"
)

// MaxLights is the number of light slots in the shader uniform arrays.
const MaxLights = 8

// Light kinds as seen by the shaders. Ambient lights do not take a slot;
// they are summed into Buffer.Ambient.
const (
	KindDirectional int32 = iota
	KindOmni
	KindSpot
)

// Buffer holds one light set ready for GPU upload.
type Buffer struct {
	Count   int
	Ambient [3]float32

	kinds       [MaxLights]int32
	positions   [MaxLights * 3]float32
	directions  [MaxLights * 3]float32
	colors      [MaxLights * 3]float32
	attenuation [MaxLights]float32
	spotCos     [MaxLights]float32
}

// Clear removes all lights.
func (b *Buffer) Clear() {
	*b = Buffer{}
}

// Set replaces the buffer contents with lights. Colors are premultiplied by
// intensity. Returns the number of non-ambient lights that did not fit.
func (b *Buffer) Set(lights []*scene.Light) int {
	b.Clear()
	dropped := 0
	for _, l := range lights {
		c := [3]float32{l.Color[0] * l.Intensity, l.Color[1] * l.Intensity, l.Color[2] * l.Intensity}
		if l.Type == scene.LightAmbient {
			for i := range b.Ambient {
				b.Ambient[i] += c[i]
			}
			continue
		}
		if b.Count >= MaxLights {
			dropped++
			continue
		}

		i := b.Count
		switch l.Type {
		case scene.LightDirectional:
			b.kinds[i] = KindDirectional
		case scene.LightSpot:
			b.kinds[i] = KindSpot
		default:
			b.kinds[i] = KindOmni
		}
		pos, dir := l.Position.Array(), l.Direction.Normalize().Array()
		copy(b.positions[i*3:], pos[:])
		copy(b.directions[i*3:], dir[:])
		copy(b.colors[i*3:], c[:])
		b.attenuation[i] = l.AttenuationEnd
		b.spotCos[i] = float32(gomath.Cos(float64(l.SpotOuterAngle)))
		b.Count++
	}
	return dropped
}

// Kinds returns the light kinds of the used slots.
func (b *Buffer) Kinds() []int32 {
	return b.kinds[:b.Count]
}

// Positions returns world positions as [x0, y0, z0, x1, ...].
func (b *Buffer) Positions() []float32 {
	return b.positions[:b.Count*3]
}

// Directions returns normalized directions as [x0, y0, z0, x1, ...].
func (b *Buffer) Directions() []float32 {
	return b.directions[:b.Count*3]
}

// Colors returns intensity-scaled colors as [r0, g0, b0, r1, ...].
func (b *Buffer) Colors() []float32 {
	return b.colors[:b.Count*3]
}

// Attenuations returns the falloff end distance per slot; 0 means none.
func (b *Buffer) Attenuations() []float32 {
	return b.attenuation[:b.Count]
}

// SpotCosines returns the cosine of each spot cone half-angle.
func (b *Buffer) SpotCosines() []float32 {
	return b.spotCos[:b.Count]
}
