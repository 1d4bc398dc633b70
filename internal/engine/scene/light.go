package scene

import (
	"sync/atomic"

	"github.com/Faultbox/scenecore/pkg/math"
)

// LightType selects the light's falloff model.
type LightType uint8

const (
	LightAmbient LightType = iota
	LightDirectional
	LightOmni
	LightSpot
)

func (t LightType) String() string {
	switch t {
	case LightAmbient:
		return "ambient"
	case LightDirectional:
		return "directional"
	case LightOmni:
		return "omni"
	case LightSpot:
		return "spot"
	}
	return "unknown"
}

var lastLightID atomic.Uint32

// Light is a scene light in world space. A light reaches a node when its
// influence mask shares a bit with the node's receiving mask.
type Light struct {
	ID        uint32
	Type      LightType
	Color     [3]float32
	Intensity float32
	Position  math.Vec3
	Direction math.Vec3

	// AttenuationEnd is the distance at which omni and spot lights reach
	// zero. Zero means no falloff.
	AttenuationEnd float32
	// SpotOuterAngle is the cone half-angle in radians for spot lights.
	SpotOuterAngle float32

	InfluenceMask uint64
}

// NewLight creates a white light of the given type with a unique id.
func NewLight(t LightType) *Light {
	return &Light{
		ID:            lastLightID.Add(1),
		Type:          t,
		Color:         [3]float32{1, 1, 1},
		Intensity:     1,
		Direction:     math.Vec3{X: 0, Y: -1, Z: 0},
		InfluenceMask: DefaultLightMask,
	}
}

// Influences reports whether the light reaches a node with the given
// receiving mask.
func (l *Light) Influences(receivingMask uint64) bool {
	return l.InfluenceMask&receivingMask != 0
}
