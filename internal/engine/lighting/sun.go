package lighting

import (
	gomath "math"

	"github.com/Faultbox/scenecore/pkg/math"
)

// SunDirection converts longitude (rotation around Y) and latitude
// (elevation above the horizon), both in degrees, into the direction light
// travels from a sun at that position.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lonRad := float64(longitude) * gomath.Pi / 180.0
	latRad := float64(latitude) * gomath.Pi / 180.0

	x := float32(gomath.Cos(latRad) * gomath.Sin(lonRad))
	y := float32(gomath.Sin(latRad))
	z := float32(gomath.Cos(latRad) * gomath.Cos(lonRad))

	// Towards the sun is (x, y, z); the light travels the other way.
	return math.Vec3{X: -x, Y: -y, Z: -z}
}
