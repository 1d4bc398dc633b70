package math

import "math"

// Quat is a rotation quaternion with scalar part W.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the quaternion of no rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle rotates by angle radians about the unit axis.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	sin, cos := math.Sincos(float64(angle) / 2)
	s := float32(sin)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: float32(cos)}
}

func (q Quat) scale(s float32) Quat {
	return Quat{X: q.X * s, Y: q.Y * s, Z: q.Z * s, W: q.W * s}
}

func (q Quat) add(r Quat) Quat {
	return Quat{X: q.X + r.X, Y: q.Y + r.Y, Z: q.Z + r.Z, W: q.W + r.W}
}

// Normalize returns q at unit length. Degenerate input yields the identity.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.Dot(q))))
	if length < 0.0001 {
		return QuatIdentity()
	}
	return q.scale(1 / length)
}

// Dot returns the 4D dot product.
func (q Quat) Dot(r Quat) float32 {
	return q.X*r.X + q.Y*r.Y + q.Z*r.Z + q.W*r.W
}

// Slerp interpolates along the shorter arc from q to r for t in [0, 1].
// Nearly parallel inputs use a normalized lerp.
func (q Quat) Slerp(r Quat, t float32) Quat {
	cos := q.Dot(r)
	if cos < 0 {
		r, cos = r.scale(-1), -cos
	}
	if cos > 0.9995 {
		return q.scale(1 - t).add(r.scale(t)).Normalize()
	}

	angle := math.Acos(float64(cos))
	sin := math.Sin(angle)
	a := float32(math.Sin((1-float64(t))*angle) / sin)
	b := float32(math.Sin(float64(t)*angle) / sin)
	return q.scale(a).add(r.scale(b))
}

// ToMat4 returns the column-major rotation matrix of q.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()
	x2, y2, z2 := q.X+q.X, q.Y+q.Y, q.Z+q.Z

	xx, yy, zz := q.X*x2, q.Y*y2, q.Z*z2
	xy, xz, yz := q.X*y2, q.X*z2, q.Y*z2
	wx, wy, wz := q.W*x2, q.W*y2, q.W*z2

	return Mat4{
		1 - yy - zz, xy + wz, xz - wy, 0,
		xy - wz, 1 - xx - zz, yz + wx, 0,
		xz + wy, yz - wx, 1 - xx - yy, 0,
		0, 0, 0, 1,
	}
}

// Mul composes rotations: the result applies r first, then q.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}
