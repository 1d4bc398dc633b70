// Package picking casts rays from the camera to find the node under the
// cursor.
package picking

import (
	gomath "math"

	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/pkg/math"
)

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// Empty reports whether the box contains no points.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

func emptyAABB() AABB {
	inf := float32(gomath.Inf(1))
	return AABB{
		Min: math.Vec3{X: inf, Y: inf, Z: inf},
		Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

func (b *AABB) extend(p math.Vec3) {
	b.Min = math.Vec3{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)}
	b.Max = math.Vec3{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)}
}

// Transform returns the box enclosing b's eight corners under m.
func (b AABB) Transform(m math.Mat4) AABB {
	if b.Empty() {
		return b
	}
	out := emptyAABB()
	for i := 0; i < 8; i++ {
		c := [3]float32{b.Min.X, b.Min.Y, b.Min.Z}
		if i&1 != 0 {
			c[0] = b.Max.X
		}
		if i&2 != 0 {
			c[1] = b.Max.Y
		}
		if i&4 != 0 {
			c[2] = b.Max.Z
		}
		p := m.TransformPoint(c)
		out.extend(math.Vec3{X: p[0], Y: p[1], Z: p[2]})
	}
	return out
}

// GeometryBounds returns the local bounds of g's vertex positions.
func GeometryBounds(g *scene.Geometry) AABB {
	b := emptyAABB()
	for i := 0; i+2 < len(g.Vertices); i += scene.VertexStride {
		b.extend(math.Vec3{X: g.Vertices[i], Y: g.Vertices[i+1], Z: g.Vertices[i+2]})
	}
	return b
}

// ScreenToRay converts a cursor position in pixels, origin top-left, into
// a world-space ray through the view and projection.
func ScreenToRay(x, y, width, height float32, view, projection math.Mat4) (Ray, bool) {
	if width <= 0 || height <= 0 {
		return Ray{}, false
	}
	inv, ok := projection.Mul(view).Inverse()
	if !ok {
		return Ray{}, false
	}

	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height

	near := unproject(inv, math.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(inv, math.Vec4{ndcX, ndcY, 1, 1})
	dir := far.Sub(near)
	if dir.Length() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: near, Direction: dir.Normalize()}, true
}

func unproject(inv math.Mat4, ndc math.Vec4) math.Vec3 {
	p := inv.MulVec4(ndc)
	if p[3] != 0 {
		p[0] /= p[3]
		p[1] /= p[3]
		p[2] /= p[3]
	}
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// IntersectPlaneY intersects the ray with the horizontal plane y = level.
func (r Ray) IntersectPlaneY(level float32) (math.Vec3, bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 1e-3 {
		return math.Vec3{}, false
	}
	t := (level - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}

// IntersectAABB returns the distance to the first hit with box. A ray that
// starts inside reports the exit distance.
func (r Ray) IntersectAABB(box AABB) (float32, bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Pick returns the nearest live, visible node with geometry whose world
// bounds the ray hits.
func Pick(r Ray, nodes []*scene.Node) (*scene.Node, float32, bool) {
	var (
		best  *scene.Node
		bestT = float32(gomath.MaxFloat32)
	)
	for _, n := range nodes {
		if n == nil || !n.Alive() || !n.Visible() || n.Geometry() == nil {
			continue
		}
		box := GeometryBounds(n.Geometry()).Transform(n.WorldTransform())
		if t, ok := r.IntersectAABB(box); ok && t < bestT {
			best, bestT = n, t
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestT, true
}
