package scene

import "github.com/Faultbox/scenecore/internal/engine/material"

// NewBox builds an axis-aligned box centered at the origin with one element
// per face pair (front/back, left/right, top/bottom).
func NewBox(name string, w, h, d float32, materials ...*material.Material) *Geometry {
	x, y, z := w/2, h/2, d/2
	faces := []struct {
		n       [3]float32
		corners [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{x, -y, -z}, {-x, -y, -z}, {-x, y, -z}, {x, y, -z}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-x, -y, -z}, {-x, -y, z}, {-x, y, z}, {-x, y, -z}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{x, -y, z}, {x, -y, -z}, {x, y, -z}, {x, y, z}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-x, y, z}, {x, y, z}, {x, y, -z}, {-x, y, -z}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-x, -y, -z}, {x, -y, -z}, {x, -y, z}, {-x, -y, z}}},
	}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	vertices := make([]float32, 0, 24*VertexStride)
	elements := make([]Element, 3)
	for i, f := range faces {
		base := uint32(i * 4)
		for c, p := range f.corners {
			vertices = append(vertices, p[0], p[1], p[2], f.n[0], f.n[1], f.n[2], uvs[c][0], uvs[c][1])
		}
		e := &elements[i/2]
		e.Indices = append(e.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return NewGeometry(name, vertices, elements, materials...)
}

// NewPlane builds a w by d quad on the XZ plane facing +Y.
func NewPlane(name string, w, d float32, materials ...*material.Material) *Geometry {
	x, z := w/2, d/2
	vertices := []float32{
		-x, 0, z, 0, 1, 0, 0, 0,
		x, 0, z, 0, 1, 0, 1, 0,
		x, 0, -z, 0, 1, 0, 1, 1,
		-x, 0, -z, 0, 1, 0, 0, 1,
	}
	elements := []Element{{Indices: []uint32{0, 1, 2, 0, 2, 3}}}
	return NewGeometry(name, vertices, elements, materials...)
}
