package scene

import (
	"sync/atomic"

	"github.com/Faultbox/scenecore/internal/engine/material"
)

// VertexStride is the number of float32s per interleaved vertex:
// position (3), normal (3), uv (2).
const VertexStride = 8

var lastGeometryID atomic.Uint32

// Element is one indexed draw range of a geometry.
type Element struct {
	Indices []uint32
}

// Geometry is a shared vertex array split into elements. Element i is drawn
// with material i, wrapping around when there are fewer materials.
type Geometry struct {
	ID        uint32
	Name      string
	Vertices  []float32
	Elements  []Element
	Materials []*material.Material
}

// NewGeometry creates a geometry with a process-unique id.
func NewGeometry(name string, vertices []float32, elements []Element, materials ...*material.Material) *Geometry {
	return &Geometry{
		ID:        lastGeometryID.Add(1),
		Name:      name,
		Vertices:  vertices,
		Elements:  elements,
		Materials: materials,
	}
}

// VertexCount returns the number of interleaved vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Vertices) / VertexStride
}

// MaterialForElement returns the material element i is drawn with, or nil
// when the geometry has no materials.
func (g *Geometry) MaterialForElement(i int) *material.Material {
	if len(g.Materials) == 0 || i < 0 {
		return nil
	}
	return g.Materials[i%len(g.Materials)]
}
