package gldriver

import (
	"errors"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/internal/logger"
)

// indexRange locates one element inside the shared index buffer.
type indexRange struct {
	offset int
	count  int32
}

type mesh struct {
	vao, vbo, ebo uint32
	ranges        []indexRange
}

// packElements concatenates element indices into one buffer.
func packElements(elements []scene.Element) ([]uint32, []indexRange) {
	total := 0
	for _, e := range elements {
		total += len(e.Indices)
	}
	indices := make([]uint32, 0, total)
	ranges := make([]indexRange, len(elements))
	for i, e := range elements {
		ranges[i] = indexRange{offset: len(indices), count: int32(len(e.Indices))}
		indices = append(indices, e.Indices...)
	}
	return indices, ranges
}

// mesh returns the GPU copy of g, uploading it on first use. Geometry is
// treated as immutable once drawn.
func (d *Driver) mesh(g *scene.Geometry) (*mesh, error) {
	if m, ok := d.meshes[g.ID]; ok {
		return m, nil
	}
	if len(g.Vertices) == 0 || len(g.Vertices)%scene.VertexStride != 0 {
		return nil, errors.New("vertex data is empty or not a whole number of vertices")
	}
	indices, ranges := packElements(g.Elements)
	if len(indices) == 0 {
		return nil, errors.New("geometry has no indices")
	}

	m := &mesh{ranges: ranges}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(g.Vertices)*4, gl.Ptr(g.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	stride := int32(scene.VertexStride * 4)
	// Position attribute (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	// Normal attribute (location = 1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	// UV attribute (location = 2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	d.meshes[g.ID] = m
	logger.Debug("mesh uploaded",
		zap.Uint32("geometry", g.ID),
		zap.String("name", g.Name),
		zap.Uint32("vao", m.vao),
		zap.Int("vertices", g.VertexCount()),
		zap.Int("elements", len(ranges)),
	)
	return m, nil
}

func (m *mesh) delete() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}
