package render

import (
	"github.com/Faultbox/scenecore/internal/engine/material"
	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/pkg/math"
)

// Context is the per-frame camera state shared by the builder and the
// driver.
type Context struct {
	Eye        math.Vec3
	View       math.Mat4
	Projection math.Mat4
	Frame      uint64
}

// Driver receives the bind and draw calls of an executed queue. The queue
// calls it only from the render goroutine, in key order.
type Driver interface {
	// BindShader selects the program for the variant's shader key. Lights
	// are always rebound after a shader bind.
	BindShader(v material.View)
	// BindLights uploads the light set identified by mask.
	BindLights(mask uint64, lights []*scene.Light, ctx Context)
	// BindProperties uploads the variant's material state drawn at the
	// given blend weight.
	BindProperties(v material.View, opacity float32)
	// SetPortalStencilRefBits sets the stencil reference for the next draw.
	SetPortalStencilRefBits(bits uint32)
	Draw(d scene.Drawable, v material.View, ctx Context)
	ClearStencil(value int32)
	// WriteStencil sets bits in the stencil buffer wherever the drawable
	// covers, leaving colour and depth untouched. v is the variant whose
	// program transforms the geometry.
	WriteStencil(d scene.Drawable, v material.View, bits uint32, ctx Context)
}
