// Package render turns a frame's drawables into an ordered list of sort
// keys and executes it against a Driver with as few state changes as the
// ordering allows.
package render

import (
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/scenecore/internal/engine/affinity"
	"github.com/Faultbox/scenecore/internal/engine/material"
	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/internal/engine/timeline"
	"github.com/Faultbox/scenecore/internal/logger"
)

// Stats counts what one Execute did.
type Stats struct {
	ShaderBinds   int
	LightBinds    int
	MaterialBinds int
	Draws         int
	// Skipped keys reached the executor without bindable lights.
	Skipped int
	Keys    int
	// Excluded variants were dropped by Build for missing bind state.
	Excluded int
}

// Queue builds and executes the frame's sort keys. It belongs to the
// render goroutine.
type Queue struct {
	owner affinity.Owner
	clock *timeline.Clock

	drawables []scene.Drawable
	keys      []SortKey
	views     []material.View
	variants  []material.View
	lights    lightSets

	furthest       float32
	excluded       int
	debugSortOrder bool
}

// NewQueue creates a queue. Materials drawn through it fade on clock.
func NewQueue(owner affinity.Owner, clock *timeline.Clock) *Queue {
	return &Queue{owner: owner, clock: clock}
}

// SetDebugSortOrder logs every key after each Build when enabled.
func (q *Queue) SetDebugSortOrder(enabled bool) {
	q.debugSortOrder = enabled
}

// Build derives the frame's sort keys from drawables and sorts them.
//
// Each drawable contributes its material's incoming variant and, while a
// transition fades, the outgoing one. Drawables without geometry or
// material are excluded, as are variants that would be lit by no light
// unless their lighting model is Constant. Every material seen is marked
// live so later changes cross-fade.
func (q *Queue) Build(ctx Context, drawables []scene.Drawable) {
	q.owner.Check("Queue.Build")

	q.drawables = append(q.drawables[:0], drawables...)
	q.keys = q.keys[:0]
	q.views = q.views[:0]
	q.furthest = 0
	q.excluded = 0
	q.lights.reset()

	for i := range q.drawables {
		d := &q.drawables[i]
		if d.Geometry == nil || d.Material == nil {
			q.excluded++
			logger.Debug("render: drawable excluded, missing bind state",
				zap.Stringer("node", d.Node),
				zap.Int("element", d.Element),
				zap.Bool("geometry", d.Geometry != nil),
				zap.Bool("material", d.Material != nil),
			)
			continue
		}
		if d.Opacity <= 0 {
			continue
		}

		d.Material.MarkLive(q.clock)
		distance := d.World.Translation().Distance(ctx.Eye)
		if distance > q.furthest {
			q.furthest = distance
		}
		mask := q.lights.mask(d.Lights)

		q.variants = d.Material.Variants(q.variants[:0])
		for _, v := range q.variants {
			if v.Opacity() <= 0 {
				continue
			}
			if len(d.Lights) == 0 && v.LightingModel() != material.Constant {
				q.excluded++
				logger.Debug("render: variant excluded, no lights",
					zap.Stringer("node", d.Node),
					zap.Int("element", d.Element),
					zap.Stringer("lighting", v.LightingModel()),
				)
				continue
			}
			q.keys = append(q.keys, SortKey{
				Node:              d.Node,
				Element:           d.Element,
				Shader:            v.ShaderKey(),
				Material:          v.ID(),
				Lights:            mask,
				Distance:          distance,
				Transparent:       v.IsTransparent() || d.Opacity < 1,
				Incoming:          v.Variant() == material.Incoming,
				Opacity:           v.Opacity() * d.Opacity,
				PortalStencilBits: d.PortalStencilBits,
				Drawable:          i,
				Seq:               len(q.views),
			})
			q.views = append(q.views, v)
		}
	}

	slices.SortFunc(q.keys, SortKey.compare)

	if q.debugSortOrder {
		q.logSortOrder()
	}
}

// Execute walks the sorted keys once, binding shader, lights and material
// properties only when they change, and draws each key.
func (q *Queue) Execute(ctx Context, drv Driver) Stats {
	q.owner.Check("Queue.Execute")

	st := Stats{Keys: len(q.keys), Excluded: q.excluded}

	var (
		shader        material.ShaderKey
		lights        uint64
		mat           uint32
		opacity       float32
		shaderBound   bool
		lightsBound   bool
		materialBound bool
	)
	for _, k := range q.keys {
		d := q.drawables[k.Drawable]
		v := q.views[k.Seq]

		if !shaderBound || k.Shader != shader {
			drv.BindShader(v)
			st.ShaderBinds++
			shader, shaderBound = k.Shader, true
			lightsBound = false
			materialBound = false
		}
		if !lightsBound || k.Lights != lights {
			drv.BindLights(k.Lights, d.Lights, ctx)
			st.LightBinds++
			lights, lightsBound = k.Lights, true
		}
		if !materialBound || k.Material != mat || k.Opacity != opacity {
			drv.BindProperties(v, k.Opacity)
			st.MaterialBinds++
			mat, opacity, materialBound = k.Material, k.Opacity, true
		}

		if len(d.Lights) == 0 && v.LightingModel() != material.Constant {
			st.Skipped++
			continue
		}
		drv.SetPortalStencilRefBits(k.PortalStencilBits)
		drv.Draw(d, v, ctx)
		st.Draws++
	}
	return st
}

// RenderStencil resets the portal stencil buffer and writes the bits of
// every portal surface of the last Build, in drawable order. Draws masked
// with those bits then pass inside the surface. Call it between Build and
// Execute.
func (q *Queue) RenderStencil(ctx Context, drv Driver) {
	q.owner.Check("Queue.RenderStencil")
	drv.ClearStencil(0)

	for _, d := range q.drawables {
		if !d.PortalSurface || d.PortalStencilBits == 0 {
			continue
		}
		if d.Geometry == nil || d.Material == nil || d.Opacity <= 0 {
			continue
		}
		drv.WriteStencil(d, d.Material.Incoming(), d.PortalStencilBits, ctx)
	}
}

// Keys returns the sorted keys of the last Build. The slice is reused by
// the next Build and must not be modified.
func (q *Queue) Keys() []SortKey {
	return q.keys
}

// View returns the material variant a key draws.
func (q *Queue) View(k SortKey) material.View {
	return q.views[k.Seq]
}

// Drawable returns the drawable a key draws.
func (q *Queue) Drawable(k SortKey) scene.Drawable {
	return q.drawables[k.Drawable]
}

// FurthestDistance returns the largest eye distance seen by the last Build.
func (q *Queue) FurthestDistance() float32 {
	return q.furthest
}

func (q *Queue) logSortOrder() {
	log := logger.Named("render")
	log.Debug("sort order",
		zap.Int("keys", len(q.keys)),
		zap.Int("excluded", q.excluded),
		zap.Float32("furthest", q.furthest),
	)
	for i, k := range q.keys {
		log.Debug("sort key", zap.Int("index", i), zap.Stringer("key", k))
	}
}
