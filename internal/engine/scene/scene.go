// Package scene holds the node graph the render core draws: a table of
// generation-checked nodes, their geometry and lights, and a reference
// traversal that flattens the graph into drawables.
package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scenecore/internal/engine/material"
	"github.com/Faultbox/scenecore/internal/logger"
	"github.com/Faultbox/scenecore/pkg/math"
)

// DefaultMaxLights is the number of lights bound per drawable unless
// changed with SetMaxLights.
const DefaultMaxLights = 8

// Drawable is one element of one node's geometry, resolved for a frame.
type Drawable struct {
	Node     Handle
	Element  int
	World    math.Mat4
	Geometry *Geometry
	Material *material.Material
	Lights   []*Light

	PortalStencilBits uint32
	// PortalSurface marks drawables of the node that sets the bits, as
	// opposed to descendants inheriting them. Surfaces write their bits in
	// the stencil pass.
	PortalSurface bool
	// Opacity is the node opacity multiplied down the hierarchy. Drawables
	// with zero opacity are not drawn.
	Opacity float32
}

// Scene is a rooted node graph plus the lights that illuminate it.
type Scene struct {
	table     *Table
	root      *Node
	lights    []*Light
	maxLights int
}

// New creates a scene with an empty root node.
func New() *Scene {
	t := NewTable()
	return &Scene{
		table:     t,
		root:      t.Create("root"),
		maxLights: DefaultMaxLights,
	}
}

// Table returns the node table backing the scene.
func (s *Scene) Table() *Table {
	return s.table
}

// Root returns the root node.
func (s *Scene) Root() *Node {
	return s.root
}

// NewNode creates a node under parent, or under the root when parent is nil.
func (s *Scene) NewNode(name string, parent *Node) *Node {
	n := s.table.Create(name)
	if parent == nil {
		parent = s.root
	}
	if err := parent.AddChild(n); err != nil {
		logger.Warn("scene: attaching node to root", zap.String("node", name), zap.Error(err))
		_ = s.root.AddChild(n)
	}
	return n
}

// Destroy removes a node and its subtree. The root cannot be destroyed.
func (s *Scene) Destroy(n *Node) bool {
	if n == s.root {
		return false
	}
	return s.table.Destroy(n.handle)
}

// AddLight adds a light to the scene.
func (s *Scene) AddLight(l *Light) {
	s.lights = append(s.lights, l)
}

// RemoveLight removes a light. Returns false if it was not present.
func (s *Scene) RemoveLight(l *Light) bool {
	for i, cur := range s.lights {
		if cur == l {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			return true
		}
	}
	return false
}

// Lights returns the scene lights.
func (s *Scene) Lights() []*Light {
	return s.lights
}

// SetMaxLights caps the lights bound per drawable.
func (s *Scene) SetMaxLights(n int) {
	if n < 0 {
		n = 0
	}
	s.maxLights = n
}

// Collect appends one drawable per element of every visible node with
// geometry. World transforms, opacity and portal bits are propagated from
// parents; each node receives the lights whose influence mask matches its
// receiving mask, in scene order, up to the light cap.
func (s *Scene) Collect(dst []Drawable) []Drawable {
	return s.collect(dst, s.root, math.Identity(), 1, 0)
}

func (s *Scene) collect(dst []Drawable, n *Node, parentWorld math.Mat4, parentOpacity float32, parentBits uint32) []Drawable {
	if !n.visible {
		return dst
	}
	opacity := parentOpacity * n.opacity
	if opacity <= 0 {
		return dst
	}
	world := parentWorld.Mul(n.LocalTransform())
	bits := n.portalBits
	if bits == 0 {
		bits = parentBits
	}

	if g := n.geometry; g != nil && len(g.Elements) > 0 {
		lights := s.lightsFor(n)
		for i := range g.Elements {
			dst = append(dst, Drawable{
				Node:              n.handle,
				Element:           i,
				World:             world,
				Geometry:          g,
				Material:          g.MaterialForElement(i),
				Lights:            lights,
				PortalStencilBits: bits,
				PortalSurface:     n.portalBits != 0,
				Opacity:           opacity,
			})
		}
	}

	for _, h := range n.children {
		if child, ok := s.table.Resolve(h); ok {
			dst = s.collect(dst, child, world, opacity, bits)
		}
	}
	return dst
}

func (s *Scene) lightsFor(n *Node) []*Light {
	var out []*Light
	for _, l := range s.lights {
		if len(out) >= s.maxLights {
			break
		}
		if l.Influences(n.lightMask) {
			out = append(out, l)
		}
	}
	return out
}
