package scene

import (
	"errors"

	"github.com/Faultbox/scenecore/pkg/math"
)

// DefaultLightMask is the receiving and influence mask nodes and lights
// start with, so every light reaches every node until masks are narrowed.
const DefaultLightMask uint64 = 1

var (
	// ErrDeadNode is returned when operating on a destroyed node.
	ErrDeadNode = errors.New("scene: node destroyed")
	// ErrCycle is returned when parenting would create a cycle.
	ErrCycle = errors.New("scene: parenting would create a cycle")
	// ErrForeignNode is returned when parenting nodes of different tables.
	ErrForeignNode = errors.New("scene: node belongs to another table")
)

// Node is a scene entity with a transform, optional geometry and the
// per-node render flags the traversal propagates.
type Node struct {
	table  *Table
	handle Handle
	dead   bool

	Name string

	position math.Vec3
	rotation math.Quat
	scale    math.Vec3
	opacity  float32
	visible  bool

	portalBits uint32
	lightMask  uint64
	geometry   *Geometry

	parent   Handle
	children []Handle
}

func newNode(t *Table, h Handle, name string) *Node {
	return &Node{
		table:     t,
		handle:    h,
		Name:      name,
		rotation:  math.QuatIdentity(),
		scale:     math.Vec3{X: 1, Y: 1, Z: 1},
		opacity:   1,
		visible:   true,
		lightMask: DefaultLightMask,
	}
}

// Handle returns the node's table handle.
func (n *Node) Handle() Handle {
	return n.handle
}

// Ref returns a weak reference to the node.
func (n *Node) Ref() Ref {
	return n.table.Ref(n.handle)
}

// Alive reports whether the node has not been destroyed.
func (n *Node) Alive() bool {
	return !n.dead
}

func (n *Node) Position() math.Vec3 {
	return n.position
}

func (n *Node) SetPosition(p math.Vec3) {
	n.position = p
}

func (n *Node) Rotation() math.Quat {
	return n.rotation
}

func (n *Node) SetRotation(q math.Quat) {
	n.rotation = q.Normalize()
}

func (n *Node) Scale() math.Vec3 {
	return n.scale
}

func (n *Node) SetScale(s math.Vec3) {
	n.scale = s
}

// Opacity returns the node opacity in [0, 1]. It multiplies down the tree.
func (n *Node) Opacity() float32 {
	return n.opacity
}

// SetOpacity sets the node opacity, clamped to [0, 1].
func (n *Node) SetOpacity(v float32) {
	switch {
	case v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	n.opacity = v
}

// Visible reports whether the node and its subtree are drawn.
func (n *Node) Visible() bool {
	return n.visible
}

func (n *Node) SetVisible(v bool) {
	n.visible = v
}

func (n *Node) Geometry() *Geometry {
	return n.geometry
}

func (n *Node) SetGeometry(g *Geometry) {
	n.geometry = g
}

// PortalStencilBits returns the stencil reference bits the node's
// drawables are masked with. Zero inherits the parent's bits.
func (n *Node) PortalStencilBits() uint32 {
	return n.portalBits
}

func (n *Node) SetPortalStencilBits(b uint32) {
	n.portalBits = b
}

// LightReceivingMask returns the bitmask matched against each light's
// influence mask.
func (n *Node) LightReceivingMask() uint64 {
	return n.lightMask
}

func (n *Node) SetLightReceivingMask(m uint64) {
	n.lightMask = m
}

// LocalTransform composes translation, rotation and scale.
func (n *Node) LocalTransform() math.Mat4 {
	return math.Compose(n.position, n.rotation, n.scale)
}

// WorldTransform composes local transforms from the root down to n.
func (n *Node) WorldTransform() math.Mat4 {
	world := n.LocalTransform()
	for p, ok := n.Parent(); ok; p, ok = p.Parent() {
		world = p.LocalTransform().Mul(world)
	}
	return world
}

// Parent returns the parent node, if any.
func (n *Node) Parent() (*Node, bool) {
	return n.table.Resolve(n.parent)
}

// Children returns the live child nodes in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, h := range n.children {
		if c, ok := n.table.Resolve(h); ok {
			out = append(out, c)
		}
	}
	return out
}

// AddChild reparents child under n.
func (n *Node) AddChild(child *Node) error {
	if n.dead || child.dead {
		return ErrDeadNode
	}
	if n.table != child.table {
		return ErrForeignNode
	}
	for p := n; p != nil; {
		if p == child {
			return ErrCycle
		}
		next, ok := p.Parent()
		if !ok {
			break
		}
		p = next
	}
	if old, ok := child.Parent(); ok {
		old.removeChild(child.handle)
	}
	child.parent = n.handle
	n.children = append(n.children, child.handle)
	return nil
}

// RemoveFromParent detaches the node, keeping it alive.
func (n *Node) RemoveFromParent() {
	if p, ok := n.Parent(); ok {
		p.removeChild(n.handle)
	}
	n.parent = Handle{}
}

func (n *Node) removeChild(h Handle) {
	for i, c := range n.children {
		if c == h {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}
