package animation

import (
	"fmt"

	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/pkg/math"
)

// Channel is one animated property. A channel only describes the target
// value; the start value is captured when the animation executes, so the
// same channel can be reused by copies.
type Channel interface {
	// Name identifies the property. Two running animations never drive
	// the same name on the same node.
	Name() string

	bind(target scene.Ref) (apply func(progress float32), ok bool)
}

// MoveTo animates the node position.
func MoveTo(to math.Vec3) Channel {
	return positionChannel{to: to}
}

// ScaleTo animates the node scale.
func ScaleTo(to math.Vec3) Channel {
	return scaleChannel{to: to}
}

// RotateTo animates the node rotation along the shortest arc.
func RotateTo(to math.Quat) Channel {
	return rotationChannel{to: to.Normalize()}
}

// OpacityTo animates the node opacity.
func OpacityTo(to float32) Channel {
	return opacityChannel{to: to}
}

// MaterialTransparency animates the uniform transparency of the material
// the node's geometry draws element with.
func MaterialTransparency(element int, to float32) Channel {
	return transparencyChannel{element: element, to: to}
}

// Custom animates an arbitrary float through get and set.
func Custom(name string, get func() float32, set func(float32), to float32) Channel {
	return customChannel{name: name, get: get, set: set, to: to}
}

type positionChannel struct{ to math.Vec3 }

func (positionChannel) Name() string { return "position" }

func (c positionChannel) bind(target scene.Ref) (func(float32), bool) {
	n, ok := target.Resolve()
	if !ok {
		return nil, false
	}
	from := n.Position()
	return func(p float32) {
		if n, ok := target.Resolve(); ok {
			n.SetPosition(from.Lerp(c.to, p))
		}
	}, true
}

type scaleChannel struct{ to math.Vec3 }

func (scaleChannel) Name() string { return "scale" }

func (c scaleChannel) bind(target scene.Ref) (func(float32), bool) {
	n, ok := target.Resolve()
	if !ok {
		return nil, false
	}
	from := n.Scale()
	return func(p float32) {
		if n, ok := target.Resolve(); ok {
			n.SetScale(from.Lerp(c.to, p))
		}
	}, true
}

type rotationChannel struct{ to math.Quat }

func (rotationChannel) Name() string { return "rotation" }

func (c rotationChannel) bind(target scene.Ref) (func(float32), bool) {
	n, ok := target.Resolve()
	if !ok {
		return nil, false
	}
	from := n.Rotation()
	return func(p float32) {
		if n, ok := target.Resolve(); ok {
			if p >= 1 {
				n.SetRotation(c.to)
				return
			}
			n.SetRotation(from.Slerp(c.to, p))
		}
	}, true
}

type opacityChannel struct{ to float32 }

func (opacityChannel) Name() string { return "opacity" }

func (c opacityChannel) bind(target scene.Ref) (func(float32), bool) {
	n, ok := target.Resolve()
	if !ok {
		return nil, false
	}
	from := n.Opacity()
	return func(p float32) {
		if n, ok := target.Resolve(); ok {
			n.SetOpacity(lerp(from, c.to, p))
		}
	}, true
}

type transparencyChannel struct {
	element int
	to      float32
}

func (c transparencyChannel) Name() string {
	return fmt.Sprintf("material[%d].transparency", c.element)
}

func (c transparencyChannel) bind(target scene.Ref) (func(float32), bool) {
	n, ok := target.Resolve()
	if !ok || n.Geometry() == nil {
		return nil, false
	}
	m := n.Geometry().MaterialForElement(c.element)
	if m == nil {
		return nil, false
	}
	from := m.Transparency()
	return func(p float32) {
		if target.Alive() {
			m.ApplyTransparency(lerp(from, c.to, p))
		}
	}, true
}

type customChannel struct {
	name string
	get  func() float32
	set  func(float32)
	to   float32
}

func (c customChannel) Name() string { return "custom:" + c.name }

func (c customChannel) bind(scene.Ref) (func(float32), bool) {
	if c.get == nil || c.set == nil {
		return nil, false
	}
	from := c.get()
	return func(p float32) {
		c.set(lerp(from, c.to, p))
	}, true
}

func lerp(a, b, t float32) float32 {
	if t >= 1 {
		return b
	}
	return a + (b-a)*t
}
