// Package rendertest provides a render.Driver that records calls instead of
// issuing them, for tests and headless tools.
package rendertest

import (
	"fmt"

	"github.com/Faultbox/scenecore/internal/engine/material"
	"github.com/Faultbox/scenecore/internal/engine/render"
	"github.com/Faultbox/scenecore/internal/engine/scene"
)

// Op names a recorded driver call.
type Op string

const (
	OpBindShader     Op = "bind-shader"
	OpBindLights     Op = "bind-lights"
	OpBindProperties Op = "bind-properties"
	OpStencilBits    Op = "stencil-bits"
	OpDraw           Op = "draw"
	OpClearStencil   Op = "clear-stencil"
	OpWriteStencil   Op = "write-stencil"
)

// Call is one recorded driver call. Only the fields relevant to Op are set.
type Call struct {
	Op       Op
	Shader   material.ShaderKey
	Material uint32
	Variant  material.Variant
	Lights   uint64
	Count    int
	Opacity  float32
	Bits     uint32
	Node     scene.Handle
	Element  int
	Value    int32
}

func (c Call) String() string {
	switch c.Op {
	case OpBindShader:
		return fmt.Sprintf("%s %#x", c.Op, uint32(c.Shader))
	case OpBindLights:
		return fmt.Sprintf("%s %#x (%d)", c.Op, c.Lights, c.Count)
	case OpBindProperties:
		return fmt.Sprintf("%s material=%d %s opacity=%.3f", c.Op, c.Material, c.Variant, c.Opacity)
	case OpStencilBits:
		return fmt.Sprintf("%s %#x", c.Op, c.Bits)
	case OpDraw:
		return fmt.Sprintf("%s node=%s elem=%d material=%d %s", c.Op, c.Node, c.Element, c.Material, c.Variant)
	case OpClearStencil:
		return fmt.Sprintf("%s %d", c.Op, c.Value)
	case OpWriteStencil:
		return fmt.Sprintf("%s %#x node=%s elem=%d", c.Op, c.Bits, c.Node, c.Element)
	}
	return string(c.Op)
}

// Recorder implements render.Driver by appending every call.
type Recorder struct {
	Calls []Call
}

var _ render.Driver = (*Recorder)(nil)

func (r *Recorder) BindShader(v material.View) {
	r.Calls = append(r.Calls, Call{Op: OpBindShader, Shader: v.ShaderKey(), Material: v.ID(), Variant: v.Variant()})
}

func (r *Recorder) BindLights(mask uint64, lights []*scene.Light, _ render.Context) {
	r.Calls = append(r.Calls, Call{Op: OpBindLights, Lights: mask, Count: len(lights)})
}

func (r *Recorder) BindProperties(v material.View, opacity float32) {
	r.Calls = append(r.Calls, Call{Op: OpBindProperties, Material: v.ID(), Variant: v.Variant(), Opacity: opacity})
}

func (r *Recorder) SetPortalStencilRefBits(bits uint32) {
	r.Calls = append(r.Calls, Call{Op: OpStencilBits, Bits: bits})
}

func (r *Recorder) Draw(d scene.Drawable, v material.View, _ render.Context) {
	r.Calls = append(r.Calls, Call{
		Op:       OpDraw,
		Node:     d.Node,
		Element:  d.Element,
		Material: v.ID(),
		Variant:  v.Variant(),
		Shader:   v.ShaderKey(),
	})
}

func (r *Recorder) ClearStencil(value int32) {
	r.Calls = append(r.Calls, Call{Op: OpClearStencil, Value: value})
}

func (r *Recorder) WriteStencil(d scene.Drawable, v material.View, bits uint32, _ render.Context) {
	r.Calls = append(r.Calls, Call{
		Op:       OpWriteStencil,
		Bits:     bits,
		Node:     d.Node,
		Element:  d.Element,
		Material: v.ID(),
	})
}

// Count returns how many calls of op were recorded.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls of op in order.
func (r *Recorder) Filter(op Op) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}
