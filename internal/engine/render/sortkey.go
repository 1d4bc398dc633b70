package render

import (
	"fmt"

	"github.com/Faultbox/scenecore/internal/engine/material"
	"github.com/Faultbox/scenecore/internal/engine/scene"
)

// SortKey orders one material variant of one drawable within a frame.
// Keys are rebuilt from scratch every frame.
type SortKey struct {
	Node     scene.Handle
	Element  int
	Shader   material.ShaderKey
	Material uint32
	Lights   uint64
	Distance float32

	Transparent bool
	Incoming    bool
	// Opacity is the blend weight: variant weight times node opacity.
	Opacity float32

	PortalStencilBits uint32

	// Drawable indexes the frame's drawables. Seq is the emission order
	// and the final tie-break.
	Drawable int
	Seq      int
}

// Less reports whether k draws before o.
//
// Opaque keys come first, clustered by shader, then material, then light
// set, so the executor rebinds as little as possible. Transparent keys
// follow, furthest first. Portal bits never affect order. Remaining ties
// are broken by node, element, variant (incoming first) and sequence, so
// the order is total and deterministic.
func (k SortKey) Less(o SortKey) bool {
	if k.Transparent != o.Transparent {
		return !k.Transparent
	}
	if k.Transparent && k.Distance != o.Distance {
		return k.Distance > o.Distance
	}
	if k.Shader != o.Shader {
		return k.Shader < o.Shader
	}
	if k.Material != o.Material {
		return k.Material < o.Material
	}
	if k.Lights != o.Lights {
		return k.Lights < o.Lights
	}
	if k.Node.Index != o.Node.Index {
		return k.Node.Index < o.Node.Index
	}
	if k.Node.Generation != o.Node.Generation {
		return k.Node.Generation < o.Node.Generation
	}
	if k.Element != o.Element {
		return k.Element < o.Element
	}
	if k.Incoming != o.Incoming {
		return k.Incoming
	}
	return k.Seq < o.Seq
}

func (k SortKey) compare(o SortKey) int {
	switch {
	case k.Less(o):
		return -1
	case o.Less(k):
		return 1
	}
	return 0
}

func (k SortKey) String() string {
	pass := "opaque"
	if k.Transparent {
		pass = "transparent"
	}
	variant := material.Incoming
	if !k.Incoming {
		variant = material.Outgoing
	}
	return fmt.Sprintf("%s node=%s elem=%d shader=%#x material=%d lights=%#x dist=%.3f %s opacity=%.3f portal=%#x",
		pass, k.Node, k.Element, uint32(k.Shader), k.Material, k.Lights, k.Distance, variant, k.Opacity, k.PortalStencilBits)
}
