package gldriver

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/scenecore/internal/engine/material"
)

type blend struct {
	enabled  bool
	equation uint32
	src, dst uint32
}

func blendFor(mode material.BlendMode) blend {
	switch mode {
	case material.BlendAdd:
		return blend{true, gl.FUNC_ADD, gl.SRC_ALPHA, gl.ONE}
	case material.BlendSubtract:
		return blend{true, gl.FUNC_REVERSE_SUBTRACT, gl.SRC_ALPHA, gl.ONE}
	case material.BlendMultiply:
		return blend{true, gl.FUNC_ADD, gl.DST_COLOR, gl.ZERO}
	case material.BlendScreen:
		return blend{true, gl.FUNC_ADD, gl.ONE, gl.ONE_MINUS_SRC_COLOR}
	case material.BlendReplace:
		return blend{}
	}
	return blend{true, gl.FUNC_ADD, gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA}
}

func cullFace(mode material.CullMode) (uint32, bool) {
	switch mode {
	case material.CullBack:
		return gl.BACK, true
	case material.CullFront:
		return gl.FRONT, true
	}
	return 0, false
}
