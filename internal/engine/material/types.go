package material

// TextureID references a texture owned by the GPU resource layer.
// Zero means no texture.
type TextureID uint32

// Visual is one material channel: a texture, or a flat color when no
// texture is bound. Texture contents are shared by reference on copy.
type Visual struct {
	Color     [4]float32
	Texture   TextureID
	Intensity float32
}

// ColorVisual returns a color-only channel.
func ColorVisual(r, g, b, a float32) Visual {
	return Visual{Color: [4]float32{r, g, b, a}, Intensity: 1}
}

// TextureVisual returns a textured channel with a white tint.
func TextureVisual(tex TextureID) Visual {
	return Visual{Color: [4]float32{1, 1, 1, 1}, Texture: tex, Intensity: 1}
}

// HasTexture reports whether a texture is bound to the channel.
func (v Visual) HasTexture() bool {
	return v.Texture != 0
}

// Channel selects one of a material's visual channels.
type Channel uint8

const (
	Diffuse Channel = iota
	Specular
	Normal
	Reflective
	Emission
	Transparent
	Multiply
	AmbientOcclusion
	SelfIllumination

	NumChannels
)

var channelNames = [NumChannels]string{
	"diffuse", "specular", "normal", "reflective", "emission",
	"transparent", "multiply", "ambient_occlusion", "self_illumination",
}

func (c Channel) String() string {
	if c < NumChannels {
		return channelNames[c]
	}
	return "unknown"
}

// CullMode selects which faces are culled.
type CullMode uint8

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

func (m CullMode) String() string {
	switch m {
	case CullBack:
		return "back"
	case CullFront:
		return "front"
	case CullNone:
		return "none"
	}
	return "unknown"
}

// BlendMode controls how fragments combine with the render target.
type BlendMode uint8

const (
	BlendAlpha BlendMode = iota
	BlendAdd
	BlendSubtract
	BlendMultiply
	BlendScreen
	BlendReplace
)

func (m BlendMode) String() string {
	switch m {
	case BlendAlpha:
		return "alpha"
	case BlendAdd:
		return "add"
	case BlendSubtract:
		return "subtract"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	case BlendReplace:
		return "replace"
	}
	return "unknown"
}

// TransparencyMode selects how the transparent channel is read.
type TransparencyMode uint8

const (
	TransparencyAOne    TransparencyMode = iota // alpha channel, 1 = opaque
	TransparencyRGBZero                         // luminance, 0 = opaque
)

func (m TransparencyMode) String() string {
	if m == TransparencyRGBZero {
		return "rgb_zero"
	}
	return "a_one"
}

// LightingModel is the shading equation family.
type LightingModel uint8

const (
	Phong LightingModel = iota
	Blinn
	Lambert
	Constant // unlit; renders without lights
)

func (m LightingModel) String() string {
	switch m {
	case Phong:
		return "phong"
	case Blinn:
		return "blinn"
	case Lambert:
		return "lambert"
	case Constant:
		return "constant"
	}
	return "unknown"
}

// ShaderKey identifies the shader program a material state needs. Two
// states with equal keys share a program.
type ShaderKey uint32

const (
	shaderKeyModelBits   = 0x3
	shaderKeyPerPixelBit = 1 << 2
	shaderKeyRGBZeroBit  = 1 << 3
	shaderKeyTexShift    = 4
)

// LightingModel extracts the lighting model from the key.
func (k ShaderKey) LightingModel() LightingModel {
	return LightingModel(k & shaderKeyModelBits)
}

// PerPixel reports per-pixel lighting.
func (k ShaderKey) PerPixel() bool {
	return k&shaderKeyPerPixelBit != 0
}

// RGBZero reports RGBZero transparency mode.
func (k ShaderKey) RGBZero() bool {
	return k&shaderKeyRGBZeroBit != 0
}

// Textured reports whether the channel samples a texture.
func (k ShaderKey) Textured(c Channel) bool {
	return k&(1<<(shaderKeyTexShift+uint(c))) != 0
}
