// Package gldriver implements render.Driver on OpenGL 4.1 core.
package gldriver

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/scenecore/internal/engine/lighting"
	"github.com/Faultbox/scenecore/internal/engine/material"
	"github.com/Faultbox/scenecore/internal/engine/render"
	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/internal/engine/shader"
	"github.com/Faultbox/scenecore/internal/logger"
)

// Config holds driver configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
}

// Driver issues GL calls for an executed render queue.
type Driver struct {
	config   Config
	shaders  *shader.Cache
	program  *shader.Program
	meshes   map[uint32]*mesh
	textures []uint32
	lights   lighting.Buffer

	// Shader keys that failed to compile; their draws are dropped.
	broken map[material.ShaderKey]error
}

var _ render.Driver = (*Driver)(nil)

// New creates a driver.
// Must be called after the OpenGL context is created, on its thread.
func New(cfg Config) (*Driver, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.STENCIL_TEST)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.KEEP)
	gl.StencilFunc(gl.ALWAYS, 0, 0xFF)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return &Driver{
		config:  cfg,
		shaders: shader.NewCache(),
		meshes:  make(map[uint32]*mesh),
		broken:  make(map[material.ShaderKey]error),
	}, nil
}

// Close releases every GL object the driver created.
func (d *Driver) Close() error {
	logger.Info("closing GL driver",
		zap.Int("meshes", len(d.meshes)),
		zap.Int("programs", d.shaders.Len()),
		zap.Int("textures", len(d.textures)),
	)
	var err error
	for id, m := range d.meshes {
		m.delete()
		delete(d.meshes, id)
	}
	d.deleteTextures()
	d.shaders.Close()
	d.program = nil
	for key, e := range d.broken {
		err = multierr.Append(err, fmt.Errorf("shader key %#x: %w", uint32(key), e))
	}
	return multierr.Append(err, CheckError())
}

// Resize handles window resize.
func (d *Driver) Resize(width, height int) {
	d.config.Width = width
	d.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("GL driver resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame. The stencil buffer is cleared separately by
// the queue's stencil pass.
func (d *Driver) Begin() {
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// BindShader makes the program for the variant's shader key current.
func (d *Driver) BindShader(v material.View) {
	key := v.ShaderKey()
	if _, bad := d.broken[key]; bad {
		d.program = nil
		return
	}
	p, err := d.shaders.Get(key)
	if err != nil {
		d.broken[key] = err
		d.program = nil
		logger.Error("shader compile failed", zap.Uint32("key", uint32(key)), zap.Error(err))
		return
	}
	d.program = p
	gl.UseProgram(p.ID)
}

// BindLights uploads the camera and the light set to the current program.
func (d *Driver) BindLights(mask uint64, lights []*scene.Light, ctx render.Context) {
	p := d.program
	if p == nil {
		return
	}
	gl.UniformMatrix4fv(p.View, 1, false, &ctx.View[0])
	gl.UniformMatrix4fv(p.Projection, 1, false, &ctx.Projection[0])
	eye := ctx.Eye.Array()
	gl.Uniform3fv(p.Eye, 1, &eye[0])

	if dropped := d.lights.Set(lights); dropped > 0 {
		logger.Debug("light set truncated", zap.Uint64("mask", mask), zap.Int("dropped", dropped))
	}
	b := &d.lights
	gl.Uniform3fv(p.Ambient, 1, &b.Ambient[0])
	gl.Uniform1i(p.LightCount, int32(b.Count))
	if b.Count == 0 {
		return
	}
	n := int32(b.Count)
	gl.Uniform1iv(p.LightKind, n, &b.Kinds()[0])
	gl.Uniform3fv(p.LightPos, n, &b.Positions()[0])
	gl.Uniform3fv(p.LightDir, n, &b.Directions()[0])
	gl.Uniform3fv(p.LightColor, n, &b.Colors()[0])
	gl.Uniform1fv(p.LightAtten, n, &b.Attenuations()[0])
	gl.Uniform1fv(p.LightSpotCos, n, &b.SpotCosines()[0])
}

// BindProperties uploads material uniforms and sets blend, cull and depth
// state for the variant drawn at opacity.
func (d *Driver) BindProperties(v material.View, opacity float32) {
	p := d.program
	if p == nil {
		return
	}
	diffuse := v.Visual(material.Diffuse)
	spec := v.Visual(material.Specular)
	emission := v.Visual(material.Emission)
	gl.Uniform4fv(p.Diffuse, 1, &diffuse.Color[0])
	gl.Uniform3fv(p.Specular, 1, &spec.Color[0])
	gl.Uniform3fv(p.Emission, 1, &emission.Color[0])
	gl.Uniform1f(p.Shininess, v.Shininess())
	gl.Uniform1f(p.Transparency, v.Transparency()*opacity)

	for unit, ch := range shader.SampledChannels {
		if !p.Key.Textured(ch) {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, uint32(v.Visual(ch).Texture))
	}

	bl := blendFor(v.BlendMode())
	if bl.enabled && (v.IsTransparent() || opacity < 1) {
		gl.Enable(gl.BLEND)
		gl.BlendEquation(bl.equation)
		gl.BlendFunc(bl.src, bl.dst)
	} else {
		gl.Disable(gl.BLEND)
	}

	if face, ok := cullFace(v.CullMode()); ok {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(face)
	} else {
		gl.Disable(gl.CULL_FACE)
	}

	if v.ReadsFromDepthBuffer() {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(v.WritesToDepthBuffer())
}

// SetPortalStencilRefBits restricts the next draw to pixels whose stencil
// value equals bits. Zero draws everywhere.
func (d *Driver) SetPortalStencilRefBits(bits uint32) {
	if bits == 0 {
		gl.StencilFunc(gl.ALWAYS, 0, 0xFF)
		return
	}
	gl.StencilFunc(gl.EQUAL, int32(bits), 0xFF)
}

// Draw draws one element of the drawable's geometry.
func (d *Driver) Draw(dr scene.Drawable, _ material.View, _ render.Context) {
	p := d.program
	if p == nil || dr.Geometry == nil {
		return
	}
	m, err := d.mesh(dr.Geometry)
	if err != nil {
		logger.Warn("mesh upload failed", zap.Uint32("geometry", dr.Geometry.ID), zap.Error(err))
		return
	}
	if dr.Element < 0 || dr.Element >= len(m.ranges) {
		return
	}
	r := m.ranges[dr.Element]
	if r.count == 0 {
		return
	}

	gl.UniformMatrix4fv(p.Model, 1, false, &dr.World[0])
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, r.count, gl.UNSIGNED_INT, gl.PtrOffset(r.offset*4))
	gl.BindVertexArray(0)
}

// ClearStencil resets the whole stencil buffer to value.
func (d *Driver) ClearStencil(value int32) {
	gl.StencilMask(0xFF)
	gl.ClearStencil(value)
	gl.Clear(gl.STENCIL_BUFFER_BIT)
}

// WriteStencil draws the drawable into the stencil buffer only, replacing
// the stored value with bits where it covers.
func (d *Driver) WriteStencil(dr scene.Drawable, v material.View, bits uint32, ctx render.Context) {
	d.BindShader(v)
	p := d.program
	if p == nil {
		return
	}
	gl.UniformMatrix4fv(p.View, 1, false, &ctx.View[0])
	gl.UniformMatrix4fv(p.Projection, 1, false, &ctx.Projection[0])

	gl.ColorMask(false, false, false, false)
	gl.DepthMask(false)
	gl.Disable(gl.CULL_FACE)
	gl.StencilMask(0xFF)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.REPLACE)
	gl.StencilFunc(gl.ALWAYS, int32(bits), 0xFF)

	d.Draw(dr, v, ctx)

	gl.StencilOp(gl.KEEP, gl.KEEP, gl.KEEP)
	gl.ColorMask(true, true, true, true)
	gl.DepthMask(true)
}

// CheckError drains the GL error queue.
func CheckError() error {
	var err error
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		err = multierr.Append(err, glError(code))
	}
	return err
}

func glError(code uint32) error {
	switch code {
	case gl.INVALID_ENUM:
		return errors.New("GL_INVALID_ENUM")
	case gl.INVALID_VALUE:
		return errors.New("GL_INVALID_VALUE")
	case gl.INVALID_OPERATION:
		return errors.New("GL_INVALID_OPERATION")
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return errors.New("GL_INVALID_FRAMEBUFFER_OPERATION")
	case gl.OUT_OF_MEMORY:
		return errors.New("GL_OUT_OF_MEMORY")
	}
	return fmt.Errorf("GL error %#x", code)
}
