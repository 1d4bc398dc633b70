package material

// Name returns the user-provided material name.
func (m *Material) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.name
}

// SetName sets the material name.
func (m *Material) SetName(name string) {
	m.mu.Lock()
	m.name = name
	m.mu.Unlock()
}

// Visual returns the given channel of the incoming state.
func (m *Material) Visual(c Channel) Visual {
	s := m.read()
	return s.visuals[c]
}

// SetVisual replaces a channel.
func (m *Material) SetVisual(c Channel, v Visual) {
	m.update(func(s *state) { s.visuals[c] = v })
}

// SetDiffuseColor is shorthand for a color-only diffuse channel.
func (m *Material) SetDiffuseColor(r, g, b, a float32) {
	m.SetVisual(Diffuse, ColorVisual(r, g, b, a))
}

// Shininess returns the sharpness of specular highlights.
func (m *Material) Shininess() float32 {
	return m.read().shininess
}

// SetShininess sets the sharpness of specular highlights.
func (m *Material) SetShininess(v float32) {
	m.update(func(s *state) { s.shininess = v })
}

// FresnelExponent returns the reflectivity falloff factor.
func (m *Material) FresnelExponent() float32 {
	return m.read().fresnelExponent
}

// SetFresnelExponent sets the reflectivity falloff factor.
func (m *Material) SetFresnelExponent(v float32) {
	m.update(func(s *state) { s.fresnelExponent = v })
}

// Transparency returns the uniform transparency; 1 is fully opaque.
func (m *Material) Transparency() float32 {
	return m.read().transparency
}

// SetTransparency sets the uniform transparency, clamped to [0, 1].
func (m *Material) SetTransparency(v float32) {
	v = clamp01(v)
	m.update(func(s *state) { s.transparency = v })
}

// ApplyTransparency sets the uniform transparency without starting a
// transition. Animations that interpolate transparency every frame use it.
func (m *Material) ApplyTransparency(v float32) {
	v = clamp01(v)
	m.set(func(s *state) { s.transparency = v })
}

// TransparencyMode returns how the transparent channel is read.
func (m *Material) TransparencyMode() TransparencyMode {
	return m.read().transparencyMode
}

// SetTransparencyMode sets how the transparent channel is read.
func (m *Material) SetTransparencyMode(mode TransparencyMode) {
	m.update(func(s *state) { s.transparencyMode = mode })
}

// LightingModel returns the shading equation family.
func (m *Material) LightingModel() LightingModel {
	return m.read().lightingModel
}

// SetLightingModel sets the shading equation family.
func (m *Material) SetLightingModel(model LightingModel) {
	m.update(func(s *state) { s.lightingModel = model })
}

// LitPerPixel reports per-pixel (true) or per-vertex lighting.
func (m *Material) LitPerPixel() bool {
	return m.read().litPerPixel
}

// SetLitPerPixel selects per-pixel or per-vertex lighting.
func (m *Material) SetLitPerPixel(v bool) {
	m.update(func(s *state) { s.litPerPixel = v })
}

// BlendMode returns the framebuffer blend mode.
func (m *Material) BlendMode() BlendMode {
	return m.read().blendMode
}

// SetBlendMode sets the framebuffer blend mode.
func (m *Material) SetBlendMode(mode BlendMode) {
	m.update(func(s *state) { s.blendMode = mode })
}

// CullMode returns which faces are culled.
func (m *Material) CullMode() CullMode {
	return m.read().cullMode
}

// SetCullMode sets face culling. Takes effect immediately.
func (m *Material) SetCullMode(mode CullMode) {
	m.set(func(s *state) { s.cullMode = mode })
}

// WritesToDepthBuffer reports whether depth writes are enabled.
func (m *Material) WritesToDepthBuffer() bool {
	return m.read().writesDepth
}

// SetWritesToDepthBuffer toggles depth writes. Takes effect immediately.
func (m *Material) SetWritesToDepthBuffer(v bool) {
	m.set(func(s *state) { s.writesDepth = v })
}

// ReadsFromDepthBuffer reports whether depth testing is enabled.
func (m *Material) ReadsFromDepthBuffer() bool {
	return m.read().readsDepth
}

// SetReadsFromDepthBuffer toggles depth testing. Takes effect immediately.
func (m *Material) SetReadsFromDepthBuffer(v bool) {
	m.set(func(s *state) { s.readsDepth = v })
}

// ShaderKey returns the shader identity of the incoming state.
func (m *Material) ShaderKey() ShaderKey {
	s := m.read()
	return s.shaderKey()
}

// IsTransparent reports whether the incoming state needs blending.
func (m *Material) IsTransparent() bool {
	s := m.read()
	return s.transparent()
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
