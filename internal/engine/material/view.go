package material

// Variant tags which state of a material a View exposes.
type Variant uint8

const (
	Incoming Variant = iota // current state
	Outgoing                // fading snapshot of the previous state
)

func (v Variant) String() string {
	if v == Outgoing {
		return "outgoing"
	}
	return "incoming"
}

// View is a read-only, frame-stable copy of one material variant together
// with the blend weight it is drawn at. Drivers bind from Views only.
type View struct {
	material *Material
	variant  Variant
	id       uint32
	opacity  float32
	s        state
}

// Incoming returns the current state. During a fade its weight rises as the
// outgoing opacity falls; otherwise it is 1.
func (m *Material) Incoming() View {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.checkLocked()
	return m.incomingLocked()
}

// Outgoing returns the fading snapshot, if any.
func (m *Material) Outgoing() (View, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.checkLocked()
	return m.outgoingLocked()
}

// Variants appends the drawable variants of m to dst: always the incoming
// state, plus the outgoing snapshot while it fades. Both are read under one
// lock so their weights sum to 1.
func (m *Material) Variants(dst []View) []View {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.checkLocked()
	dst = append(dst, m.incomingLocked())
	if out, ok := m.outgoingLocked(); ok {
		dst = append(dst, out)
	}
	return dst
}

func (m *Material) incomingLocked() View {
	w := float32(1)
	if m.hasOutgoing {
		w = 1 - m.outgoingOpacity
	}
	return View{material: m, variant: Incoming, id: m.id, opacity: w, s: m.cur}
}

func (m *Material) outgoingLocked() (View, bool) {
	if !m.hasOutgoing {
		return View{}, false
	}
	return View{material: m, variant: Outgoing, id: m.outgoingID, opacity: m.outgoingOpacity, s: m.outgoing}, true
}

// View returns the requested variant. ok is false for Outgoing when no
// snapshot exists.
func (m *Material) View(v Variant) (View, bool) {
	switch v {
	case Incoming:
		return m.Incoming(), true
	case Outgoing:
		return m.Outgoing()
	}
	return View{}, false
}

// Valid reports whether the view was obtained from a material.
func (v View) Valid() bool { return v.material != nil }

// Material returns the material the view was taken from.
func (v View) Material() *Material { return v.material }

// Variant returns which state the view exposes.
func (v View) Variant() Variant { return v.variant }

// ID returns the identity of this variant. Outgoing snapshots have their own
// id so property binds distinguish them from the incoming state.
func (v View) ID() uint32 { return v.id }

// Opacity returns the blend weight the variant is drawn at.
func (v View) Opacity() float32 { return v.opacity }

// Visual returns a channel.
func (v View) Visual(c Channel) Visual { return v.s.visuals[c] }

// Shininess returns the specular sharpness.
func (v View) Shininess() float32 { return v.s.shininess }

// FresnelExponent returns the reflectivity falloff.
func (v View) FresnelExponent() float32 { return v.s.fresnelExponent }

// Transparency returns the uniform transparency.
func (v View) Transparency() float32 { return v.s.transparency }

// TransparencyMode returns the transparency mode.
func (v View) TransparencyMode() TransparencyMode { return v.s.transparencyMode }

// LightingModel returns the lighting model.
func (v View) LightingModel() LightingModel { return v.s.lightingModel }

// LitPerPixel reports per-pixel lighting.
func (v View) LitPerPixel() bool { return v.s.litPerPixel }

// BlendMode returns the blend mode.
func (v View) BlendMode() BlendMode { return v.s.blendMode }

// CullMode returns the cull mode.
func (v View) CullMode() CullMode { return v.s.cullMode }

// WritesToDepthBuffer reports depth writes.
func (v View) WritesToDepthBuffer() bool { return v.s.writesDepth }

// ReadsFromDepthBuffer reports depth testing.
func (v View) ReadsFromDepthBuffer() bool { return v.s.readsDepth }

// ShaderKey returns the shader identity.
func (v View) ShaderKey() ShaderKey { return v.s.shaderKey() }

// EffectiveTransparency combines uniform transparency with the blend weight.
func (v View) EffectiveTransparency() float32 { return v.s.transparency * v.opacity }

// IsTransparent reports whether this variant must be drawn in the blended
// pass: transparent state, or a partial blend weight during a fade.
func (v View) IsTransparent() bool {
	return v.s.transparent() || v.opacity < 1
}
