// Package material holds the visual state of a surface and the cross-fade
// between a material's previous (outgoing) and current (incoming) state.
//
// When a visual property changes on a material that is already live, the
// pre-change state is kept as an outgoing snapshot whose opacity fades from
// 1 to 0 on the render clock. While the snapshot exists the renderer draws
// both variants; the incoming state is always what getters report.
package material

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/scenecore/internal/engine/timeline"
	"github.com/Faultbox/scenecore/internal/logger"
)

// DefaultFadeDuration is the outgoing fade length, in seconds, given to new
// materials.
var DefaultFadeDuration float32 = 0.3

var lastID atomic.Uint32

func nextID() uint32 {
	return lastID.Add(1)
}

// state is the full visual configuration of a material. It is a plain value
// so snapshots are copies with no shared mutable parts.
type state struct {
	visuals          [NumChannels]Visual
	shininess        float32
	fresnelExponent  float32
	transparency     float32
	transparencyMode TransparencyMode
	lightingModel    LightingModel
	litPerPixel      bool
	blendMode        BlendMode
	cullMode         CullMode
	writesDepth      bool
	readsDepth       bool
}

func defaultState() state {
	s := state{
		shininess:       2,
		fresnelExponent: 1,
		transparency:    1,
		lightingModel:   Blinn,
		litPerPixel:     true,
		blendMode:       BlendAlpha,
		cullMode:        CullBack,
		writesDepth:     true,
		readsDepth:      true,
	}
	for c := range s.visuals {
		s.visuals[c] = ColorVisual(0, 0, 0, 1)
	}
	s.visuals[Diffuse] = ColorVisual(1, 1, 1, 1)
	s.visuals[Multiply] = ColorVisual(1, 1, 1, 1)
	s.visuals[AmbientOcclusion] = ColorVisual(1, 1, 1, 1)
	return s
}

func (s *state) shaderKey() ShaderKey {
	k := ShaderKey(s.lightingModel) & shaderKeyModelBits
	if s.litPerPixel {
		k |= shaderKeyPerPixelBit
	}
	if s.transparencyMode == TransparencyRGBZero {
		k |= shaderKeyRGBZeroBit
	}
	for c, v := range s.visuals {
		if v.HasTexture() {
			k |= 1 << (shaderKeyTexShift + uint(c))
		}
	}
	return k
}

func (s *state) transparent() bool {
	return s.transparency < 1 ||
		s.visuals[Diffuse].Color[3] < 1 ||
		s.visuals[Transparent].HasTexture()
}

// Material is the visual record for one surface.
// Getters may be called from any goroutine; setters belong on the render
// goroutine together with the clock the material fades on.
type Material struct {
	mu   sync.RWMutex
	id   uint32
	name string
	cur  state

	// Outgoing snapshot. Valid only while hasOutgoing is set.
	outgoing        state
	outgoingID      uint32
	outgoingOpacity float32
	hasOutgoing     bool

	clock        *timeline.Clock
	fade         *timeline.Timeline
	fadeGen      uint64
	fadeDuration float32
}

// New creates a material with default settings: white diffuse, Blinn
// lighting, opaque, back-face culling, depth read and write enabled.
func New() *Material {
	return &Material{
		id:           nextID(),
		cur:          defaultState(),
		fadeDuration: DefaultFadeDuration,
	}
}

// Copy returns a new material with the same visual state and a fresh
// identity. The copy is not live and carries no outgoing snapshot.
func (m *Material) Copy() *Material {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &Material{
		id:           nextID(),
		name:         m.name,
		cur:          m.cur,
		fadeDuration: m.fadeDuration,
	}
}

// ID returns the material's identity.
func (m *Material) ID() uint32 {
	return m.id
}

// MarkLive binds the material to the render clock. From then on visual
// changes cross-fade. Calling it again with the same clock is cheap.
func (m *Material) MarkLive(c *timeline.Clock) {
	if c == nil {
		return
	}
	m.mu.Lock()
	m.clock = c
	m.mu.Unlock()
}

// Live reports whether the material has been bound for rendering.
func (m *Material) Live() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clock != nil
}

// SetFadeDuration sets the outgoing fade length for future transitions.
func (m *Material) SetFadeDuration(seconds float32) {
	if seconds < 0 {
		seconds = 0
	}
	m.mu.Lock()
	m.fadeDuration = seconds
	m.mu.Unlock()
}

// FadeDuration returns the outgoing fade length in seconds.
func (m *Material) FadeDuration() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fadeDuration
}

// BeginTransition snapshots the current state as the outgoing variant at
// full opacity and starts fading it out. Any earlier snapshot is replaced.
// Returns false, doing nothing, when the material is not live.
func (m *Material) BeginTransition() bool {
	m.mu.Lock()
	if m.clock == nil {
		m.mu.Unlock()
		return false
	}
	fade := m.captureLocked(m.cur)
	m.mu.Unlock()

	m.startFade(fade)
	return true
}

// captureLocked installs prev as the outgoing snapshot and prepares the fade
// timeline. The caller starts the returned timeline after unlocking.
func (m *Material) captureLocked(prev state) *timeline.Timeline {
	if m.fade != nil {
		// Transitions do not chain. The old fade has no completion hook, so
		// finishing it here cannot re-enter the lock.
		m.fade.Finish(false)
	}
	m.fadeGen++
	gen := m.fadeGen

	m.outgoing = prev
	m.outgoingID = nextID()
	m.outgoingOpacity = 1
	m.hasOutgoing = true

	m.fade = timeline.New(m.fadeDuration, nil, func(p float32) {
		m.setOutgoingOpacity(gen, 1-p)
	})

	logger.Debug("material transition started",
		zap.Uint32("material", m.id),
		zap.Uint32("outgoing", m.outgoingID),
		zap.Float32("fade", m.fadeDuration),
	)
	return m.fade
}

func (m *Material) startFade(fade *timeline.Timeline) {
	m.mu.RLock()
	c := m.clock
	m.mu.RUnlock()
	fade.Start(c, nil)
}

// setOutgoingOpacity is the fade timeline's update hook. Reaching zero
// releases the snapshot.
func (m *Material) setOutgoingOpacity(gen uint64, opacity float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.fadeGen || !m.hasOutgoing {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	if opacity <= 0 {
		m.releaseOutgoingLocked()
		return
	}
	m.outgoingOpacity = opacity
}

func (m *Material) releaseOutgoingLocked() {
	logger.Debug("material transition finished",
		zap.Uint32("material", m.id),
		zap.Uint32("outgoing", m.outgoingID),
	)
	m.outgoing = state{}
	m.outgoingID = 0
	m.outgoingOpacity = 0
	m.hasOutgoing = false
	m.fade = nil
}

// HasOutgoing reports whether an outgoing snapshot is fading out.
func (m *Material) HasOutgoing() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.checkLocked()
	return m.hasOutgoing
}

// OutgoingOpacity returns the opacity of the outgoing snapshot, 0 when
// there is none.
func (m *Material) OutgoingOpacity() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.checkLocked()
	return m.outgoingOpacity
}

// checkLocked panics when the outgoing bookkeeping is inconsistent.
func (m *Material) checkLocked() {
	if m.hasOutgoing {
		if m.outgoingOpacity <= 0 || m.outgoingOpacity > 1 || m.outgoingID == 0 || m.fade == nil {
			panic("material: outgoing snapshot present with invalid opacity, id or fade")
		}
		return
	}
	if m.outgoingOpacity != 0 || m.outgoingID != 0 {
		panic("material: outgoing opacity set without a snapshot")
	}
}

// update applies fn to the current state. On a live material a visible
// change captures the pre-change state as the outgoing snapshot.
func (m *Material) update(fn func(s *state)) {
	m.mu.Lock()
	prev := m.cur
	fn(&m.cur)
	if m.cur == prev || m.clock == nil {
		m.mu.Unlock()
		return
	}
	fade := m.captureLocked(prev)
	m.mu.Unlock()

	m.startFade(fade)
}

// set applies fn to the current state without a transition.
func (m *Material) set(fn func(s *state)) {
	m.mu.Lock()
	fn(&m.cur)
	m.mu.Unlock()
}

func (m *Material) read() state {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}
