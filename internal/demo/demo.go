// Package demo builds the showcase scene shared by the viewer and the
// headless sort dump, and the actions the viewer binds to keys.
package demo

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/scenecore/internal/engine/animation"
	"github.com/Faultbox/scenecore/internal/engine/lighting"
	"github.com/Faultbox/scenecore/internal/engine/material"
	"github.com/Faultbox/scenecore/internal/engine/picking"
	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/internal/logger"
	"github.com/Faultbox/scenecore/pkg/math"
)

// Light masks used by the showcase. Boxes receive both, the ground only
// the sun.
const (
	MaskSun  uint64 = 1 << 0
	MaskLamp uint64 = 1 << 1
)

// PortalBits is the stencil reference of the portal box.
const PortalBits uint32 = 1

// GlassTransparency is the glass material's see-through setting.
const GlassTransparency float32 = 0.4

var palette = [][4]float32{
	{0.85, 0.20, 0.20, 1},
	{0.20, 0.70, 0.30, 1},
	{0.25, 0.40, 0.90, 1},
	{0.90, 0.75, 0.20, 1},
}

// Showcase is the demo scene and the parts the actions touch.
type Showcase struct {
	Scene *scene.Scene

	Ground *scene.Node
	Boxes  []*scene.Node
	Portal *scene.Node

	Floor *material.Material
	Solid *material.Material
	Glass *material.Material
	Neon  *material.Material

	Sun  *scene.Light
	Lamp *scene.Light

	color  int
	raised map[scene.Handle]bool
	faded  map[scene.Handle]bool
}

// New builds the showcase: a ground plane, a row of boxes in solid, glass
// and neon materials, a box drawn through the portal stencil, a sun placed
// at the given longitude and latitude in degrees, and an omni lamp.
func New(sunLongitude, sunLatitude float32) *Showcase {
	s := &Showcase{
		Scene:  scene.New(),
		raised: make(map[scene.Handle]bool),
		faded:  make(map[scene.Handle]bool),
	}

	s.Floor = material.New()
	s.Floor.SetName("floor")
	s.Floor.SetLightingModel(material.Lambert)
	s.Floor.SetDiffuseColor(0.45, 0.45, 0.42, 1)

	s.Solid = material.New()
	s.Solid.SetName("solid")
	s.Solid.SetLightingModel(material.Blinn)
	s.Solid.SetShininess(32)
	c := palette[0]
	s.Solid.SetDiffuseColor(c[0], c[1], c[2], c[3])

	s.Glass = material.New()
	s.Glass.SetName("glass")
	s.Glass.SetLightingModel(material.Phong)
	s.Glass.SetLitPerPixel(true)
	s.Glass.SetDiffuseColor(0.6, 0.8, 1.0, 1)
	s.Glass.SetTransparency(GlassTransparency)
	s.Glass.SetWritesToDepthBuffer(false)

	s.Neon = material.New()
	s.Neon.SetName("neon")
	s.Neon.SetLightingModel(material.Constant)
	s.Neon.SetVisual(material.Emission, material.ColorVisual(1.0, 0.2, 0.9, 1))

	s.Ground = s.Scene.NewNode("ground", nil)
	s.Ground.SetGeometry(scene.NewPlane("ground", 40, 40, s.Floor))
	s.Ground.SetLightReceivingMask(MaskSun)

	mats := []*material.Material{s.Solid, s.Glass, s.Neon}
	for i, m := range mats {
		box := s.Scene.NewNode("box", nil)
		box.SetGeometry(scene.NewBox("box", 1, 1, 1, m))
		box.SetPosition(math.Vec3{X: float32(i-1) * 2.5, Y: 0.5})
		box.SetLightReceivingMask(MaskSun | MaskLamp)
		s.Boxes = append(s.Boxes, box)
	}

	// Small child riding on the solid box, inheriting its transform.
	top := s.Scene.NewNode("cap", s.Boxes[0])
	top.SetGeometry(scene.NewBox("cap", 0.4, 0.4, 0.4, s.Neon))
	top.SetPosition(math.Vec3{Y: 0.7})

	s.Portal = s.Scene.NewNode("portal", nil)
	s.Portal.SetGeometry(scene.NewBox("portal", 0.8, 2, 0.1, s.Solid, s.Glass))
	s.Portal.SetPosition(math.Vec3{Z: -3, Y: 1})
	s.Portal.SetPortalStencilBits(PortalBits)
	s.Portal.SetLightReceivingMask(MaskSun | MaskLamp)

	ambient := scene.NewLight(scene.LightAmbient)
	ambient.Intensity = 0.2
	ambient.InfluenceMask = MaskSun | MaskLamp
	s.Scene.AddLight(ambient)

	s.Sun = scene.NewLight(scene.LightDirectional)
	s.Sun.Direction = lighting.SunDirection(sunLongitude, sunLatitude)
	s.Sun.Color = [3]float32{1.0, 0.95, 0.85}
	s.Sun.InfluenceMask = MaskSun
	s.Scene.AddLight(s.Sun)

	s.Lamp = scene.NewLight(scene.LightOmni)
	s.Lamp.Position = math.Vec3{Y: 3, Z: 2}
	s.Lamp.Color = [3]float32{1.0, 0.6, 0.3}
	s.Lamp.AttenuationEnd = 12
	s.Lamp.InfluenceMask = MaskLamp
	s.Scene.AddLight(s.Lamp)

	return s
}

// Bounds returns the center and radius the camera frames.
func (s *Showcase) Bounds() (math.Vec3, float32) {
	return math.Vec3{Y: 0.5}, 5
}

// ToggleGlass flips the glass between see-through and opaque. Once the
// glass has been drawn the change fades over the material's fade duration.
func (s *Showcase) ToggleGlass() {
	if s.Glass.Transparency() < 1 {
		s.Glass.SetTransparency(1)
	} else {
		s.Glass.SetTransparency(GlassTransparency)
	}
	logger.Debug("demo: glass toggled", zap.Float32("transparency", s.Glass.Transparency()))
}

// CycleColor moves the solid material to the next palette color.
func (s *Showcase) CycleColor() {
	s.color = (s.color + 1) % len(palette)
	c := palette[s.color]
	s.Solid.SetDiffuseColor(c[0], c[1], c[2], c[3])
}

// Bounce lifts box i, or drops it back if it is up. It returns nil when
// the box is gone.
func (s *Showcase) Bounce(an *animation.Animator, i int) *animation.NodeAnimation {
	box, ok := s.box(i)
	if !ok {
		return nil
	}
	h := box.Handle()
	to := box.Position()
	if s.raised[h] {
		to.Y = 0.5
	} else {
		to.Y = 2
	}
	s.raised[h] = !s.raised[h]

	anim := animation.Bind(an.New(-1, animation.MoveTo(to)), box)
	anim.Execute(nil)
	return anim
}

// Spin turns box i a quarter turn around the vertical axis.
func (s *Showcase) Spin(an *animation.Animator, i int) *animation.NodeAnimation {
	box, ok := s.box(i)
	if !ok {
		return nil
	}
	quarter := math.QuatFromAxisAngle(math.Vec3{Y: 1}, gomath.Pi/2)
	to := box.Rotation().Mul(quarter)

	anim := animation.Bind(an.New(1, animation.RotateTo(to)), box)
	anim.Execute(nil)
	return anim
}

// FadeBox toggles box i between opaque and mostly faded out by animating
// its node opacity.
func (s *Showcase) FadeBox(an *animation.Animator, i int) *animation.NodeAnimation {
	box, ok := s.box(i)
	if !ok {
		return nil
	}
	h := box.Handle()
	to := float32(0.25)
	if s.faded[h] {
		to = 1
	}
	s.faded[h] = !s.faded[h]

	anim := animation.Bind(an.New(-1, animation.OpacityTo(to)), box)
	anim.Execute(nil)
	return anim
}

// Remove destroys box i. Animations still bound to it become no-ops.
func (s *Showcase) Remove(i int) bool {
	box, ok := s.box(i)
	if !ok {
		return false
	}
	delete(s.raised, box.Handle())
	delete(s.faded, box.Handle())
	return s.Scene.Destroy(box)
}

// BoxAt returns the index of the nearest box the ray hits.
func (s *Showcase) BoxAt(r picking.Ray) (int, bool) {
	hit, _, ok := picking.Pick(r, s.Boxes)
	if !ok {
		return 0, false
	}
	for i, b := range s.Boxes {
		if b == hit {
			return i, true
		}
	}
	return 0, false
}

func (s *Showcase) box(i int) (*scene.Node, bool) {
	if i < 0 || i >= len(s.Boxes) {
		return nil, false
	}
	box := s.Boxes[i]
	if !box.Alive() {
		return nil, false
	}
	return box, true
}
