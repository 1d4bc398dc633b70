// Package viewer runs the interactive showcase: window, input, animation
// clock and render queue driven from one pinned goroutine.
package viewer

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/scenecore/internal/config"
	"github.com/Faultbox/scenecore/internal/demo"
	"github.com/Faultbox/scenecore/internal/engine/affinity"
	"github.com/Faultbox/scenecore/internal/engine/animation"
	"github.com/Faultbox/scenecore/internal/engine/camera"
	"github.com/Faultbox/scenecore/internal/engine/debug"
	"github.com/Faultbox/scenecore/internal/engine/gldriver"
	"github.com/Faultbox/scenecore/internal/engine/input"
	"github.com/Faultbox/scenecore/internal/engine/material"
	"github.com/Faultbox/scenecore/internal/engine/picking"
	"github.com/Faultbox/scenecore/internal/engine/render"
	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/internal/engine/texture"
	"github.com/Faultbox/scenecore/internal/engine/timeline"
	"github.com/Faultbox/scenecore/internal/engine/window"
	"github.com/Faultbox/scenecore/internal/logger"
)

// Sun placement of the showcase, in degrees.
const (
	sunLongitude = 45
	sunLatitude  = 35
)

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	running bool

	window *window.Window
	driver *gldriver.Driver
	input  *input.Input
	camera *camera.OrbitCamera

	animator  *animation.Animator
	queue     *render.Queue
	show      *demo.Showcase
	drawables []scene.Drawable

	screenshots *debug.Screenshots
	capture     bool

	selected int
	frame    uint64
}

// New creates the window, GL driver and showcase scene. It must be called
// on the goroutine that will call Run.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	easing, err := timeline.EasingByName(cfg.Animation.DefaultEasing)
	if err != nil {
		return nil, fmt.Errorf("animation.default_easing: %w", err)
	}
	material.DefaultFadeDuration = float32(cfg.Animation.MaterialFade.Seconds())

	v := &Viewer{cfg: cfg}

	// Window first: the driver needs a current GL context.
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := v.window.DrawableSize()
	v.driver, err = gldriver.New(gldriver.Config{
		Width:      w,
		Height:     h,
		ClearColor: [4]float32{0.1, 0.1, 0.15, 1},
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create GL driver: %w", err)
	}

	owner := affinity.New("render", cfg.Render.ThreadChecks)
	v.animator = animation.NewAnimator(owner)
	v.animator.SetDefaults(float32(cfg.Animation.DefaultDuration.Seconds()), easing)
	v.queue = render.NewQueue(owner, v.animator.Clock())
	v.queue.SetDebugSortOrder(cfg.Render.DebugSortOrder)

	v.show = demo.New(sunLongitude, sunLatitude)
	v.show.Scene.SetMaxLights(cfg.Render.MaxLights)
	if err := v.loadFloorTexture(); err != nil {
		logger.Warn("floor texture unavailable, using flat color", zap.Error(err))
	}
	v.screenshots = debug.NewScreenshots(cfg.Window.ScreenshotDir, "scenecore")

	v.camera = camera.NewOrbitCamera()
	v.camera.Fit(v.show.Bounds())

	v.input = input.New()

	logger.Info("viewer initialized")
	return v, nil
}

// Run starts the main loop and returns when the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var stats render.Stats

	logger.Info("starting render loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleInput(dt)

		v.animator.Tick(dt)

		stats = v.render()
		if err := gldriver.CheckError(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if v.capture {
			v.capture = false
			v.saveScreenshot()
		}

		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if logger.DebugEnabled() {
				logger.Debug("frame stats",
					zap.Int("fps", frameCount),
					zap.Int("keys", stats.Keys),
					zap.Int("excluded", stats.Excluded),
					zap.Int("draws", stats.Draws),
					zap.Int("shader_binds", stats.ShaderBinds),
					zap.Int("light_binds", stats.LightBinds),
					zap.Int("material_binds", stats.MaterialBinds),
					zap.Int("animations", v.animator.Running()),
				)
			}
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close releases GL resources and the window.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.driver != nil {
		if err := v.driver.Close(); err != nil {
			logger.Warn("GL driver closed with errors", zap.Error(err))
		}
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) handleInput(dt float32) {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			v.driver.Resize(v.window.DrawableSize())
		case input.EventKeyDown:
			if !e.Repeat {
				v.handleKey(e.Key)
			}
		case input.EventMouseDown:
			if e.Button == sdl.BUTTON_LEFT {
				v.selectAt(e.MouseX, e.MouseY)
			}
		}
	}

	if dx, dy := v.input.Drag(sdl.BUTTON_RIGHT); dx != 0 || dy != 0 {
		v.camera.HandleDrag(float32(dx), float32(dy))
	}
	if wheel := v.input.Wheel(); wheel != 0 {
		v.camera.HandleZoom(float32(wheel))
	}

	var forward, right, up float32
	if v.input.IsKeyHeld(sdl.SCANCODE_W) {
		forward++
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_S) {
		forward--
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_D) {
		right++
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_A) {
		right--
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_E) {
		up++
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_Q) {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		// HandleMovement is tuned per 60Hz frame
		scale := dt * 60
		v.camera.HandleMovement(forward*scale, right*scale, up*scale)
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_1, sdl.SCANCODE_2, sdl.SCANCODE_3:
		v.selected = int(key - sdl.SCANCODE_1)
		logger.Debug("box selected", zap.Int("box", v.selected))
	case sdl.SCANCODE_B:
		v.show.Bounce(v.animator, v.selected)
	case sdl.SCANCODE_R:
		v.show.Spin(v.animator, v.selected)
	case sdl.SCANCODE_F:
		v.show.FadeBox(v.animator, v.selected)
	case sdl.SCANCODE_DELETE, sdl.SCANCODE_BACKSPACE:
		if v.show.Remove(v.selected) {
			logger.Info("box removed", zap.Int("box", v.selected))
		}
	case sdl.SCANCODE_G:
		v.show.ToggleGlass()
	case sdl.SCANCODE_C:
		v.show.CycleColor()
	case sdl.SCANCODE_O:
		v.cfg.Render.DebugSortOrder = !v.cfg.Render.DebugSortOrder
		v.queue.SetDebugSortOrder(v.cfg.Render.DebugSortOrder)
	case sdl.SCANCODE_HOME:
		v.camera.Fit(v.show.Bounds())
	case sdl.SCANCODE_F12:
		v.capture = true
	}
}

// selectAt selects the box under the cursor, given in window points.
func (v *Viewer) selectAt(x, y int) {
	w, h := v.window.GetSize()
	if h == 0 {
		return
	}
	proj := v.camera.Projection(float32(w) / float32(h))
	ray, ok := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), v.camera.ViewMatrix(), proj)
	if !ok {
		return
	}
	if i, ok := v.show.BoxAt(ray); ok {
		v.selected = i
		logger.Debug("box picked", zap.Int("box", i))
	}
}

// loadFloorTexture puts the configured image, or a checkerboard, on the
// showcase floor. It runs before the first frame, so no fade is started.
func (v *Viewer) loadFloorTexture() error {
	var img image.Image = texture.Checker(256, 8,
		color.RGBA{R: 140, G: 140, B: 130, A: 255},
		color.RGBA{R: 90, G: 90, B: 84, A: 255},
	)
	if path := v.cfg.Render.FloorTexture; path != "" {
		loaded, err := texture.Load(path)
		if err != nil {
			return err
		}
		img = loaded
	}
	id, err := v.driver.UploadTexture(img)
	if err != nil {
		return err
	}
	v.show.Floor.SetVisual(material.Diffuse, material.TextureVisual(id))
	return nil
}

func (v *Viewer) saveScreenshot() {
	pixels, w, h := v.driver.ReadPixels()
	path, err := v.screenshots.SavePixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func (v *Viewer) render() render.Stats {
	v.frame++
	w, h := v.window.DrawableSize()
	aspect := float32(1)
	if h > 0 {
		aspect = float32(w) / float32(h)
	}
	ctx := render.Context{
		Eye:        v.camera.Position(),
		View:       v.camera.ViewMatrix(),
		Projection: v.camera.Projection(aspect),
		Frame:      v.frame,
	}

	v.drawables = v.show.Scene.Collect(v.drawables[:0])
	v.queue.Build(ctx, v.drawables)

	v.driver.Begin()
	if v.cfg.Render.ClearStencil {
		v.queue.RenderStencil(ctx, v.driver)
	}
	return v.queue.Execute(ctx, v.driver)
}
