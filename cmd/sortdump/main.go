// Package main runs the showcase scene headlessly and logs the sorted
// render keys and driver calls of each frame.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/scenecore/internal/config"
	"github.com/Faultbox/scenecore/internal/demo"
	"github.com/Faultbox/scenecore/internal/engine/affinity"
	"github.com/Faultbox/scenecore/internal/engine/animation"
	"github.com/Faultbox/scenecore/internal/engine/camera"
	"github.com/Faultbox/scenecore/internal/engine/material"
	"github.com/Faultbox/scenecore/internal/engine/render"
	"github.com/Faultbox/scenecore/internal/engine/render/rendertest"
	"github.com/Faultbox/scenecore/internal/engine/scene"
	"github.com/Faultbox/scenecore/internal/engine/timeline"
	"github.com/Faultbox/scenecore/internal/logger"
)

var (
	flagFrames = flag.Int("frames", 4, "Number of frames to run")
	flagDT     = flag.Float64("dt", 1.0/60, "Seconds advanced per frame")
	flagToggle = flag.Int("toggle-glass", 1, "Frame at which the glass material changes (-1 to skip)")
	flagBounce = flag.Int("bounce", -1, "Frame at which box 1 starts bouncing (-1 to skip)")
	flagCalls  = flag.Bool("calls", false, "Log every driver call")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("sortdump failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	easing, err := timeline.EasingByName(cfg.Animation.DefaultEasing)
	if err != nil {
		return fmt.Errorf("animation.default_easing: %w", err)
	}
	material.DefaultFadeDuration = float32(cfg.Animation.MaterialFade.Seconds())

	owner := affinity.New("sortdump", cfg.Render.ThreadChecks)
	animator := animation.NewAnimator(owner)
	animator.SetDefaults(float32(cfg.Animation.DefaultDuration.Seconds()), easing)
	queue := render.NewQueue(owner, animator.Clock())
	queue.SetDebugSortOrder(cfg.Render.DebugSortOrder)

	show := demo.New(45, 35)
	show.Scene.SetMaxLights(cfg.Render.MaxLights)

	cam := camera.NewOrbitCamera()
	cam.Fit(show.Bounds())
	ctx := render.Context{
		Eye:        cam.Position(),
		View:       cam.ViewMatrix(),
		Projection: cam.Projection(16.0 / 9.0),
	}

	rec := &rendertest.Recorder{}
	var drawables []scene.Drawable

	for frame := 0; frame < *flagFrames; frame++ {
		if frame == *flagToggle {
			show.ToggleGlass()
		}
		if frame == *flagBounce {
			show.Bounce(animator, 1)
		}
		if frame > 0 {
			animator.Tick(float32(*flagDT))
		}

		ctx.Frame = uint64(frame)
		drawables = show.Scene.Collect(drawables[:0])
		queue.Build(ctx, drawables)

		rec.Reset()
		if cfg.Render.ClearStencil {
			queue.RenderStencil(ctx, rec)
		}
		st := queue.Execute(ctx, rec)

		logger.Info("frame",
			zap.Int("frame", frame),
			zap.Int("drawables", len(drawables)),
			zap.Int("keys", st.Keys),
			zap.Int("excluded", st.Excluded),
			zap.Int("skipped", st.Skipped),
			zap.Int("draws", st.Draws),
			zap.Int("shader_binds", st.ShaderBinds),
			zap.Int("light_binds", st.LightBinds),
			zap.Int("material_binds", st.MaterialBinds),
			zap.Float32("furthest", queue.FurthestDistance()),
		)
		for i, k := range queue.Keys() {
			logger.Info("key", zap.Int("frame", frame), zap.Int("index", i), zap.Stringer("key", k))
		}
		if *flagCalls {
			for _, c := range rec.Calls {
				logger.Info("call", zap.Int("frame", frame), zap.Stringer("call", c))
			}
		}
	}
	return nil
}
