// Package config handles engine configuration loading and management.
package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Config holds all engine settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Render    RenderConfig    `yaml:"render"`
	Animation AnimationConfig `yaml:"animation"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds display settings for the viewer.
type WindowConfig struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// RenderConfig holds render queue settings.
type RenderConfig struct {
	ThreadChecks   bool `yaml:"thread_checks"`    // assert render-thread affinity
	DebugSortOrder bool `yaml:"debug_sort_order"` // log every key on build and draw
	MaxLights      int  `yaml:"max_lights"`       // lights bound per drawable
	ClearStencil   bool `yaml:"clear_stencil"`    // run the portal stencil pass each frame

	// FloorTexture is an image file for the showcase floor; empty uses a
	// generated checkerboard.
	FloorTexture string `yaml:"floor_texture"`
}

// AnimationConfig holds timeline defaults.
type AnimationConfig struct {
	MaterialFade    time.Duration `yaml:"material_fade"`
	DefaultDuration time.Duration `yaml:"default_duration"`
	DefaultEasing   string        `yaml:"default_easing"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:         "scenecore viewer",
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			ScreenshotDir: "screenshots",
		},
		Render: RenderConfig{
			ThreadChecks:   true,
			DebugSortOrder: false,
			MaxLights:      8,
			ClearStencil:   true,
		},
		Animation: AnimationConfig{
			MaterialFade:    300 * time.Millisecond,
			DefaultDuration: 500 * time.Millisecond,
			DefaultEasing:   "linear",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every out-of-range setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Render.MaxLights < 1 || c.Render.MaxLights > 64 {
		err = multierr.Append(err, fmt.Errorf("render.max_lights %d out of range [1, 64]", c.Render.MaxLights))
	}
	if c.Animation.MaterialFade < 0 {
		err = multierr.Append(err, fmt.Errorf("animation.material_fade %v is negative", c.Animation.MaterialFade))
	}
	if c.Animation.DefaultDuration < 0 {
		err = multierr.Append(err, fmt.Errorf("animation.default_duration %v is negative", c.Animation.DefaultDuration))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	return err
}
