// Package config handles sprite demo configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/spritebatch/pkg/sprite"
)

// Renderer backend names.
const (
	BackendOpenGL   = "opengl"
	BackendEbiten   = "ebiten"
	BackendHeadless = "headless"
)

// Instance store growth modes.
const (
	GrowthDouble = "double"
	GrowthFixed  = "fixed"
)

// Config holds all demo settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Logging  LoggingConfig  `yaml:"logging"`
	Demo     DemoConfig     `yaml:"demo"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RendererConfig holds sprite batching settings.
type RendererConfig struct {
	Backend          string `yaml:"backend"`
	InstanceCapacity int    `yaml:"instance_capacity"`
	CommandCapacity  int    `yaml:"command_capacity"`
	Growth           string `yaml:"growth"`
	GrowthStep       int    `yaml:"growth_step"`
	Culling          bool   `yaml:"culling"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DemoConfig holds settings of the demo scene.
type DemoConfig struct {
	Sprites    int    `yaml:"sprites"`
	SpritePath string `yaml:"sprite_path"` // empty draws a generated sheet
	Frames     int    `yaml:"frames"`      // 0 runs until the window closes
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Sprite Batch",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Renderer: RendererConfig{
			Backend:          BackendOpenGL,
			InstanceCapacity: sprite.DefaultInstanceCapacity,
			CommandCapacity:  sprite.DefaultCommandCapacity,
			Growth:           GrowthDouble,
			GrowthStep:       10000,
			Culling:          true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Demo: DemoConfig{
			Sprites: 2000,
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	switch c.Renderer.Backend {
	case BackendOpenGL, BackendEbiten, BackendHeadless:
	default:
		return fmt.Errorf("unknown renderer backend %q", c.Renderer.Backend)
	}
	switch c.Renderer.Growth {
	case GrowthDouble:
	case GrowthFixed:
		if c.Renderer.GrowthStep <= 0 {
			return fmt.Errorf("growth step %d must be positive", c.Renderer.GrowthStep)
		}
	default:
		return fmt.Errorf("unknown growth mode %q", c.Renderer.Growth)
	}
	if c.Renderer.InstanceCapacity < 0 || c.Renderer.CommandCapacity < 0 {
		return fmt.Errorf("renderer capacities must not be negative")
	}
	if c.Demo.Sprites < 0 || c.Demo.Frames < 0 {
		return fmt.Errorf("demo sprites and frames must not be negative")
	}
	return nil
}

// Options converts the renderer settings into sprite options.
func (r RendererConfig) Options() []sprite.Option {
	growth := sprite.DoubleGrowth()
	if r.Growth == GrowthFixed {
		growth = sprite.FixedGrowth(r.GrowthStep)
	}
	return []sprite.Option{
		sprite.WithInstanceCapacity(r.InstanceCapacity),
		sprite.WithCommandCapacity(r.CommandCapacity),
		sprite.WithGrowth(growth),
		sprite.WithCulling(r.Culling),
	}
}
