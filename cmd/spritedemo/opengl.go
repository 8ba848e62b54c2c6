package main

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/spritebatch/internal/assets"
	"github.com/Faultbox/spritebatch/internal/backend/opengl"
	"github.com/Faultbox/spritebatch/internal/config"
	"github.com/Faultbox/spritebatch/internal/demo"
	"github.com/Faultbox/spritebatch/internal/engine/debug"
	"github.com/Faultbox/spritebatch/internal/engine/input"
	"github.com/Faultbox/spritebatch/internal/engine/window"
	"github.com/Faultbox/spritebatch/internal/logger"
	"github.com/Faultbox/spritebatch/pkg/sprite"
)

// runOpenGL drives the scene from an SDL window with an OpenGL context.
func runOpenGL(cfg *config.Config, sheet assets.Sheet) error {
	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, logger.Named("window"))
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	// The backend needs the GL context the window just made current.
	backend, err := opengl.New(win.DrawableSize(), logger.Named("opengl"))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer backend.Close()

	g := sprite.New(backend, append(cfg.Renderer.Options(), sprite.WithLogger(logger.Named("sprite")))...)
	scene, err := demo.NewScene(g, sheet, cfg.Demo.Sprites, uint64(time.Now().UnixNano()), logger.Named("scene"))
	if err != nil {
		return err
	}
	defer scene.Close()

	in := input.New()
	shots := debug.NewScreenshots(screenshotDir, "spritedemo")
	lastTime := time.Now()
	counter := demo.NewFrameCounter(logger.Named("stats"), time.Second, lastTime)

	for cfg.Demo.Frames == 0 || counter.Total() < cfg.Demo.Frames {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if in.Update() || in.IsKeyPressed(sdl.SCANCODE_ESCAPE) {
			return nil
		}
		if in.Resized() {
			scene.Resize(win.DrawableSize())
		}
		handleKeys(in, scene)

		if err := scene.Frame(dt); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if in.IsKeyPressed(sdl.SCANCODE_F12) {
			pixels, size := backend.ReadScreen()
			saveScreenshot(shots.SavePixels(pixels, int(size.Width), int(size.Height), true))
		}
		win.SwapBuffers()

		if fps, ok := counter.Tick(time.Now(), g.Stats()); ok {
			win.SetTitle(fmt.Sprintf("%s - %d sprites - %.0f fps", cfg.Window.Title, scene.Len(), fps))
		}
	}
	return nil
}

// handleKeys applies demo key bindings:
// space pauses, up/down change the sprite count, F3 toggles debug logging.
func handleKeys(in *input.Input, scene *demo.Scene) {
	if in.IsKeyPressed(sdl.SCANCODE_SPACE) {
		scene.TogglePause()
	}
	if in.IsKeyPressed(sdl.SCANCODE_UP) {
		scene.Spawn(scene.Len() * 2)
	}
	if in.IsKeyPressed(sdl.SCANCODE_DOWN) {
		scene.Spawn(scene.Len() / 2)
	}
	if in.IsKeyPressed(sdl.SCANCODE_F3) {
		if logger.Level() == "debug" {
			logger.SetLevel("info")
		} else {
			logger.SetLevel("debug")
		}
	}
}

// saveScreenshot logs the outcome of a capture.
func saveScreenshot(name string, err error) {
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("file", name))
}
