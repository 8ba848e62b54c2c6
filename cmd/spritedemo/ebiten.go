package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/Faultbox/spritebatch/internal/assets"
	"github.com/Faultbox/spritebatch/internal/backend/ebitengine"
	"github.com/Faultbox/spritebatch/internal/config"
	"github.com/Faultbox/spritebatch/internal/demo"
	"github.com/Faultbox/spritebatch/internal/engine/debug"
	"github.com/Faultbox/spritebatch/internal/logger"
	"github.com/Faultbox/spritebatch/pkg/geom"
	"github.com/Faultbox/spritebatch/pkg/sprite"
)

// errQuit ends the ebiten loop without reporting a failure.
var errQuit = errors.New("quit")

type ebitenGame struct {
	cfg     *config.Config
	backend *ebitengine.Backend
	g       *sprite.Graphics
	scene   *demo.Scene
	counter *demo.FrameCounter
	shots   *debug.Screenshots
	capture bool
	last    time.Time
	err     error
}

// runEbiten drives the scene from Ebitengine's game loop.
func runEbiten(cfg *config.Config, sheet assets.Sheet) error {
	size := geom.Size{Width: uint32(cfg.Window.Width), Height: uint32(cfg.Window.Height)}
	backend := ebitengine.New(size, logger.Named("ebiten"))
	defer backend.Close()

	g := sprite.New(backend, append(cfg.Renderer.Options(), sprite.WithLogger(logger.Named("sprite")))...)
	scene, err := demo.NewScene(g, sheet, cfg.Demo.Sprites, uint64(time.Now().UnixNano()), logger.Named("scene"))
	if err != nil {
		return err
	}
	defer scene.Close()

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	ebiten.SetVsyncEnabled(cfg.Window.VSync)

	now := time.Now()
	game := &ebitenGame{
		cfg:     cfg,
		backend: backend,
		g:       g,
		scene:   scene,
		counter: demo.NewFrameCounter(logger.Named("stats"), time.Second, now),
		shots:   debug.NewScreenshots(screenshotDir, "spritedemo"),
		last:    now,
	}
	err = ebiten.RunGame(game)
	if errors.Is(err, errQuit) {
		err = nil
	}
	if err == nil {
		err = game.err
	}
	return err
}

func (e *ebitenGame) Update() error {
	if e.err != nil {
		return e.err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}
	if e.cfg.Demo.Frames > 0 && e.counter.Total() >= e.cfg.Demo.Frames {
		return errQuit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		e.scene.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		e.scene.Spawn(e.scene.Len() * 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		e.scene.Spawn(e.scene.Len() / 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		e.capture = true
	}

	now := time.Now()
	e.scene.Update(float32(now.Sub(e.last).Seconds()))
	e.last = now
	return nil
}

func (e *ebitenGame) Draw(screen *ebiten.Image) {
	if e.err != nil {
		return
	}
	e.backend.SetScreen(screen)
	if err := e.scene.Draw(); err != nil {
		e.err = fmt.Errorf("render error: %w", err)
		return
	}
	if err := e.g.Present(); err != nil {
		e.err = err
		return
	}
	if e.capture {
		e.capture = false
		saveScreenshot(e.shots.SaveImage(screen))
	}
	if fps, ok := e.counter.Tick(time.Now(), e.g.Stats()); ok {
		ebiten.SetWindowTitle(fmt.Sprintf("%s - %d sprites - %.0f fps", e.cfg.Window.Title, e.scene.Len(), fps))
	}
}

// Layout keeps the logical screen equal to the window size, so sprites
// keep their pixel size when the window is resized.
func (e *ebitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := geom.Size{Width: uint32(max(outsideWidth, 1)), Height: uint32(max(outsideHeight, 1))}
	if size != e.g.Viewport() {
		e.scene.Resize(size)
		logger.Debug("ebiten layout changed", zap.Uint32("width", size.Width), zap.Uint32("height", size.Height))
	}
	return int(size.Width), int(size.Height)
}
