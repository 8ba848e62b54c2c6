package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/spritebatch/internal/assets"
	"github.com/Faultbox/spritebatch/internal/backend/headless"
	"github.com/Faultbox/spritebatch/internal/config"
	"github.com/Faultbox/spritebatch/internal/demo"
	"github.com/Faultbox/spritebatch/internal/logger"
	"github.com/Faultbox/spritebatch/pkg/geom"
	"github.com/Faultbox/spritebatch/pkg/sprite"
)

// defaultHeadlessFrames bounds a headless run when no frame count is set.
const defaultHeadlessFrames = 600

// runHeadless records frames without a display, which is useful for
// measuring batching on CI machines.
func runHeadless(cfg *config.Config, sheet assets.Sheet) error {
	log := logger.Named("headless")
	backend := headless.New(
		headless.WithViewport(geom.Size{Width: uint32(cfg.Window.Width), Height: uint32(cfg.Window.Height)}),
		headless.WithLogger(log),
		headless.WithFrameLimit(1),
	)
	g := sprite.New(backend, append(cfg.Renderer.Options(), sprite.WithLogger(logger.Named("sprite")))...)

	scene, err := demo.NewScene(g, sheet, cfg.Demo.Sprites, uint64(time.Now().UnixNano()), logger.Named("scene"))
	if err != nil {
		return err
	}
	defer scene.Close()

	frames := cfg.Demo.Frames
	if frames == 0 {
		frames = defaultHeadlessFrames
	}

	start := time.Now()
	counter := demo.NewFrameCounter(logger.Named("stats"), time.Second, start)
	for i := 0; i < frames; i++ {
		if err := scene.Frame(1.0 / 60); err != nil {
			return err
		}
		counter.Tick(time.Now(), g.Stats())
	}

	elapsed := time.Since(start)
	stats := g.Stats()
	log.Info("headless run finished",
		zap.Int("frames", counter.Total()),
		zap.Duration("elapsed", elapsed),
		zap.Float64("fps", float64(frames)/elapsed.Seconds()),
		zap.Int("batches", stats.Batches),
		zap.Int("instances", stats.Instances),
		zap.Int("culled", stats.Culled),
	)
	return nil
}
