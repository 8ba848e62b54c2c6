// Package main runs the sprite batching demo on the configured backend.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/spritebatch/internal/assets"
	"github.com/Faultbox/spritebatch/internal/config"
	"github.com/Faultbox/spritebatch/internal/logger"
)

// screenshotDir receives F12 captures.
const screenshotDir = "screenshots"

func main() {
	// Parse CLI flags first
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

	if path := config.SaveConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			logger.Error("failed to save config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("path", path))
		return
	}

	logger.Info("=== Sprite Batch Demo ===", zap.String("backend", cfg.Renderer.Backend))
	logger.Sugar.Debugf("Config: %+v", cfg)

	sheet, err := loadSheet(cfg)
	if err != nil {
		logger.Error("failed to load sprite sheet", zap.Error(err))
		os.Exit(1)
	}

	switch cfg.Renderer.Backend {
	case config.BackendHeadless:
		err = runHeadless(cfg, sheet)
	case config.BackendEbiten:
		err = runEbiten(cfg, sheet)
	default:
		err = runOpenGL(cfg, sheet)
	}
	if err != nil {
		logger.Error("demo error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("demo closed normally")
}

// loadSheet loads the configured sheet or generates one.
func loadSheet(cfg *config.Config) (assets.Sheet, error) {
	if cfg.Demo.SpritePath == "" {
		return assets.GenerateSheet(8, 4, 32), nil
	}

	loader := assets.NewLoader()
	defer loader.Close()
	if err := loader.AddDir(filepath.Dir(cfg.Demo.SpritePath)); err != nil {
		return assets.Sheet{}, err
	}

	img, err := loader.Load(filepath.Base(cfg.Demo.SpritePath))
	if err != nil {
		return assets.Sheet{}, err
	}
	assets.ApplyMagentaKey(img)
	logger.Info("sprite sheet loaded",
		zap.String("path", cfg.Demo.SpritePath),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return assets.NewSheet(img, 32, 32), nil
}
