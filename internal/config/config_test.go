package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test renderer defaults
	if cfg.Renderer.Backend != BackendOpenGL {
		t.Errorf("expected backend opengl, got %s", cfg.Renderer.Backend)
	}
	if cfg.Renderer.InstanceCapacity != 10000 {
		t.Errorf("expected instance capacity 10000, got %d", cfg.Renderer.InstanceCapacity)
	}
	if cfg.Renderer.CommandCapacity != 1000 {
		t.Errorf("expected command capacity 1000, got %d", cfg.Renderer.CommandCapacity)
	}
	if cfg.Renderer.Growth != GrowthDouble {
		t.Errorf("expected growth double, got %s", cfg.Renderer.Growth)
	}
	if !cfg.Renderer.Culling {
		t.Error("expected culling to be enabled by default")
	}

	// Test demo defaults
	if cfg.Demo.Sprites != 2000 {
		t.Errorf("expected 2000 sprites, got %d", cfg.Demo.Sprites)
	}
	if cfg.Demo.Frames != 0 {
		t.Errorf("expected unlimited frames, got %d", cfg.Demo.Frames)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  title: "Bench"
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

renderer:
  backend: "ebiten"
  instance_capacity: 500
  growth: "fixed"
  growth_step: 250
  culling: false

demo:
  sprites: 50000
  sprite_path: "sheet.png"
  frames: 600

logging:
  level: "debug"
  log_file: "sprites.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Window.Title != "Bench" {
		t.Errorf("expected title Bench, got %s", cfg.Window.Title)
	}
	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Renderer.Backend != BackendEbiten {
		t.Errorf("expected backend ebiten, got %s", cfg.Renderer.Backend)
	}
	if cfg.Renderer.InstanceCapacity != 500 {
		t.Errorf("expected instance capacity 500, got %d", cfg.Renderer.InstanceCapacity)
	}
	// Unset keys keep their defaults
	if cfg.Renderer.CommandCapacity != 1000 {
		t.Errorf("expected command capacity 1000, got %d", cfg.Renderer.CommandCapacity)
	}
	if cfg.Renderer.Growth != GrowthFixed || cfg.Renderer.GrowthStep != 250 {
		t.Errorf("expected fixed growth by 250, got %s by %d", cfg.Renderer.Growth, cfg.Renderer.GrowthStep)
	}
	if cfg.Renderer.Culling {
		t.Error("expected culling to be false")
	}

	if cfg.Demo.Sprites != 50000 || cfg.Demo.SpritePath != "sheet.png" || cfg.Demo.Frames != 600 {
		t.Errorf("unexpected demo config %+v", cfg.Demo)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "sprites.log" {
		t.Errorf("expected log file 'sprites.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"negative height", func(c *Config) { c.Window.Height = -1 }, "window size"},
		{"unknown backend", func(c *Config) { c.Renderer.Backend = "vulkan" }, "unknown renderer backend"},
		{"unknown growth", func(c *Config) { c.Renderer.Growth = "triple" }, "unknown growth mode"},
		{"fixed growth without step", func(c *Config) {
			c.Renderer.Growth = GrowthFixed
			c.Renderer.GrowthStep = 0
		}, "growth step"},
		{"negative capacity", func(c *Config) { c.Renderer.InstanceCapacity = -5 }, "capacities"},
		{"negative sprites", func(c *Config) { c.Demo.Sprites = -1 }, "demo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestRendererOptions(t *testing.T) {
	cfg := Default()
	if got := len(cfg.Renderer.Options()); got != 4 {
		t.Errorf("expected 4 options, got %d", got)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Keep the user's real config out of the search
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "backend flag",
			setup: func() {
				*flagBackend = BackendHeadless
			},
			verify: func(cfg *Config) {
				if cfg.Renderer.Backend != BackendHeadless {
					t.Errorf("expected backend headless, got %s", cfg.Renderer.Backend)
				}
			},
			teardown: func() {
				*flagBackend = ""
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "sprites and frames flags",
			setup: func() {
				*flagSprites = 0
				*flagFrames = 120
			},
			verify: func(cfg *Config) {
				if cfg.Demo.Sprites != 0 {
					t.Errorf("expected 0 sprites, got %d", cfg.Demo.Sprites)
				}
				if cfg.Demo.Frames != 120 {
					t.Errorf("expected 120 frames, got %d", cfg.Demo.Frames)
				}
			},
			teardown: func() {
				*flagSprites = -1
				*flagFrames = -1
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
renderer:
  backend: "ebiten"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	*flagBackend = BackendHeadless
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
		*flagBackend = ""
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}

	if cfg.Renderer.Backend != BackendHeadless {
		t.Errorf("expected backend headless from flag, got %s", cfg.Renderer.Backend)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("renderer:\n  backend: \"directx\"\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject an unknown backend")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Demo.Sprites = 123
	cfg.Renderer.Backend = BackendHeadless
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Demo.Sprites != 123 || loaded.Renderer.Backend != BackendHeadless {
		t.Errorf("saved config did not round-trip: %+v", loaded)
	}
}

func TestLoadFromFileStrict(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"empty file", "", false},
		{"comment only", "# nothing set\n", false},
		{"known keys", "demo:\n  sprites: 7\n", false},
		{"misspelled key", "demo:\n  sprite: 7\n", true},
		{"unknown section", "audio:\n  volume: 1\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			err := loadFromFile(Default(), path)
			if (err != nil) != tt.wantErr {
				t.Errorf("loadFromFile() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDirFollowsXDG(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG_CONFIG_HOME is only used on Unix")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	if got, want := ConfigDir(), filepath.Join(xdg, "spritebatch"); got != want {
		t.Errorf("ConfigDir() = %s, want %s", got, want)
	}
	if got, want := DefaultPath(), filepath.Join(xdg, "spritebatch", FileName); got != want {
		t.Errorf("DefaultPath() = %s, want %s", got, want)
	}
}

func TestSaveToDefaultPath(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG_CONFIG_HOME is only used on Unix")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Window.Title = "saved"
	if err := cfg.SaveTo(""); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, DefaultPath()); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Window.Title != "saved" {
		t.Errorf("expected title 'saved', got %s", loaded.Window.Title)
	}
}

func TestFindConfigFileSkipsDirectory(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	if err := os.Mkdir(filepath.Join(tmpDir, FileName), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if path := findConfigFile(); path != "" {
		t.Errorf("expected a directory to be skipped, got %s", path)
	}
}
