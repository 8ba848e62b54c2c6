package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the name the config file is searched under.
const FileName = "config.yaml"

// Per-user config directory names. Linux keeps XDG's lowercase convention.
const (
	appName    = "SpriteBatch"
	appDirUnix = "spritebatch"
)

// Load builds the config from defaults, then the config file, then flags,
// and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// searchPaths lists where a config file is looked for, first match wins.
func searchPaths() []string {
	return []string{
		FileName,
		filepath.Join(ConfigDir(), FileName),
	}
}

func findConfigFile() string {
	for _, path := range searchPaths() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory of the demo.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		// No home directory; fall back to the working directory.
		base, _ = filepath.Abs(".")
	}
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return filepath.Join(base, appName)
	}
	return filepath.Join(base, appDirUnix)
}

// loadFromFile merges the YAML file at path into cfg. Keys that match no
// setting are rejected so that typos do not pass silently.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
