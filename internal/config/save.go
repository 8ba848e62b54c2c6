package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where SaveTo writes when no path is given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), FileName)
}

// SaveTo writes the config as YAML, creating parent directories. An empty
// path writes to DefaultPath.
func (c *Config) SaveTo(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
