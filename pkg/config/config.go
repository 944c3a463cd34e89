// Package config reads the optional folio.yaml configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the workspace root.
const FileName = "folio.yaml"

// Backends lists the supported storage backends.
var Backends = []string{"json", "yaml", "sqlite", "memory"}

// Config is the file layout of folio.yaml.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Render  RenderConfig  `yaml:"render"`
}

// StorageConfig selects and locates the persister.
type StorageConfig struct {
	Backend    string `yaml:"backend"`
	Path       string `yaml:"path"`
	Versioning bool   `yaml:"versioning"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RenderConfig tunes rendering.
type RenderConfig struct {
	CacheSize int `yaml:"cache_size"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Storage: StorageConfig{Backend: "json", Path: ".folio"},
		Log:     LogConfig{Level: "info", Format: "text"},
		Render:  RenderConfig{CacheSize: 64},
	}
}

// Load reads path. A missing file yields Default. Fields absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	// Relative storage paths are anchored at the config file.
	if cfg.Storage.Path != "" && !filepath.IsAbs(cfg.Storage.Path) && cfg.Storage.Backend != "memory" {
		cfg.Storage.Path = filepath.Join(filepath.Dir(path), cfg.Storage.Path)
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if !slices.Contains(Backends, c.Storage.Backend) {
		return fmt.Errorf("unknown storage backend %q (want one of %s)", c.Storage.Backend, strings.Join(Backends, ", "))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Render.CacheSize < 0 {
		return fmt.Errorf("render.cache_size must not be negative")
	}
	return nil
}

// Save writes the configuration to path.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
