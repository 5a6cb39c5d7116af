// Package config provides configuration loading and management.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/AT-290690/gif-player/pkg/adapters/ggsurface"
	"github.com/AT-290690/gif-player/pkg/ports"
	"github.com/AT-290690/gif-player/pkg/workspace"
)

// Config represents the full configuration for gifplayer.
type Config struct {
	// Encoding
	Workers int  `yaml:"workers" toml:"workers"`
	Flatten bool `yaml:"flatten" toml:"flatten"`

	// Playback
	MinDelayMs     int `yaml:"min_delay_ms" toml:"min_delay_ms"`
	DefaultDelayMs int `yaml:"default_delay_ms" toml:"default_delay_ms"`

	// Decoded sequences kept for reloading identical files
	CacheSize int `yaml:"cache_size" toml:"cache_size"`

	// Presentation
	Surface SurfaceConfig `yaml:"surface" toml:"surface"`

	// Drop folder
	Watch WatchConfig `yaml:"watch" toml:"watch"`

	// Logging
	LogLevel ports.LogLevel `yaml:"log_level" toml:"log_level"`

	// Debug
	Debug    bool   `yaml:"debug" toml:"debug"`
	DebugDir string `yaml:"debug_dir" toml:"debug_dir"`
}

// SurfaceConfig represents presentation surface settings.
type SurfaceConfig struct {
	Width              int    `yaml:"width" toml:"width"`
	Height             int    `yaml:"height" toml:"height"`
	ProgressHeight     int    `yaml:"progress_height" toml:"progress_height"`
	ProgressBackground string `yaml:"progress_background" toml:"progress_background"`
	ProgressForeground string `yaml:"progress_foreground" toml:"progress_foreground"`
	ShowCounter        bool   `yaml:"show_counter" toml:"show_counter"`
}

// WatchConfig represents drop folder settings.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" toml:"debounce_ms"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Workers: 2,
		Flatten: true,

		MinDelayMs:     20,
		DefaultDelayMs: 100,

		CacheSize: workspace.DefaultCacheSize,

		Surface: SurfaceConfig{
			ProgressHeight:     8,
			ProgressBackground: "#D6000D",
			ProgressForeground: "#2be350",
		},

		Watch: WatchConfig{
			DebounceMs: 250,
		},

		LogLevel: ports.LevelInfo,
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file, or a TOML file when
// path ends in .toml. Fields missing from the file keep their defaults;
// unknown fields are an error.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("parse %s: unknown field %q", path, undecoded[0].String())
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document leaves the defaults in place.
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return fmt.Errorf("workers must not be negative: %d", c.Workers)
	case c.MinDelayMs < 0:
		return fmt.Errorf("min_delay_ms must not be negative: %d", c.MinDelayMs)
	case c.DefaultDelayMs <= 0:
		return fmt.Errorf("default_delay_ms must be positive: %d", c.DefaultDelayMs)
	case c.Surface.Width < 0 || c.Surface.Height < 0 || c.Surface.ProgressHeight < 0:
		return fmt.Errorf("surface sizes must not be negative")
	case c.CacheSize < 0:
		return fmt.Errorf("cache_size must not be negative: %d", c.CacheSize)
	case c.Watch.DebounceMs < 0:
		return fmt.Errorf("debounce_ms must not be negative: %d", c.Watch.DebounceMs)
	}
	if _, err := ParseColor(c.Surface.ProgressBackground); err != nil {
		return fmt.Errorf("progress_background: %w", err)
	}
	if _, err := ParseColor(c.Surface.ProgressForeground); err != nil {
		return fmt.Errorf("progress_foreground: %w", err)
	}
	return nil
}

// ParseColor parses a "#rrggbb" or "#rgb" hex colour. The leading '#' is
// optional.
func ParseColor(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", hex)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// WatchDebounce returns the drop folder debounce as a duration.
func (c Config) WatchDebounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// ToWorkspaceConfig converts Config to workspace.Config. Colours are
// expected to have passed Validate; invalid ones keep the surface defaults.
func (c Config) ToWorkspaceConfig() workspace.Config {
	wc := workspace.DefaultConfig()
	wc.MinDelay = time.Duration(c.MinDelayMs) * time.Millisecond
	wc.DefaultDelay = time.Duration(c.DefaultDelayMs) * time.Millisecond
	wc.Flatten = c.Flatten
	wc.CacheSize = c.CacheSize

	wc.Surface.Width = c.Surface.Width
	wc.Surface.Height = c.Surface.Height
	wc.Surface.ProgressHeight = c.Surface.ProgressHeight
	wc.Surface.ShowCounter = c.Surface.ShowCounter
	if bg, err := ParseColor(c.Surface.ProgressBackground); err == nil {
		wc.Surface.ProgressBackground = bg
	}
	if fg, err := ParseColor(c.Surface.ProgressForeground); err == nil {
		wc.Surface.ProgressForeground = fg
	}
	return wc
}

// SurfaceOptions returns the presentation options alone, for commands that
// paint without a workspace.
func (c Config) SurfaceOptions() ggsurface.Options {
	return c.ToWorkspaceConfig().Surface
}
