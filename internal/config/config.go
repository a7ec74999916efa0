// Package config loads viewer settings from the user's TOML config
// file. Command-line flags override file values; file values override
// the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig indicates a config file that parsed but failed
// validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all user-tunable settings.
type Config struct {
	// Theme is a path to a theme TOML file. Empty selects the built-in
	// default theme.
	Theme string `toml:"theme"`

	// ChromaStyle names the syntax highlighting style for code blocks.
	ChromaStyle string `toml:"chroma_style"`

	// ShowImages enables inline image rendering.
	ShowImages bool `toml:"show_images"`

	// MaxImageWidth caps image width in terminal cells. Zero means the
	// viewport width.
	MaxImageWidth int `toml:"max_image_width"`

	// Reload re-renders the document when the file changes on disk.
	Reload bool `toml:"reload"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LogFile receives log output. Empty discards logs, since stderr
	// belongs to the terminal UI while the viewer runs.
	LogFile string `toml:"log_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ChromaStyle: "monokai",
		ShowImages:  true,
		Reload:      true,
		LogLevel:    "info",
	}
}

// Path returns the config file location: $MDINK_CONFIG if set,
// otherwise config.toml under the user config directory.
func Path() string {
	if p := os.Getenv("MDINK_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mdink", "config.toml")
}

// Load reads the config file at path over the defaults. A missing file
// is not an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks field values that cannot be checked by decoding.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.MaxImageWidth < 0 {
		return fmt.Errorf("%w: max_image_width %d", ErrInvalidConfig, c.MaxImageWidth)
	}
	return nil
}
