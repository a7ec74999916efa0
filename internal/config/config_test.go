package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if !cfg.ShowImages {
		t.Error("images should default on")
	}
	if !cfg.Reload {
		t.Error("reload should default on")
	}
	if cfg.ChromaStyle != "monokai" {
		t.Errorf("chroma style = %q", cfg.ChromaStyle)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "show_images = false\nlog_level = \"debug\"\nchroma_style = \"dracula\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ShowImages {
		t.Error("show_images not applied")
	}
	if cfg.LogLevel != "debug" || cfg.ChromaStyle != "dracula" {
		t.Errorf("got %+v", cfg)
	}
	// Untouched keys keep defaults.
	if !cfg.Reload {
		t.Error("reload default lost")
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("show_images = {"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidateLogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("got %v", err)
	}
}

func TestValidateImageWidth(t *testing.T) {
	cfg := Default()
	cfg.MaxImageWidth = -1
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("got %v", err)
	}
}

func TestPathHonorsEnv(t *testing.T) {
	t.Setenv("MDINK_CONFIG", "/tmp/custom.toml")
	if got := Path(); got != "/tmp/custom.toml" {
		t.Errorf("path = %q", got)
	}
}
