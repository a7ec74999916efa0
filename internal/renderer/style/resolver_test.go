package style

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/mdink/internal/renderer/core"
)

func TestHeadingLevels(t *testing.T) {
	r := NewResolver(DefaultTheme())

	for level := 1; level <= 6; level++ {
		s := r.Heading(level)
		if !s.Attributes.Has(core.AttrBold) {
			t.Errorf("level %d should be bold", level)
		}
	}
	if !r.Heading(4).Attributes.Has(core.AttrItalic) {
		t.Error("deep headings should be italic")
	}
	if r.Heading(2).Attributes.Has(core.AttrItalic) {
		t.Error("shallow headings should not be italic")
	}
}

func TestHeadingLevelClamped(t *testing.T) {
	r := NewResolver(DefaultTheme())
	if !r.Heading(0).Equals(r.Heading(1)) {
		t.Error("level 0 should clamp to 1")
	}
	if !r.Heading(99).Equals(r.Heading(6)) {
		t.Error("level 99 should clamp to 6")
	}
}

func TestMonochromeStripsColors(t *testing.T) {
	r := NewResolver(DefaultTheme())
	r.SetMonochrome(true)

	s := r.Heading(1)
	if !s.Foreground.IsDefault() || !s.Background.IsDefault() {
		t.Errorf("monochrome heading kept colors: %+v", s)
	}
	if !s.Attributes.Has(core.AttrBold) {
		t.Error("monochrome should keep attributes")
	}

	if !r.InlineCode().Background.IsDefault() {
		t.Error("monochrome inline code kept its background")
	}
}

func TestLinkUnderlined(t *testing.T) {
	r := NewResolver(DefaultTheme())
	if !r.Link().Attributes.Has(core.AttrUnderline) {
		t.Error("links should be underlined")
	}
}

func TestSearchHighlightContrast(t *testing.T) {
	r := NewResolver(DefaultTheme())
	s := r.SearchHighlight()
	if s.Background.IsDefault() {
		t.Error("search highlight needs a background")
	}
	if s.Foreground.IsDefault() {
		t.Error("search highlight needs an explicit foreground for contrast")
	}
}

func TestSearchHighlightMonochrome(t *testing.T) {
	r := NewResolver(DefaultTheme())
	r.SetMonochrome(true)
	s := r.SearchHighlight()
	if !s.Attributes.Has(core.AttrReverse) {
		t.Error("monochrome search highlight should reverse")
	}
}

func TestLoadThemeOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.toml")
	body := "heading1 = \"#ff0000\"\ntext = \"#00ff00\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	theme, err := LoadTheme(path)
	if err != nil {
		t.Fatalf("LoadTheme: %v", err)
	}
	if !theme.Heading[0].Equals(core.ColorFromRGB(255, 0, 0)) {
		t.Errorf("heading1 = %v", theme.Heading[0])
	}
	if !theme.Text.Equals(core.ColorFromRGB(0, 255, 0)) {
		t.Errorf("text = %v", theme.Text)
	}
	// Untouched fields keep their defaults.
	def := DefaultTheme()
	if !theme.Link.Equals(def.Link) {
		t.Errorf("link changed: %v", theme.Link)
	}
}

func TestLoadThemeMissingFile(t *testing.T) {
	if _, err := LoadTheme(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadThemeBadColor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.toml")
	if err := os.WriteFile(path, []byte("text = \"not-a-color\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTheme(path); err == nil {
		t.Error("expected error for invalid color")
	}
}
