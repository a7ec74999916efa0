package style

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/mdink/internal/renderer/core"
)

// Theme holds the color palette the Resolver draws from.
type Theme struct {
	// Heading colors indexed by level-1.
	Heading [6]core.Color

	Text         core.Color
	Link         core.Color
	CodeText     core.Color
	CodeInlineBG core.Color
	CodeBlockBG  core.Color
	Rule         core.Color
	QuoteBar     core.Color
	ListMarker   core.Color
	TaskDone     core.Color
	TableHeader  core.Color
	ImageAlt     core.Color
	StatusFG     core.Color
	StatusBG     core.Color
	SearchBG     core.Color
	Error        core.Color

	// ChromaStyle names the chroma style used for code highlighting.
	ChromaStyle string
}

// DefaultTheme returns the built-in dark theme.
func DefaultTheme() Theme {
	return Theme{
		Heading: [6]core.Color{
			core.ColorFromRGB(128, 255, 255), // h1 light cyan
			core.ColorGreen,
			core.ColorYellow,
			core.ColorWhite,
			core.ColorWhite,
			core.ColorWhite,
		},
		Text:         core.ColorDefault,
		Link:         core.ColorFromRGB(95, 175, 255),
		CodeText:     core.ColorFromIndex(252),
		CodeInlineBG: core.ColorFromIndex(236),
		CodeBlockBG:  core.ColorFromIndex(235),
		Rule:         core.ColorGray,
		QuoteBar:     core.ColorFromIndex(244),
		ListMarker:   core.ColorFromRGB(128, 255, 255),
		TaskDone:     core.ColorGreen,
		TableHeader:  core.ColorWhite,
		ImageAlt:     core.ColorFromIndex(246),
		StatusFG:     core.ColorBlack,
		StatusBG:     core.ColorWhite,
		SearchBG:     core.ColorYellow,
		Error:        core.ColorRed,
	}
}

// themeFile is the on-disk TOML shape. All fields are optional hex
// color strings; absent fields keep the default theme value.
type themeFile struct {
	Heading1     string `toml:"heading1"`
	Heading2     string `toml:"heading2"`
	Heading3     string `toml:"heading3"`
	Heading4     string `toml:"heading4"`
	Heading5     string `toml:"heading5"`
	Heading6     string `toml:"heading6"`
	Text         string `toml:"text"`
	Link         string `toml:"link"`
	CodeText     string `toml:"code_text"`
	CodeInlineBG string `toml:"code_inline_bg"`
	CodeBlockBG  string `toml:"code_block_bg"`
	Rule         string `toml:"rule"`
	QuoteBar     string `toml:"quote_bar"`
	ListMarker   string `toml:"list_marker"`
	TaskDone     string `toml:"task_done"`
	TableHeader  string `toml:"table_header"`
	ImageAlt     string `toml:"image_alt"`
	StatusFG     string `toml:"status_fg"`
	StatusBG     string `toml:"status_bg"`
	SearchBG     string `toml:"search_bg"`
	Error        string `toml:"error"`
	ChromaStyle  string `toml:"chroma_style"`
}

// LoadTheme reads a TOML theme file and overlays it on the default
// theme. Unknown keys are ignored; invalid color values fail the load.
func LoadTheme(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme: %w", err)
	}

	var tf themeFile
	if err := toml.Unmarshal(data, &tf); err != nil {
		return Theme{}, fmt.Errorf("parse theme: %w", err)
	}

	theme := DefaultTheme()

	headings := [6]string{tf.Heading1, tf.Heading2, tf.Heading3, tf.Heading4, tf.Heading5, tf.Heading6}
	for i, hex := range headings {
		if err := overlay(&theme.Heading[i], hex); err != nil {
			return Theme{}, err
		}
	}

	fields := []struct {
		dst *core.Color
		hex string
	}{
		{&theme.Text, tf.Text},
		{&theme.Link, tf.Link},
		{&theme.CodeText, tf.CodeText},
		{&theme.CodeInlineBG, tf.CodeInlineBG},
		{&theme.CodeBlockBG, tf.CodeBlockBG},
		{&theme.Rule, tf.Rule},
		{&theme.QuoteBar, tf.QuoteBar},
		{&theme.ListMarker, tf.ListMarker},
		{&theme.TaskDone, tf.TaskDone},
		{&theme.TableHeader, tf.TableHeader},
		{&theme.ImageAlt, tf.ImageAlt},
		{&theme.StatusFG, tf.StatusFG},
		{&theme.StatusBG, tf.StatusBG},
		{&theme.SearchBG, tf.SearchBG},
		{&theme.Error, tf.Error},
	}
	for _, f := range fields {
		if err := overlay(f.dst, f.hex); err != nil {
			return Theme{}, err
		}
	}

	if tf.ChromaStyle != "" {
		theme.ChromaStyle = tf.ChromaStyle
	}

	return theme, nil
}

func overlay(dst *core.Color, hex string) error {
	if hex == "" {
		return nil
	}
	c, err := core.ColorFromHex(hex)
	if err != nil {
		return err
	}
	*dst = c
	return nil
}
