// Package style maps document element kinds to visual styles.
// The Resolver is the single decision point for how an element looks;
// the interpreter and the layout engine consume it and never invent
// styling of their own.
package style

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/mdink/internal/renderer/core"
)

// Resolver resolves element kinds to concrete styles using a Theme.
type Resolver struct {
	theme Theme

	// mono strips colors, keeping only attributes. Set when the
	// terminal reports no color support.
	mono bool
}

// NewResolver creates a resolver over the given theme.
func NewResolver(theme Theme) *Resolver {
	return &Resolver{theme: theme}
}

// SetMonochrome switches the resolver to attribute-only styles.
func (r *Resolver) SetMonochrome(mono bool) {
	r.mono = mono
}

// Monochrome reports whether color output is disabled.
func (r *Resolver) Monochrome() bool {
	return r.mono
}

// fin applies the monochrome downgrade to a resolved style.
func (r *Resolver) fin(s core.Style) core.Style {
	if !r.mono {
		return s
	}
	s.Foreground = core.ColorDefault
	s.Background = core.ColorDefault
	return s
}

// Heading returns the style for a heading of the given level (1-6).
// Levels outside the range clamp to the nearest valid level.
func (r *Resolver) Heading(level int) core.Style {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	s := core.NewStyle(r.theme.Heading[level-1]).Bold()
	if level > 3 {
		s = s.Italic()
	}
	return r.fin(s)
}

// Text returns the base paragraph text style.
func (r *Resolver) Text() core.Style {
	return r.fin(core.NewStyle(r.theme.Text))
}

// Emphasis returns the style delta for emphasized text.
func (r *Resolver) Emphasis() core.Style {
	return core.DefaultStyle().Italic()
}

// Strong returns the style delta for strong text.
func (r *Resolver) Strong() core.Style {
	return core.DefaultStyle().Bold()
}

// Strikethrough returns the style delta for struck-through text.
func (r *Resolver) Strikethrough() core.Style {
	return core.DefaultStyle().Strikethrough()
}

// Link returns the style delta for link text.
func (r *Resolver) Link() core.Style {
	return r.fin(core.NewStyle(r.theme.Link).Underline())
}

// InlineCode returns the style for inline code spans.
func (r *Resolver) InlineCode() core.Style {
	return r.fin(core.NewStyle(r.theme.CodeText).WithBackground(r.theme.CodeInlineBG))
}

// CodeBlock returns the base style for code block text, including the
// block background applied behind highlighted spans.
func (r *Resolver) CodeBlock() core.Style {
	return r.fin(core.NewStyle(r.theme.CodeText).WithBackground(r.theme.CodeBlockBG))
}

// Rule returns the style for thematic break lines.
func (r *Resolver) Rule() core.Style {
	return r.fin(core.NewStyle(r.theme.Rule).Dim())
}

// QuoteBar returns the style for block quote prefix markers.
func (r *Resolver) QuoteBar() core.Style {
	return r.fin(core.NewStyle(r.theme.QuoteBar))
}

// ListMarker returns the style for bullets and ordered-list numbers.
func (r *Resolver) ListMarker() core.Style {
	return r.fin(core.NewStyle(r.theme.ListMarker))
}

// TaskDone returns the style for checked task markers.
func (r *Resolver) TaskDone() core.Style {
	return r.fin(core.NewStyle(r.theme.TaskDone))
}

// TaskPending returns the style for unchecked task markers.
func (r *Resolver) TaskPending() core.Style {
	return r.fin(core.NewStyle(r.theme.ListMarker))
}

// TableHeader returns the style for table header cells.
func (r *Resolver) TableHeader() core.Style {
	return r.fin(core.NewStyle(r.theme.TableHeader).Bold())
}

// TableBorder returns the style for table separators.
func (r *Resolver) TableBorder() core.Style {
	return r.fin(core.NewStyle(r.theme.Rule).Dim())
}

// ImageFallback returns the style for "[image: alt]" placeholder lines.
func (r *Resolver) ImageFallback() core.Style {
	return r.fin(core.NewStyle(r.theme.ImageAlt).Italic())
}

// FootnoteLabel returns the style for footnote labels and references.
func (r *Resolver) FootnoteLabel() core.Style {
	return r.fin(core.NewStyle(r.theme.Link))
}

// StatusBar returns the style for the bottom status line.
func (r *Resolver) StatusBar() core.Style {
	return r.fin(core.DefaultStyle().
		WithForeground(r.theme.StatusFG).
		WithBackground(r.theme.StatusBG).
		Bold())
}

// StatusError returns the style for error messages in the status line.
func (r *Resolver) StatusError() core.Style {
	return r.fin(core.NewStyle(r.theme.Error).WithBackground(r.theme.StatusBG).Bold())
}

// SearchPrompt returns the style for the search input line.
func (r *Resolver) SearchPrompt() core.Style {
	return r.fin(core.DefaultStyle().
		WithForeground(r.theme.StatusFG).
		WithBackground(r.theme.StatusBG))
}

// SearchHighlight returns the style for search matches. The foreground
// is chosen for contrast against the configured match background.
func (r *Resolver) SearchHighlight() core.Style {
	if r.mono {
		return core.DefaultStyle().Reverse()
	}
	bg := r.theme.SearchBG
	fg := core.ColorBlack
	c := colorful.Color{R: float64(bg.R) / 255, G: float64(bg.G) / 255, B: float64(bg.B) / 255}
	if _, _, l := c.Hcl(); l < 0.5 {
		fg = core.ColorWhite
	}
	return core.DefaultStyle().WithForeground(fg).WithBackground(bg)
}
