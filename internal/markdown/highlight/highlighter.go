// Package highlight bridges the chroma syntax highlighting engine to
// the span model used by the rendering pipeline. It is a leaf package:
// chroma types never leak to the interpreter or the layout engine.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/mdink/internal/renderer/core"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// Highlighter turns code blocks into pre-styled lines.
type Highlighter struct {
	style *chroma.Style

	// base is the code block base style; its background is applied
	// behind every highlighted span.
	base core.Style
}

// New creates a highlighter using the named chroma style. Unknown
// names fall back to DefaultStyle.
func New(styleName string, base core.Style) *Highlighter {
	if styleName == "" {
		styleName = DefaultStyle
	}
	st := styles.Get(styleName)
	if st == nil {
		st = styles.Fallback
	}
	return &Highlighter{style: st, base: base}
}

// Highlight tokenizes code for the given language and returns one span
// sequence per source line. Unknown languages and tokenizer failures
// yield plain line-segmented output; the caller never sees an error.
func (h *Highlighter) Highlight(code, language string) [][]core.Span {
	lexer := lexers.Get(language)
	if lexer == nil && language != "" {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		return h.plain(code)
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return h.plain(code)
	}

	lines := make([][]core.Span, 0, strings.Count(code, "\n")+1)
	current := []core.Span{}
	for token := iterator(); token != chroma.EOF; token = iterator() {
		st := h.tokenStyle(token.Type)
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, core.MergeSpans(current))
				current = current[:0:0]
			}
			part = strings.TrimSuffix(part, "\r")
			if part != "" {
				current = append(current, core.NewSpan(part, st))
			}
		}
	}
	if len(current) > 0 {
		lines = append(lines, core.MergeSpans(current))
	}
	if len(lines) == 0 {
		lines = append(lines, []core.Span{})
	}
	return lines
}

// tokenStyle maps a chroma token type to a terminal style over the
// code block base.
func (h *Highlighter) tokenStyle(t chroma.TokenType) core.Style {
	entry := h.style.Get(t)
	s := h.base

	if entry.Colour.IsSet() {
		s.Foreground = core.ColorFromRGB(entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue())
	}
	if entry.Bold == chroma.Yes {
		s = s.Bold()
	}
	if entry.Italic == chroma.Yes {
		s = s.Italic()
	}
	if entry.Underline == chroma.Yes {
		s = s.Underline()
	}

	return s
}

// plain splits code into unstyled per-line spans using the base style.
func (h *Highlighter) plain(code string) [][]core.Span {
	code = strings.TrimSuffix(code, "\n")
	raw := strings.Split(code, "\n")
	lines := make([][]core.Span, len(raw))
	for i, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		lines[i] = []core.Span{core.NewSpan(l, h.base)}
	}
	return lines
}
