package core

import "strings"

// Span is a contiguous run of text sharing one style. A slice of spans
// forms the rich-text unit threaded through the rendering pipeline.
type Span struct {
	Text  string
	Style Style
}

// NewSpan creates a span with the given text and style.
func NewSpan(text string, style Style) Span {
	return Span{Text: text, Style: style}
}

// Width returns the display width of the span in terminal columns.
func (s Span) Width() int {
	return StringWidth(s.Text)
}

// SpansText concatenates the plain text of a span sequence.
func SpansText(spans []Span) string {
	if len(spans) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// SpansWidth returns the total display width of a span sequence.
func SpansWidth(spans []Span) int {
	total := 0
	for _, s := range spans {
		total += s.Width()
	}
	return total
}

// MergeSpans collapses adjacent spans that share an identical style.
// Empty spans are dropped. The input slice is not modified.
func MergeSpans(spans []Span) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Style.Equals(s.Style) {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}
