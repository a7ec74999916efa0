package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/mdink/internal/renderer/core"
)

// Reflow wraps styled inline content to the given column width. Hard line
// breaks in the input start new wrap groups; an empty group still yields
// one empty line. Styles survive wrapping: every output byte carries the
// style it had in the input. Width is clamped to at least one column.
func Reflow(spans []core.Span, width int) [][]core.Span {
	if width < 1 {
		width = 1
	}
	plain, styles := flattenSpans(spans)

	var out [][]core.Span
	start := 0
	for {
		end := strings.IndexByte(plain[start:], '\n')
		if end < 0 {
			out = append(out, wrapGroup(plain, styles, start, len(plain), width)...)
			break
		}
		out = append(out, wrapGroup(plain, styles, start, start+end, width)...)
		start += end + 1
	}
	return out
}

// flattenSpans concatenates span text into a single buffer and records
// the style of every byte, so wrapped lines can be cut at arbitrary
// offsets and restyled exactly.
func flattenSpans(spans []core.Span) (string, []core.Style) {
	var sb strings.Builder
	var styles []core.Style
	for _, sp := range spans {
		sb.WriteString(sp.Text)
		for i := 0; i < len(sp.Text); i++ {
			styles = append(styles, sp.Style)
		}
	}
	return sb.String(), styles
}

// wrapGroup wraps plain[start:end] into lines of at most width columns,
// breaking at word boundaries. Whitespace at a break point or at the
// start of a line is dropped; a word wider than the whole line is split
// mid-word. Always returns at least one line.
func wrapGroup(plain string, styles []core.Style, start, end, width int) [][]core.Span {
	var lines [][]core.Span
	emit := func(from, to int) {
		lines = append(lines, restyle(plain, styles, from, to))
	}

	lineStart, lineEnd := start, start
	w := 0       // columns up to lineEnd
	pendWS := 0  // columns of uncommitted trailing whitespace
	pos := start // byte cursor over tokens

	iter := words.FromString(plain[start:end])
	for iter.Next() {
		tok := iter.Value()
		tokStart := pos
		pos += len(tok)

		if isWhitespace(tok) {
			// Whitespace never starts a line; counting it here would
			// also defeat the over-wide word split below.
			if w == 0 && lineEnd == lineStart {
				lineStart, lineEnd = pos, pos
				continue
			}
			pendWS += runewidth.StringWidth(tok)
			continue
		}

		tw := runewidth.StringWidth(tok)
		if w > 0 && w+pendWS+tw > width {
			emit(lineStart, lineEnd)
			lineStart, lineEnd = tokStart, tokStart
			w, pendWS = 0, 0
		} else {
			w += pendWS
			pendWS = 0
		}

		if w == 0 && tw > width {
			// Word alone exceeds the line; split it by rune.
			b := tokStart
			for b < tokStart+len(tok) {
				r, size := utf8.DecodeRuneInString(plain[b:])
				rw := core.RuneWidth(r)
				if w > 0 && w+rw > width {
					emit(lineStart, b)
					lineStart = b
					w = 0
				}
				w += rw
				b += size
			}
			lineEnd = b
			continue
		}

		lineEnd = tokStart + len(tok)
		w += tw
	}

	emit(lineStart, lineEnd)
	return lines
}

// restyle rebuilds spans for plain[from:to] from the per-byte style
// table, coalescing adjacent bytes with equal styles.
func restyle(plain string, styles []core.Style, from, to int) []core.Span {
	var spans []core.Span
	runStart := from
	for i := from + 1; i <= to; i++ {
		if i == to || !styles[i].Equals(styles[runStart]) {
			spans = append(spans, core.Span{
				Text:  plain[runStart:i],
				Style: styles[runStart],
			})
			runStart = i
		}
	}
	return core.MergeSpans(spans)
}

func isWhitespace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return len(s) > 0
}
