package viewport

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/mdink/internal/renderer/layout"
)

// Match is one search hit: byte offsets into the plain text of a line.
type Match struct {
	Line  int
	Start int
	End   int
}

// Search holds the active query and its hits over a flattened document.
// Matching is case-insensitive literal substring search.
type Search struct {
	query   string
	matches []Match
	current int
}

// Run scans the document for the query and positions on the first hit
// at or below the given line. It reports whether anything matched.
func (s *Search) Run(doc *layout.Document, query string, fromLine int) bool {
	s.query = query
	s.matches = nil
	s.current = 0
	if query == "" {
		return false
	}
	for i, ln := range doc.Lines {
		text := layout.PlainText(ln)
		off := 0
		for {
			start, end := foldedIndex(text, query, off)
			if start < 0 {
				break
			}
			s.matches = append(s.matches, Match{Line: i, Start: start, End: end})
			off = end
		}
	}
	if len(s.matches) == 0 {
		return false
	}
	for i, m := range s.matches {
		if m.Line >= fromLine {
			s.current = i
			break
		}
	}
	return true
}

// Active reports whether a query with hits is in effect.
func (s *Search) Active() bool { return len(s.matches) > 0 }

// Query returns the active query text.
func (s *Search) Query() string { return s.query }

// Matches returns all hits in document order.
func (s *Search) Matches() []Match { return s.matches }

// Current returns the selected hit. Valid only when Active.
func (s *Search) Current() Match { return s.matches[s.current] }

// Position reports the selected hit as 1-based index and total count.
func (s *Search) Position() (int, int) {
	if len(s.matches) == 0 {
		return 0, 0
	}
	return s.current + 1, len(s.matches)
}

// Next advances to the following hit, wrapping at the end.
func (s *Search) Next() {
	if len(s.matches) == 0 {
		return
	}
	s.current = (s.current + 1) % len(s.matches)
}

// Prev moves to the preceding hit, wrapping at the start.
func (s *Search) Prev() {
	if len(s.matches) == 0 {
		return
	}
	s.current = (s.current - 1 + len(s.matches)) % len(s.matches)
}

// Clear drops the query and all hits.
func (s *Search) Clear() {
	s.query = ""
	s.matches = nil
	s.current = 0
}

// foldedIndex finds the first case-insensitive occurrence of needle in
// text at or after from. Offsets index the original text, so runes
// whose lowercase form has a different byte length (Kelvin sign, dotted
// capital I) cannot shift the reported range.
func foldedIndex(text, needle string, from int) (start, end int) {
	for i := from; i < len(text); {
		if n, ok := foldedPrefix(text[i:], needle); ok {
			return i, i + n
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return -1, -1
}

// foldedPrefix reports whether text starts with needle under simple
// case folding, returning the byte length of the matched prefix.
func foldedPrefix(text, needle string) (int, bool) {
	n := 0
	for _, qr := range needle {
		tr, size := utf8.DecodeRuneInString(text[n:])
		if size == 0 {
			return 0, false
		}
		if tr != qr && unicode.ToLower(tr) != unicode.ToLower(qr) {
			return 0, false
		}
		n += size
	}
	return n, true
}

// LineMatches returns the hits on a single line.
func (s *Search) LineMatches(line int) []Match {
	var out []Match
	for _, m := range s.matches {
		if m.Line == line {
			out = append(out, m)
		}
	}
	return out
}
