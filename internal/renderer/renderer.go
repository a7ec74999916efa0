// Package renderer paints a flattened document onto a terminal backend.
// Only the lines inside the viewport window are touched; everything
// else in the document is never materialized into cells.
package renderer

import (
	"strings"

	"github.com/dshills/mdink/internal/renderer/backend"
	"github.com/dshills/mdink/internal/renderer/core"
	"github.com/dshills/mdink/internal/renderer/imagearena"
	"github.com/dshills/mdink/internal/renderer/layout"
	"github.com/dshills/mdink/internal/renderer/style"
	"github.com/dshills/mdink/internal/renderer/viewport"
)

// Renderer draws document content through a backend.
type Renderer struct {
	res *style.Resolver
}

// New returns a renderer using the given style resolver.
func New(res *style.Resolver) *Renderer {
	return &Renderer{res: res}
}

// Draw paints the visible window of doc into rows [0, view.Height()) of
// the backend. Search hits, when present, are overlaid on text rows.
func (r *Renderer) Draw(b backend.Backend, doc *layout.Document, view *viewport.View, search *viewport.Search, arena *imagearena.Arena) {
	width := view.Width()
	for row := 0; row < view.Height(); row++ {
		docLine := view.Offset() + row
		if docLine >= len(doc.Lines) {
			continue
		}
		switch ln := doc.Lines[docLine].(type) {
		case layout.TextLine:
			spans := ln.Spans
			if search != nil && search.Active() {
				spans = r.overlayMatches(spans, search, docLine)
			}
			backend.SetSpans(b, 0, row, width, spans)

		case layout.CodeLine:
			x := backend.SetSpans(b, 0, row, width, ln.Spans)
			pad := core.NewStyledCell(' ', r.res.CodeBlock())
			for ; x < width; x++ {
				b.SetCell(x, row, pad)
			}

		case layout.RuleLine:
			rule := core.NewSpan(strings.Repeat("─", width), r.res.Rule())
			backend.SetSpans(b, 0, row, width, []core.Span{rule})

		case layout.EmptyLine:
			// Cleared by the caller.

		case layout.ImageStartLine:
			r.drawImageRow(b, arena, ln.Resource, 0, row, width)

		case layout.ImageContinuationLine:
			res, offset := owningImage(doc, docLine)
			if res >= 0 {
				r.drawImageRow(b, arena, res, offset, row, width)
			}
		}
	}
}

// drawImageRow blits one cell row of an arena resource, clipped to the
// viewport width.
func (r *Renderer) drawImageRow(b backend.Backend, arena *imagearena.Arena, resource, imgRow, screenRow, width int) {
	if arena == nil {
		return
	}
	cells := arena.GetMut(resource).Cells()
	if imgRow >= len(cells) {
		return
	}
	row := cells[imgRow]
	for x := 0; x < len(row) && x < width; x++ {
		b.SetCell(x, screenRow, row[x])
	}
}

// owningImage walks up from a continuation line to its ImageStartLine,
// returning the resource index and the row offset into the image.
func owningImage(doc *layout.Document, line int) (resource, offset int) {
	for i := line - 1; i >= 0; i-- {
		switch l := doc.Lines[i].(type) {
		case layout.ImageStartLine:
			return l.Resource, line - i
		case layout.ImageContinuationLine:
			continue
		default:
			return -1, 0
		}
	}
	return -1, 0
}

// overlayMatches restyles the byte ranges of search hits on this line.
// The selected hit renders inverted so it stands out among its peers.
func (r *Renderer) overlayMatches(spans []core.Span, search *viewport.Search, line int) []core.Span {
	matches := search.LineMatches(line)
	if len(matches) == 0 {
		return spans
	}
	cur := search.Current()
	hit := r.res.SearchHighlight()

	var out []core.Span
	pos := 0
	for _, sp := range spans {
		start, end := pos, pos+len(sp.Text)
		pos = end
		out = append(out, sliceByMatches(sp, start, matches, cur, hit)...)
	}
	return core.MergeSpans(out)
}

// sliceByMatches splits one span at match boundaries. start is the
// span's byte offset within the line's plain text.
func sliceByMatches(sp core.Span, start int, matches []viewport.Match, cur viewport.Match, hit core.Style) []core.Span {
	end := start + len(sp.Text)
	var out []core.Span
	pos := start
	for _, m := range matches {
		if m.End <= pos || m.Start >= end {
			continue
		}
		ms, me := m.Start, m.End
		if ms < pos {
			ms = pos
		}
		if me > end {
			me = end
		}
		if ms > pos {
			out = append(out, core.Span{Text: sp.Text[pos-start : ms-start], Style: sp.Style})
		}
		st := hit
		if m == cur {
			st = st.Reverse()
		}
		out = append(out, core.Span{Text: sp.Text[ms-start : me-start], Style: st})
		pos = me
	}
	if pos < end {
		out = append(out, core.Span{Text: sp.Text[pos-start:], Style: sp.Style})
	}
	return out
}
