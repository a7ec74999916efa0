package layout

import (
	"strings"

	"github.com/dshills/mdink/internal/markdown"
	"github.com/dshills/mdink/internal/renderer/core"
)

const cellGap = " │ "

// table lays out a GFM table as one display line per row: header,
// separator, then body rows. Columns take their natural width when it
// fits; otherwise widths shrink proportionally with a floor of one
// column each, and cell content is clipped. Padding after the last
// column is trimmed so rows never carry trailing blanks.
func (f *flattener) table(t markdown.Table, c *ctx) {
	ncols := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > ncols {
			ncols = len(row)
		}
	}
	if ncols == 0 {
		return
	}

	widths := f.columnWidths(t, ncols, c.width)
	border := f.res.TableBorder()
	headerStyle := f.res.TableHeader()

	// Header.
	var line []core.Span
	for i := 0; i < ncols; i++ {
		if i > 0 {
			line = append(line, core.NewSpan(cellGap, border))
		}
		cell := styledCell(cellAt(t.Header, i), headerStyle)
		line = append(line, padCell(cell, widths[i], alignAt(t.Align, i), headerStyle)...)
	}
	f.text(c, trimTrailingBlank(core.MergeSpans(line)))

	// Separator.
	var sep strings.Builder
	for i, w := range widths {
		if i > 0 {
			sep.WriteString("─┼─")
		}
		sep.WriteString(strings.Repeat("─", w))
	}
	f.text(c, []core.Span{core.NewSpan(sep.String(), border)})

	// Body.
	text := f.res.Text()
	for _, row := range t.Rows {
		line = nil
		for i := 0; i < ncols; i++ {
			if i > 0 {
				line = append(line, core.NewSpan(cellGap, border))
			}
			line = append(line, padCell(cellAt(row, i), widths[i], alignAt(t.Align, i), text)...)
		}
		f.text(c, trimTrailingBlank(core.MergeSpans(line)))
	}
}

// columnWidths computes display widths for ncols columns within the
// available content width.
func (f *flattener) columnWidths(t markdown.Table, ncols, avail int) []int {
	natural := make([]int, ncols)
	measure := func(row []markdown.CellText) {
		for i := 0; i < ncols && i < len(row); i++ {
			if w := core.SpansWidth(row[i]); w > natural[i] {
				natural[i] = w
			}
		}
	}
	measure(t.Header)
	for _, row := range t.Rows {
		measure(row)
	}
	total := 0
	for i := range natural {
		if natural[i] < 1 {
			natural[i] = 1
		}
		total += natural[i]
	}

	content := avail - core.StringWidth(cellGap)*(ncols-1)
	if total <= content {
		return natural
	}
	if content < ncols {
		content = ncols
	}
	widths := make([]int, ncols)
	sum := 0
	for i, n := range natural {
		w := n * content / total
		if w < 1 {
			w = 1
		}
		widths[i] = w
		sum += w
	}
	// Proportional rounding can overshoot the floor guarantee; take the
	// excess back from the widest columns.
	for sum > content {
		widest := 0
		for i := 1; i < ncols; i++ {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 1 {
			break
		}
		widths[widest]--
		sum--
	}
	return widths
}

func cellAt(row []markdown.CellText, i int) []core.Span {
	if i < len(row) {
		return row[i]
	}
	return nil
}

func alignAt(align []markdown.Alignment, i int) markdown.Alignment {
	if i < len(align) {
		return align[i]
	}
	return markdown.AlignNone
}

func styledCell(spans []core.Span, st core.Style) []core.Span {
	out := make([]core.Span, len(spans))
	for i, sp := range spans {
		out[i] = core.Span{Text: sp.Text, Style: sp.Style.Merge(st)}
	}
	return out
}

// padCell clips or pads spans to exactly width columns, honoring the
// column alignment.
func padCell(spans []core.Span, width int, align markdown.Alignment, padStyle core.Style) []core.Span {
	spans = clipSpans(spans, width)
	gap := width - core.SpansWidth(spans)
	if gap <= 0 {
		return spans
	}
	pad := func(n int) core.Span {
		return core.NewSpan(strings.Repeat(" ", n), padStyle)
	}
	switch align {
	case markdown.AlignRight:
		return append([]core.Span{pad(gap)}, spans...)
	case markdown.AlignCenter:
		left := gap / 2
		out := append([]core.Span{pad(left)}, spans...)
		return append(out, pad(gap-left))
	default:
		return append(spans, pad(gap))
	}
}

// clipSpans truncates spans to at most width display columns, cutting
// on rune boundaries. A wide rune that straddles the limit is dropped.
func clipSpans(spans []core.Span, width int) []core.Span {
	var out []core.Span
	used := 0
	for _, sp := range spans {
		if used >= width {
			break
		}
		var sb strings.Builder
		for _, r := range sp.Text {
			rw := core.RuneWidth(r)
			if used+rw > width {
				if sb.Len() > 0 {
					out = append(out, core.Span{Text: sb.String(), Style: sp.Style})
				}
				return out
			}
			sb.WriteRune(r)
			used += rw
		}
		out = append(out, core.Span{Text: sb.String(), Style: sp.Style})
	}
	return out
}
