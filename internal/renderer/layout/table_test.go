package layout

import (
	"strings"
	"testing"

	"github.com/dshills/mdink/internal/markdown"
	"github.com/dshills/mdink/internal/renderer/core"
)

func cells(texts ...string) []markdown.CellText {
	out := make([]markdown.CellText, len(texts))
	for i, s := range texts {
		out[i] = spans(s)
	}
	return out
}

func TestTableNaturalWidths(t *testing.T) {
	table := markdown.Table{
		Header: cells("Name", "Qty"),
		Align:  []markdown.Alignment{markdown.AlignLeft, markdown.AlignRight},
		Rows: [][]markdown.CellText{
			cells("apples", "10"),
			cells("pears", "7"),
		},
	}
	doc := Flatten([]markdown.Block{table}, 80, testResolver())

	if got := lineText(t, doc, 0); got != "Name   │ Qty" {
		t.Errorf("header = %q", got)
	}
	if got := lineText(t, doc, 1); got != "───────┼────" {
		t.Errorf("separator = %q", got)
	}
	if got := lineText(t, doc, 2); got != "apples │  10" {
		t.Errorf("row 1 = %q", got)
	}
	if got := lineText(t, doc, 3); got != "pears  │   7" {
		t.Errorf("row 2 = %q", got)
	}
}

func TestTableCenterAlignment(t *testing.T) {
	table := markdown.Table{
		Header: cells("Col"),
		Align:  []markdown.Alignment{markdown.AlignCenter},
		Rows:   [][]markdown.CellText{cells("x")},
	}
	doc := Flatten([]markdown.Block{table}, 80, testResolver())
	if got := lineText(t, doc, 2); got != " x" {
		t.Errorf("centered cell = %q", got)
	}
}

func TestTableShrinksToWidth(t *testing.T) {
	table := markdown.Table{
		Header: cells("first", "second", "third", "fourth", "fifth", "sixth"),
		Rows: [][]markdown.CellText{
			cells("aaaaaaaaaa", "bbbbbbbbbb", "cccccccccc", "dddddddddd", "eeeeeeeeee", "ffffffffff"),
		},
	}
	doc := Flatten([]markdown.Block{table}, 40, testResolver())
	for i := range doc.Lines {
		ln, ok := doc.Lines[i].(TextLine)
		if !ok {
			t.Fatalf("line %d is %T", i, doc.Lines[i])
		}
		if w := core.SpansWidth(ln.Spans); w > 40 {
			t.Errorf("line %d is %d columns: %q", i, w, core.SpansText(ln.Spans))
		}
	}
}

func TestTableShortRowPadded(t *testing.T) {
	table := markdown.Table{
		Header: cells("a", "b"),
		Rows:   [][]markdown.CellText{{spans("x")}},
	}
	doc := Flatten([]markdown.Block{table}, 80, testResolver())
	if got := lineText(t, doc, 2); got != "x │" {
		t.Errorf("short row = %q", got)
	}
}

func TestTableEmptyIgnored(t *testing.T) {
	doc := Flatten([]markdown.Block{markdown.Table{}}, 80, testResolver())
	if len(doc.Lines) != 0 {
		t.Errorf("empty table produced %d lines", len(doc.Lines))
	}
}

func TestTableClipsCells(t *testing.T) {
	table := markdown.Table{
		Header: cells("h"),
		Rows:   [][]markdown.CellText{cells(strings.Repeat("z", 100))},
	}
	doc := Flatten([]markdown.Block{table}, 10, testResolver())
	row := lineText(t, doc, 2)
	if core.StringWidth(row) > 10 {
		t.Errorf("clipped row still %d columns: %q", core.StringWidth(row), row)
	}
}
