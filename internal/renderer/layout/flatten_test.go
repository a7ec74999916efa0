package layout

import (
	"strings"
	"testing"

	"github.com/dshills/mdink/internal/markdown"
	"github.com/dshills/mdink/internal/renderer/core"
	"github.com/dshills/mdink/internal/renderer/style"
)

func testResolver() *style.Resolver {
	return style.NewResolver(style.DefaultTheme())
}

func spans(text string) []core.Span {
	return []core.Span{core.NewSpan(text, core.DefaultStyle())}
}

func lineText(t *testing.T, d *Document, i int) string {
	t.Helper()
	if i >= len(d.Lines) {
		t.Fatalf("document has %d lines, want index %d", len(d.Lines), i)
	}
	return PlainText(d.Lines[i])
}

func TestFlattenHeadingAndParagraph(t *testing.T) {
	blocks := []markdown.Block{
		markdown.Heading{Level: 1, Content: spans("Title")},
		markdown.Paragraph{Content: spans("Some bold text.")},
	}
	doc := Flatten(blocks, 80, testResolver())

	if got := lineText(t, doc, 0); got != "Title" {
		t.Errorf("line 0 = %q", got)
	}
	if _, ok := doc.Lines[1].(EmptyLine); !ok {
		t.Errorf("line 1 should be blank, got %T", doc.Lines[1])
	}
	if got := lineText(t, doc, 2); got != "Some bold text." {
		t.Errorf("line 2 = %q", got)
	}
	if len(doc.Index.Headings) != 1 {
		t.Fatalf("expected 1 heading entry, got %d", len(doc.Index.Headings))
	}
	h := doc.Index.Headings[0]
	if h.Line != 0 || h.Level != 1 || h.Text != "Title" {
		t.Errorf("heading entry = %+v", h)
	}
}

func TestFlattenQuoteDepth(t *testing.T) {
	blocks := []markdown.Block{
		markdown.BlockQuote{Children: []markdown.Block{
			markdown.BlockQuote{Children: []markdown.Block{
				markdown.Paragraph{Content: spans("deep")},
			}},
		}},
	}
	doc := Flatten(blocks, 80, testResolver())
	if got := lineText(t, doc, 0); got != "│ │ deep" {
		t.Errorf("got %q", got)
	}
}

func TestFlattenQuoteBlankKeepsBar(t *testing.T) {
	blocks := []markdown.Block{
		markdown.BlockQuote{Children: []markdown.Block{
			markdown.Paragraph{Content: spans("one")},
			markdown.Paragraph{Content: spans("two")},
		}},
	}
	doc := Flatten(blocks, 80, testResolver())
	if got := lineText(t, doc, 1); got != "│" {
		t.Errorf("separator line = %q, want quote bar", got)
	}
}

func TestFlattenOrderedNumbering(t *testing.T) {
	blocks := []markdown.Block{
		markdown.List{Ordered: true, Start: 3, Items: []markdown.ListItem{
			{Content: spans("alpha")},
			{Content: spans("beta")},
			{Content: spans("gamma")},
		}},
	}
	doc := Flatten(blocks, 80, testResolver())
	want := []string{"3. alpha", "4. beta", "5. gamma"}
	for i, w := range want {
		if got := lineText(t, doc, i); got != w {
			t.Errorf("line %d = %q, want %q", i, got, w)
		}
	}
}

func TestFlattenBulletsByDepth(t *testing.T) {
	blocks := []markdown.Block{
		markdown.List{Items: []markdown.ListItem{
			{Content: spans("outer"), Children: []markdown.Block{
				markdown.List{Items: []markdown.ListItem{
					{Content: spans("inner")},
				}},
			}},
		}},
	}
	doc := Flatten(blocks, 80, testResolver())
	if got := lineText(t, doc, 0); got != "• outer" {
		t.Errorf("line 0 = %q", got)
	}
	if got := lineText(t, doc, 1); got != "  ◦ inner" {
		t.Errorf("line 1 = %q", got)
	}
}

func TestFlattenListContinuationIndent(t *testing.T) {
	blocks := []markdown.Block{
		markdown.List{Items: []markdown.ListItem{
			{Content: spans("one two three four")},
		}},
	}
	doc := Flatten(blocks, 12, testResolver())
	if len(doc.Lines) < 2 {
		t.Fatalf("expected wrapped item, got %d lines", len(doc.Lines))
	}
	first := lineText(t, doc, 0)
	if !strings.HasPrefix(first, "• ") {
		t.Errorf("first line %q has no bullet", first)
	}
	second := lineText(t, doc, 1)
	if !strings.HasPrefix(second, "  ") || strings.HasPrefix(second, "• ") {
		t.Errorf("continuation %q should be indented without a bullet", second)
	}
}

func TestFlattenTaskItems(t *testing.T) {
	blocks := []markdown.Block{
		markdown.List{Items: []markdown.ListItem{
			{Children: []markdown.Block{markdown.TaskListItem{Checked: true, Content: spans("done")}}},
			{Children: []markdown.Block{markdown.TaskListItem{Checked: false, Content: spans("todo")}}},
		}},
	}
	doc := Flatten(blocks, 80, testResolver())
	if got := lineText(t, doc, 0); got != "☑ done" {
		t.Errorf("line 0 = %q", got)
	}
	if got := lineText(t, doc, 1); got != "☐ todo" {
		t.Errorf("line 1 = %q", got)
	}
}

func TestFlattenImageLineCount(t *testing.T) {
	blocks := []markdown.Block{
		markdown.Image{Resource: 2, Alt: "logo", Width: 10, Height: 4},
	}
	doc := Flatten(blocks, 80, testResolver())
	if len(doc.Lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(doc.Lines))
	}
	start, ok := doc.Lines[0].(ImageStartLine)
	if !ok {
		t.Fatalf("line 0 is %T", doc.Lines[0])
	}
	if start.Resource != 2 || start.Height != 4 {
		t.Errorf("start line = %+v", start)
	}
	for i := 1; i < 4; i++ {
		if _, ok := doc.Lines[i].(ImageContinuationLine); !ok {
			t.Errorf("line %d is %T, want continuation", i, doc.Lines[i])
		}
	}
}

func TestFlattenImageFallback(t *testing.T) {
	blocks := []markdown.Block{markdown.ImageFallback{Alt: "chart"}}
	doc := Flatten(blocks, 80, testResolver())
	if got := lineText(t, doc, 0); got != "[image: chart]" {
		t.Errorf("got %q", got)
	}
}

func TestFlattenRule(t *testing.T) {
	doc := Flatten([]markdown.Block{markdown.ThematicBreak{}}, 80, testResolver())
	if _, ok := doc.Lines[0].(RuleLine); !ok {
		t.Errorf("top-level rule is %T", doc.Lines[0])
	}

	nested := []markdown.Block{
		markdown.BlockQuote{Children: []markdown.Block{markdown.ThematicBreak{}}},
	}
	doc = Flatten(nested, 20, testResolver())
	got := lineText(t, doc, 0)
	if !strings.HasPrefix(got, "│ ─") {
		t.Errorf("nested rule = %q", got)
	}
	if w := core.SpansWidth(doc.Lines[0].(TextLine).Spans); w != 20 {
		t.Errorf("nested rule width = %d, want 20", w)
	}
}

func TestFlattenFootnote(t *testing.T) {
	blocks := []markdown.Block{
		markdown.Footnote{Label: "1", Children: []markdown.Block{
			markdown.Paragraph{Content: spans("a note")},
		}},
	}
	doc := Flatten(blocks, 80, testResolver())
	if got := lineText(t, doc, 0); got != "[^1] a note" {
		t.Errorf("got %q", got)
	}
	if len(doc.Index.Footnotes) != 1 || doc.Index.Footnotes[0].Label != "1" {
		t.Errorf("footnote index = %+v", doc.Index.Footnotes)
	}
}

func TestFlattenWidthClamped(t *testing.T) {
	blocks := []markdown.Block{markdown.Paragraph{Content: spans("hi")}}
	doc := Flatten(blocks, 0, testResolver())
	if doc.Width != 1 {
		t.Errorf("width = %d, want 1", doc.Width)
	}
}

func TestFlattenCodeBlockLines(t *testing.T) {
	blocks := []markdown.Block{
		markdown.CodeBlock{Language: "go", Lines: [][]core.Span{
			spans("func main() {"),
			spans("}"),
		}},
	}
	doc := Flatten(blocks, 80, testResolver())
	if _, ok := doc.Lines[0].(CodeLine); !ok {
		t.Fatalf("line 0 is %T", doc.Lines[0])
	}
	if got := lineText(t, doc, 0); got != "func main() {" {
		t.Errorf("got %q", got)
	}
}
