package markdown

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/mdink/internal/renderer/core"
	"github.com/dshills/mdink/internal/renderer/style"
)

// fakeHighlighter records the languages it was asked for and returns
// plain line-split output.
type fakeHighlighter struct {
	langs []string
}

func (f *fakeHighlighter) Highlight(code, language string) [][]core.Span {
	f.langs = append(f.langs, language)
	lines := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
	out := make([][]core.Span, len(lines))
	for i, ln := range lines {
		out[i] = []core.Span{core.NewSpan(ln, core.DefaultStyle())}
	}
	return out
}

// fakeLoader returns a fixed placement, or an error when failing.
type fakeLoader struct {
	paths []string
	fail  bool
}

func (f *fakeLoader) Load(path string, maxWidthCells int) (ImagePlacement, error) {
	f.paths = append(f.paths, path)
	if f.fail {
		return ImagePlacement{}, errors.New("decode failed")
	}
	return ImagePlacement{Resource: 0, Width: maxWidthCells, Height: 3}, nil
}

func interpret(t *testing.T, src string) []Block {
	t.Helper()
	res := style.NewResolver(style.DefaultTheme())
	return Interpret([]byte(src), res, &fakeHighlighter{}, nil, Options{})
}

func TestInterpretHeadingAndParagraph(t *testing.T) {
	blocks := interpret(t, "# Title\n\nSome **bold** text.")
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}

	h, ok := blocks[0].(Heading)
	if !ok {
		t.Fatalf("block 0 is %T", blocks[0])
	}
	if h.Level != 1 || core.SpansText(h.Content) != "Title" {
		t.Errorf("heading = level %d, text %q", h.Level, core.SpansText(h.Content))
	}

	p, ok := blocks[1].(Paragraph)
	if !ok {
		t.Fatalf("block 1 is %T", blocks[1])
	}
	if core.SpansText(p.Content) != "Some bold text." {
		t.Errorf("paragraph text = %q", core.SpansText(p.Content))
	}
	foundBold := false
	for _, sp := range p.Content {
		if sp.Text == "bold" {
			foundBold = true
			if sp.Style.Attributes&core.AttrBold == 0 {
				t.Error("bold span lost its attribute")
			}
		} else if sp.Style.Attributes&core.AttrBold != 0 {
			t.Errorf("span %q should not be bold", sp.Text)
		}
	}
	if !foundBold {
		t.Error("no span with text \"bold\"")
	}
}

func TestInterpretCodeFence(t *testing.T) {
	hl := &fakeHighlighter{}
	res := style.NewResolver(style.DefaultTheme())
	blocks := Interpret([]byte("```go\nfmt.Println(1)\n```\n"), res, hl, nil, Options{})

	if len(blocks) != 1 {
		t.Fatalf("got %d blocks", len(blocks))
	}
	cb, ok := blocks[0].(CodeBlock)
	if !ok {
		t.Fatalf("block is %T", blocks[0])
	}
	if cb.Language != "go" {
		t.Errorf("language = %q", cb.Language)
	}
	if len(cb.Lines) != 1 || core.SpansText(cb.Lines[0]) != "fmt.Println(1)" {
		t.Errorf("lines = %v", cb.Lines)
	}
	if len(hl.langs) != 1 || hl.langs[0] != "go" {
		t.Errorf("highlighter saw %v", hl.langs)
	}
}

func TestInterpretHugeCodeSkipsHighlighter(t *testing.T) {
	hl := &fakeHighlighter{}
	res := style.NewResolver(style.DefaultTheme())
	body := strings.Repeat("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\n", (MaxHighlightBytes/32)+64)
	src := "```go\n" + body + "```\n"
	blocks := Interpret([]byte(src), res, hl, nil, Options{})

	if len(hl.langs) != 0 {
		t.Error("oversized block reached the highlighter")
	}
	cb, ok := blocks[0].(CodeBlock)
	if !ok {
		t.Fatalf("block is %T", blocks[0])
	}
	if len(cb.Lines) == 0 {
		t.Error("oversized block lost its content")
	}
}

func TestInterpretBlockQuote(t *testing.T) {
	blocks := interpret(t, "> quoted text")
	q, ok := blocks[0].(BlockQuote)
	if !ok {
		t.Fatalf("block is %T", blocks[0])
	}
	p, ok := q.Children[0].(Paragraph)
	if !ok {
		t.Fatalf("child is %T", q.Children[0])
	}
	if core.SpansText(p.Content) != "quoted text" {
		t.Errorf("got %q", core.SpansText(p.Content))
	}
}

func TestInterpretUnorderedList(t *testing.T) {
	blocks := interpret(t, "- alpha\n- beta\n")
	l, ok := blocks[0].(List)
	if !ok {
		t.Fatalf("block is %T", blocks[0])
	}
	if l.Ordered {
		t.Error("list should be unordered")
	}
	if len(l.Items) != 2 {
		t.Fatalf("got %d items", len(l.Items))
	}
	if core.SpansText(l.Items[0].Content) != "alpha" || core.SpansText(l.Items[1].Content) != "beta" {
		t.Errorf("items = %q, %q", core.SpansText(l.Items[0].Content), core.SpansText(l.Items[1].Content))
	}
}

func TestInterpretOrderedListStart(t *testing.T) {
	blocks := interpret(t, "3. alpha\n4. beta\n")
	l, ok := blocks[0].(List)
	if !ok {
		t.Fatalf("block is %T", blocks[0])
	}
	if !l.Ordered || l.Start != 3 {
		t.Errorf("ordered=%v start=%d", l.Ordered, l.Start)
	}
}

func TestInterpretNestedList(t *testing.T) {
	blocks := interpret(t, "- outer\n  - inner\n")
	l := blocks[0].(List)
	if len(l.Items) != 1 {
		t.Fatalf("got %d items", len(l.Items))
	}
	item := l.Items[0]
	if core.SpansText(item.Content) != "outer" {
		t.Errorf("content = %q", core.SpansText(item.Content))
	}
	sub, ok := item.Children[0].(List)
	if !ok {
		t.Fatalf("child is %T", item.Children[0])
	}
	if core.SpansText(sub.Items[0].Content) != "inner" {
		t.Errorf("nested content = %q", core.SpansText(sub.Items[0].Content))
	}
}

func TestInterpretTaskList(t *testing.T) {
	blocks := interpret(t, "- [x] done\n- [ ] todo\n")
	l := blocks[0].(List)
	if len(l.Items) != 2 {
		t.Fatalf("got %d items", len(l.Items))
	}
	for i, want := range []bool{true, false} {
		item := l.Items[i]
		if len(item.Content) != 0 {
			t.Errorf("item %d content should move into the task block", i)
		}
		task, ok := item.Children[0].(TaskListItem)
		if !ok {
			t.Fatalf("item %d child is %T", i, item.Children[0])
		}
		if task.Checked != want {
			t.Errorf("item %d checked = %v", i, task.Checked)
		}
	}
}

func TestInterpretTable(t *testing.T) {
	src := "| Name | Qty |\n|:-----|----:|\n| fox  | 2   |\n"
	blocks := interpret(t, src)
	tb, ok := blocks[0].(Table)
	if !ok {
		t.Fatalf("block is %T", blocks[0])
	}
	if len(tb.Header) != 2 {
		t.Fatalf("header has %d cells", len(tb.Header))
	}
	if core.SpansText(tb.Header[0]) != "Name" || core.SpansText(tb.Header[1]) != "Qty" {
		t.Errorf("header = %q, %q", core.SpansText(tb.Header[0]), core.SpansText(tb.Header[1]))
	}
	if tb.Align[0] != AlignLeft || tb.Align[1] != AlignRight {
		t.Errorf("align = %v", tb.Align)
	}
	if len(tb.Rows) != 1 || core.SpansText(tb.Rows[0][0]) != "fox" {
		t.Errorf("rows = %v", tb.Rows)
	}
}

func TestInterpretTableAlignments(t *testing.T) {
	src := "| a | b | c | d |\n|:--|:-:|--:|---|\n| 1 | 2 | 3 | 4 |\n"
	blocks := interpret(t, src)
	tb, ok := blocks[0].(Table)
	if !ok {
		t.Fatalf("block is %T", blocks[0])
	}
	want := []Alignment{AlignLeft, AlignCenter, AlignRight, AlignNone}
	if len(tb.Align) != len(want) {
		t.Fatalf("align has %d entries", len(tb.Align))
	}
	for i, a := range want {
		if tb.Align[i] != a {
			t.Errorf("align[%d] = %v, want %v", i, tb.Align[i], a)
		}
	}
}

func TestInterpretStrikethrough(t *testing.T) {
	blocks := interpret(t, "~~gone~~")
	p := blocks[0].(Paragraph)
	if core.SpansText(p.Content) != "gone" {
		t.Fatalf("text = %q", core.SpansText(p.Content))
	}
	if p.Content[0].Style.Attributes&core.AttrStrikethrough == 0 {
		t.Error("strikethrough attribute missing")
	}
}

func TestInterpretHardBreak(t *testing.T) {
	blocks := interpret(t, "first  \nsecond")
	p := blocks[0].(Paragraph)
	if !strings.Contains(core.SpansText(p.Content), "\n") {
		t.Error("hard break should produce a newline span")
	}
}

func TestInterpretImageWithoutLoader(t *testing.T) {
	blocks := interpret(t, "![alt text](pic.png)")
	fb, ok := blocks[0].(ImageFallback)
	if !ok {
		t.Fatalf("block is %T", blocks[0])
	}
	if fb.Alt != "alt text" {
		t.Errorf("alt = %q", fb.Alt)
	}
}

func TestInterpretImageLoaded(t *testing.T) {
	res := style.NewResolver(style.DefaultTheme())
	loader := &fakeLoader{}
	blocks := Interpret([]byte("![logo](pic.png)"), res, &fakeHighlighter{}, loader,
		Options{BaseDir: "docs", MaxImageWidth: 40})

	img, ok := blocks[0].(Image)
	if !ok {
		t.Fatalf("block is %T", blocks[0])
	}
	if img.Width != 40 || img.Height != 3 || img.Alt != "logo" {
		t.Errorf("image = %+v", img)
	}
	if len(loader.paths) != 1 || loader.paths[0] != filepath.Join("docs", "pic.png") {
		t.Errorf("loader saw %v", loader.paths)
	}
}

func TestInterpretImageLoadFailure(t *testing.T) {
	res := style.NewResolver(style.DefaultTheme())
	loader := &fakeLoader{fail: true}
	blocks := Interpret([]byte("![logo](pic.png)"), res, &fakeHighlighter{}, loader,
		Options{MaxImageWidth: 40})
	if _, ok := blocks[0].(ImageFallback); !ok {
		t.Errorf("failed load produced %T, want fallback", blocks[0])
	}
}

func TestInterpretRemoteImageFallsBack(t *testing.T) {
	res := style.NewResolver(style.DefaultTheme())
	loader := &fakeLoader{}
	blocks := Interpret([]byte("![a](https://example.com/x.png)"), res, &fakeHighlighter{}, loader,
		Options{MaxImageWidth: 40})
	if _, ok := blocks[0].(ImageFallback); !ok {
		t.Errorf("remote image produced %T, want fallback", blocks[0])
	}
	if len(loader.paths) != 0 {
		t.Errorf("loader should not be called for remote images, saw %v", loader.paths)
	}
}

func TestInterpretFootnote(t *testing.T) {
	blocks := interpret(t, "body[^1]\n\n[^1]: the note\n")

	p, ok := blocks[0].(Paragraph)
	if !ok {
		t.Fatalf("block 0 is %T", blocks[0])
	}
	if !strings.Contains(core.SpansText(p.Content), "[^1]") {
		t.Errorf("paragraph %q lacks footnote reference", core.SpansText(p.Content))
	}

	var fn *Footnote
	for _, b := range blocks {
		if f, ok := b.(Footnote); ok {
			fn = &f
			break
		}
	}
	if fn == nil {
		t.Fatal("no footnote block")
	}
	if fn.Label != "1" {
		t.Errorf("label = %q", fn.Label)
	}
	note, ok := fn.Children[0].(Paragraph)
	if !ok {
		t.Fatalf("footnote child is %T", fn.Children[0])
	}
	if core.SpansText(note.Content) != "the note" {
		t.Errorf("note = %q", core.SpansText(note.Content))
	}
}

func TestInterpretThematicBreak(t *testing.T) {
	blocks := interpret(t, "a\n\n---\n\nb")
	found := false
	for _, b := range blocks {
		if _, ok := b.(ThematicBreak); ok {
			found = true
		}
	}
	if !found {
		t.Error("no thematic break emitted")
	}
}

func TestInterpretEmptyInput(t *testing.T) {
	blocks := interpret(t, "")
	if len(blocks) != 0 {
		t.Errorf("empty input produced %d blocks", len(blocks))
	}
}

func TestInterpretInlineCode(t *testing.T) {
	res := style.NewResolver(style.DefaultTheme())
	blocks := Interpret([]byte("use `go vet` often"), res, &fakeHighlighter{}, nil, Options{})
	p := blocks[0].(Paragraph)
	var codeSpan *core.Span
	for i := range p.Content {
		if p.Content[i].Text == "go vet" {
			codeSpan = &p.Content[i]
		}
	}
	if codeSpan == nil {
		t.Fatal("inline code span not found")
	}
	if codeSpan.Style.Equals(res.Text()) {
		t.Error("inline code should be styled differently from body text")
	}
}
