package layout

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/mdink/internal/markdown"
	"github.com/dshills/mdink/internal/renderer/core"
	"github.com/dshills/mdink/internal/renderer/style"
)

// bullets cycles with list nesting depth.
var bullets = []string{"•", "◦", "▪"}

// Flatten lays out interpreted blocks at the given viewport width and
// builds the navigation index. Width is clamped to at least one column.
func Flatten(blocks []markdown.Block, width int, res *style.Resolver) *Document {
	if width < 1 {
		width = 1
	}
	f := &flattener{
		doc: &Document{Width: width},
		res: res,
	}
	f.blocks(blocks, &ctx{width: width}, true)
	return f.doc
}

type flattener struct {
	doc *Document
	res *style.Resolver
}

// ctx is a nesting context. Each level contributes a prefix to every
// emitted line; first is used for the level's first line, cont for the
// rest. Width is the remaining content width after all prefixes.
type ctx struct {
	parent *ctx
	first  []core.Span
	cont   []core.Span
	used   bool
	width  int
	depth  int
}

func (c *ctx) nest(first, cont []core.Span, listDepth bool) *ctx {
	w := c.width - core.SpansWidth(cont)
	if w < 1 {
		w = 1
	}
	depth := c.depth
	if listDepth {
		depth++
	}
	return &ctx{parent: c, first: first, cont: cont, width: w, depth: depth}
}

// prefix returns the full prefix chain for the next line, consuming
// each level's first-line segment on its first call.
func (c *ctx) prefix() []core.Span {
	if c == nil {
		return nil
	}
	p := c.parent.prefix()
	seg := c.cont
	if !c.used {
		seg = c.first
		c.used = true
	}
	return append(p, seg...)
}

// contChain is the prefix chain using only continuation segments,
// without consuming anything. Used for blank separator lines.
func (c *ctx) contChain() []core.Span {
	if c == nil {
		return nil
	}
	return append(c.parent.contChain(), c.cont...)
}

func (f *flattener) text(c *ctx, spans []core.Span) {
	line := append(c.prefix(), spans...)
	f.doc.Lines = append(f.doc.Lines, TextLine{Spans: line})
}

func (f *flattener) code(c *ctx, spans []core.Span) {
	line := append(c.prefix(), spans...)
	f.doc.Lines = append(f.doc.Lines, CodeLine{Spans: line})
}

// blank separates sibling blocks. Inside a prefixed context the
// separator still shows the prefix (a bare quote bar, for example);
// at the top level it is a plain empty row.
func (f *flattener) blank(c *ctx) {
	p := trimTrailingBlank(c.contChain())
	if len(p) == 0 {
		f.doc.Lines = append(f.doc.Lines, EmptyLine{})
		return
	}
	f.doc.Lines = append(f.doc.Lines, TextLine{Spans: p})
}

func (f *flattener) blocks(bs []markdown.Block, c *ctx, spaced bool) {
	for i, b := range bs {
		if i > 0 && spaced {
			f.blank(c)
		}
		f.block(b, c)
	}
}

func (f *flattener) block(b markdown.Block, c *ctx) {
	switch blk := b.(type) {
	case markdown.Heading:
		f.doc.Index.Headings = append(f.doc.Index.Headings, NavEntry{
			Line:  len(f.doc.Lines),
			Level: blk.Level,
			Text:  core.SpansText(blk.Content),
		})
		for _, ln := range Reflow(blk.Content, c.width) {
			f.text(c, ln)
		}

	case markdown.Paragraph:
		for _, ln := range Reflow(blk.Content, c.width) {
			f.text(c, ln)
		}

	case markdown.CodeBlock:
		for _, ln := range blk.Lines {
			f.code(c, ln)
		}

	case markdown.ThematicBreak:
		if c.parent == nil {
			f.doc.Lines = append(f.doc.Lines, RuleLine{})
			return
		}
		rule := core.NewSpan(strings.Repeat("─", c.width), f.res.Rule())
		f.text(c, []core.Span{rule})

	case markdown.Spacer:
		for i := 0; i < blk.Lines; i++ {
			f.blank(c)
		}

	case markdown.BlockQuote:
		bar := []core.Span{core.NewSpan("│ ", f.res.QuoteBar())}
		f.blocks(blk.Children, c.nest(bar, bar, false), true)

	case markdown.List:
		f.list(blk, c)

	case markdown.TaskListItem:
		f.taskItem(blk, c)

	case markdown.Table:
		f.table(blk, c)

	case markdown.Image:
		f.doc.Lines = append(f.doc.Lines, ImageStartLine{
			Resource: blk.Resource,
			Height:   blk.Height,
		})
		for i := 1; i < blk.Height; i++ {
			f.doc.Lines = append(f.doc.Lines, ImageContinuationLine{})
		}

	case markdown.ImageFallback:
		alt := blk.Alt
		if alt == "" {
			alt = "image"
		}
		span := core.NewSpan("[image: "+alt+"]", f.res.ImageFallback())
		for _, ln := range Reflow([]core.Span{span}, c.width) {
			f.text(c, ln)
		}

	case markdown.Footnote:
		f.footnote(blk, c)
	}
}

func (f *flattener) list(l markdown.List, c *ctx) {
	num := l.Start
	for _, item := range l.Items {
		var marker string
		if l.Ordered {
			marker = fmt.Sprintf("%d. ", num)
			num++
		} else {
			marker = bullets[c.depth%len(bullets)] + " "
		}
		f.listItem(item, c, marker)
	}
}

func (f *flattener) listItem(item markdown.ListItem, c *ctx, marker string) {
	children := item.Children
	content := item.Content
	markerStyle := f.res.ListMarker()

	// A task item replaces the bullet with its check glyph.
	if len(content) == 0 && len(children) > 0 {
		if task, ok := children[0].(markdown.TaskListItem); ok {
			if task.Checked {
				marker = "☑ "
				markerStyle = f.res.TaskDone()
			} else {
				marker = "☐ "
				markerStyle = f.res.TaskPending()
			}
			content = task.Content
			children = children[1:]
		}
	}

	first := []core.Span{core.NewSpan(marker, markerStyle)}
	cont := []core.Span{core.NewSpan(strings.Repeat(" ", runewidth.StringWidth(marker)), f.res.Text())}
	ic := c.nest(first, cont, true)

	if len(content) > 0 {
		for _, ln := range Reflow(content, ic.width) {
			f.text(ic, ln)
		}
	}
	f.blocks(children, ic, false)
}

func (f *flattener) taskItem(t markdown.TaskListItem, c *ctx) {
	marker, st := "☐ ", f.res.TaskPending()
	if t.Checked {
		marker, st = "☑ ", f.res.TaskDone()
	}
	first := []core.Span{core.NewSpan(marker, st)}
	cont := []core.Span{core.NewSpan("  ", f.res.Text())}
	ic := c.nest(first, cont, false)
	for _, ln := range Reflow(t.Content, ic.width) {
		f.text(ic, ln)
	}
}

func (f *flattener) footnote(fn markdown.Footnote, c *ctx) {
	f.doc.Index.Footnotes = append(f.doc.Index.Footnotes, FootnoteEntry{
		Line:  len(f.doc.Lines),
		Label: fn.Label,
	})
	marker := "[^" + fn.Label + "] "
	first := []core.Span{core.NewSpan(marker, f.res.FootnoteLabel())}
	cont := []core.Span{core.NewSpan(strings.Repeat(" ", runewidth.StringWidth(marker)), f.res.Text())}
	f.blocks(fn.Children, c.nest(first, cont, false), false)
}

// trimTrailingBlank drops trailing whitespace from a span run, removing
// spans that become empty.
func trimTrailingBlank(spans []core.Span) []core.Span {
	for len(spans) > 0 {
		last := len(spans) - 1
		t := strings.TrimRight(spans[last].Text, " \t")
		if t != "" {
			out := append([]core.Span{}, spans...)
			out[last].Text = t
			return out
		}
		spans = spans[:last]
	}
	return nil
}
