package markdown

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gparser "github.com/yuin/goldmark/parser"
	gtext "github.com/yuin/goldmark/text"

	"github.com/dshills/mdink/internal/renderer/core"
	"github.com/dshills/mdink/internal/renderer/style"
)

// MaxHighlightBytes bounds the code block size sent to the highlighter.
// Larger blocks render as plain unstyled text so pathological input
// cannot exhaust CPU or memory in the highlighting engine.
const MaxHighlightBytes = 512 * 1024

// Highlighter produces pre-styled lines for a code block. It must
// return plain line-segmented output for unknown languages and never
// fail the caller.
type Highlighter interface {
	Highlight(code, language string) [][]core.Span
}

// ImagePlacement describes a loaded image: the arena index of its
// graphics resource and the cell footprint it reserves.
type ImagePlacement struct {
	Resource int
	Width    int
	Height   int
}

// ImageLoader loads an image file, registers its graphics handle with
// the resource arena, and reports the reserved cell dimensions.
type ImageLoader interface {
	Load(path string, maxWidthCells int) (ImagePlacement, error)
}

// Options configures interpretation.
type Options struct {
	// BaseDir resolves relative image paths (usually the document dir).
	BaseDir string

	// MaxImageWidth caps image width in cells. Zero disables images.
	MaxImageWidth int
}

// Interpret walks the markdown event stream for source and produces
// the block IR. It never returns an error: malformed input degrades
// into plain content, failed images into ImageFallback blocks.
func Interpret(source []byte, res *style.Resolver, hl Highlighter, images ImageLoader, opts Options) []Block {
	in := &interp{
		src:    source,
		res:    res,
		hl:     hl,
		images: images,
		opts:   opts,
	}
	in.push(frame{kind: frameDocument})

	md := goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Footnote))
	doc := md.Parser().Parse(gtext.NewReader(source), gparser.WithContext(gparser.NewContext()))

	_ = ast.Walk(doc, in.visit)

	// Unwind any frames a malformed tree left open so their content is
	// not lost.
	for len(in.stack) > 1 {
		in.pop()
	}
	return in.stack[0].children
}

// frameKind identifies what block-level element a state frame is
// accumulating.
type frameKind int

const (
	frameDocument frameKind = iota
	frameHeading
	frameParagraph
	frameQuote
	frameList
	frameListItem
	frameTable
	frameTableHeaderRow
	frameTableRow
	frameTableCell
	frameFootnote
)

// frame is one entry of the interpreter's state stack. Start events
// push a frame; the matching end event pops it and emits the finished
// block into the parent frame.
type frame struct {
	kind frameKind

	// Inline accumulation (heading, paragraph, table cell).
	spans []core.Span

	// Child block accumulation (document, quote, list item, footnote).
	children []Block

	// Heading.
	level int

	// List.
	ordered bool
	start   int
	items   []ListItem

	// Task marker seen inside this paragraph.
	task    bool
	checked bool

	// Table.
	align  []Alignment
	header []CellText
	rows   [][]CellText
	row    []CellText

	// Footnote.
	label string
}

// container reports whether the frame accumulates child blocks.
func (f *frame) container() bool {
	switch f.kind {
	case frameDocument, frameQuote, frameListItem, frameFootnote:
		return true
	case frameHeading, frameParagraph, frameList, frameTable,
		frameTableHeaderRow, frameTableRow, frameTableCell:
		return false
	}
	return false
}

// inline reports whether the frame accumulates inline spans.
func (f *frame) inline() bool {
	switch f.kind {
	case frameHeading, frameParagraph, frameTableCell:
		return true
	case frameDocument, frameQuote, frameList, frameListItem,
		frameTable, frameTableHeaderRow, frameTableRow, frameFootnote:
		return false
	}
	return false
}

type interp struct {
	src    []byte
	res    *style.Resolver
	hl     Highlighter
	images ImageLoader
	opts   Options

	// stack is the block-level state stack; stack[0] is the document
	// frame and is never popped by events.
	stack []frame

	// styles is the inline style stack. Text events take the merged
	// style of the whole stack at the moment they are seen.
	styles []core.Style
}

func (in *interp) push(f frame) {
	in.stack = append(in.stack, f)
}

// pop removes the top frame and emits its finished block.
func (in *interp) pop() {
	n := len(in.stack)
	if n <= 1 {
		return
	}
	f := in.stack[n-1]
	in.stack = in.stack[:n-1]

	switch f.kind {
	case frameHeading:
		in.emit(Heading{Level: f.level, Content: f.spans})
	case frameParagraph:
		if f.task {
			in.emit(TaskListItem{Checked: f.checked, Content: f.spans})
		} else {
			in.emit(Paragraph{Content: f.spans})
		}
	case frameQuote:
		in.emit(BlockQuote{Children: f.children})
	case frameList:
		in.emit(List{Ordered: f.ordered, Start: f.start, Items: f.items})
	case frameListItem:
		item := ListItem{Children: f.children}
		// Promote a leading plain paragraph to the item's own content
		// so simple items render on the marker line.
		if len(item.Children) > 0 {
			if p, ok := item.Children[0].(Paragraph); ok {
				item.Content = p.Content
				item.Children = item.Children[1:]
			}
		}
		if top := in.top(); top.kind == frameList {
			top.items = append(top.items, item)
		} else {
			// Item outside a list frame: degrade to its children.
			for _, c := range item.Children {
				in.emit(c)
			}
		}
	case frameTable:
		in.emit(Table{Header: f.header, Align: f.align, Rows: f.rows})
	case frameTableHeaderRow:
		if top := in.top(); top.kind == frameTable {
			top.header = f.row
		}
	case frameTableRow:
		if top := in.top(); top.kind == frameTable {
			top.rows = append(top.rows, f.row)
		}
	case frameTableCell:
		if top := in.top(); top.kind == frameTableHeaderRow || top.kind == frameTableRow {
			top.row = append(top.row, f.spans)
		}
	case frameFootnote:
		in.emit(Footnote{Label: f.label, Children: f.children})
	case frameDocument:
		// Unreachable: the document frame is never popped.
	}
}

func (in *interp) top() *frame {
	return &in.stack[len(in.stack)-1]
}

// emit appends a finished block to the innermost container frame.
func (in *interp) emit(b Block) {
	for i := len(in.stack) - 1; i >= 0; i-- {
		if in.stack[i].container() {
			in.stack[i].children = append(in.stack[i].children, b)
			return
		}
	}
}

// appendSpan adds inline text to the innermost inline frame. Text
// arriving outside any inline context is dropped.
func (in *interp) appendSpan(s core.Span) {
	if s.Text == "" {
		return
	}
	for i := len(in.stack) - 1; i >= 0; i-- {
		if in.stack[i].inline() {
			in.stack[i].spans = append(in.stack[i].spans, s)
			return
		}
	}
}

func (in *interp) pushStyle(s core.Style) {
	in.styles = append(in.styles, s)
}

func (in *interp) popStyle() {
	if len(in.styles) > 0 {
		in.styles = in.styles[:len(in.styles)-1]
	}
}

// effectiveStyle merges the inline style stack over the base text
// style. Styles close over exactly the text seen between push and pop.
func (in *interp) effectiveStyle() core.Style {
	s := in.res.Text()
	for _, e := range in.styles {
		s = s.Merge(e)
	}
	return s
}

// visit routes one walk event. Entering corresponds to a start tag,
// leaving to the matching end tag.
func (in *interp) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Document:
		return ast.WalkContinue, nil

	case *ast.Heading:
		if entering {
			in.push(frame{kind: frameHeading, level: node.Level})
			in.pushStyle(in.res.Heading(node.Level))
		} else {
			in.popStyle()
			in.pop()
		}
		return ast.WalkContinue, nil

	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			in.push(frame{kind: frameParagraph})
		} else {
			in.pop()
		}
		return ast.WalkContinue, nil

	case *ast.FencedCodeBlock:
		if entering {
			lang := fenceLanguage(node.Language(in.src))
			in.emitCode(lang, blockText(node, in.src))
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeBlock:
		if entering {
			in.emitCode("", blockText(node, in.src))
		}
		return ast.WalkSkipChildren, nil

	case *ast.ThematicBreak:
		if entering {
			in.emit(ThematicBreak{})
		}
		return ast.WalkSkipChildren, nil

	case *ast.Blockquote:
		if entering {
			in.push(frame{kind: frameQuote})
		} else {
			in.pop()
		}
		return ast.WalkContinue, nil

	case *ast.List:
		if entering {
			start := node.Start
			if node.IsOrdered() && start == 0 {
				start = 1
			}
			in.push(frame{kind: frameList, ordered: node.IsOrdered(), start: start})
		} else {
			in.pop()
		}
		return ast.WalkContinue, nil

	case *ast.ListItem:
		if entering {
			in.push(frame{kind: frameListItem})
		} else {
			in.pop()
		}
		return ast.WalkContinue, nil

	case *east.TaskCheckBox:
		if entering {
			in.markTask(node.IsChecked)
		}
		return ast.WalkSkipChildren, nil

	case *ast.Emphasis:
		if entering {
			if node.Level >= 2 {
				in.pushStyle(in.res.Strong())
			} else {
				in.pushStyle(in.res.Emphasis())
			}
		} else {
			in.popStyle()
		}
		return ast.WalkContinue, nil

	case *east.Strikethrough:
		if entering {
			in.pushStyle(in.res.Strikethrough())
		} else {
			in.popStyle()
		}
		return ast.WalkContinue, nil

	case *ast.Link:
		if entering {
			in.pushStyle(in.res.Link())
		} else {
			in.popStyle()
		}
		return ast.WalkContinue, nil

	case *ast.AutoLink:
		if entering {
			label := string(node.Label(in.src))
			in.appendSpan(core.NewSpan(label, in.effectiveStyle().Merge(in.res.Link())))
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeSpan:
		if entering {
			in.pushStyle(in.res.InlineCode())
		} else {
			in.popStyle()
		}
		return ast.WalkContinue, nil

	case *ast.Text:
		if entering {
			seg := node.Segment
			in.appendSpan(core.NewSpan(string(seg.Value(in.src)), in.effectiveStyle()))
			if node.HardLineBreak() {
				in.appendSpan(core.NewSpan("\n", in.effectiveStyle()))
			} else if node.SoftLineBreak() {
				in.appendSpan(core.NewSpan(" ", in.effectiveStyle()))
			}
		}
		return ast.WalkContinue, nil

	case *ast.String:
		if entering {
			in.appendSpan(core.NewSpan(string(node.Value), in.effectiveStyle()))
		}
		return ast.WalkContinue, nil

	case *ast.Image:
		if entering {
			in.emitImage(node)
		}
		return ast.WalkSkipChildren, nil

	case *east.Table:
		if entering {
			aligns := make([]Alignment, len(node.Alignments))
			for i, a := range node.Alignments {
				aligns[i] = convertAlignment(a)
			}
			in.push(frame{kind: frameTable, align: aligns})
		} else {
			in.pop()
		}
		return ast.WalkContinue, nil

	case *east.TableHeader:
		if entering {
			in.push(frame{kind: frameTableHeaderRow})
		} else {
			in.pop()
		}
		return ast.WalkContinue, nil

	case *east.TableRow:
		if entering {
			in.push(frame{kind: frameTableRow})
		} else {
			in.pop()
		}
		return ast.WalkContinue, nil

	case *east.TableCell:
		if entering {
			in.push(frame{kind: frameTableCell})
		} else {
			in.pop()
		}
		return ast.WalkContinue, nil

	case *east.FootnoteLink:
		if entering {
			label := fmt.Sprintf("[^%d]", node.Index)
			in.appendSpan(core.NewSpan(label, in.res.FootnoteLabel()))
		}
		return ast.WalkSkipChildren, nil

	case *east.FootnoteBacklink:
		return ast.WalkSkipChildren, nil

	case *east.Footnote:
		if entering {
			label := string(node.Ref)
			if label == "" {
				label = fmt.Sprintf("%d", node.Index)
			}
			in.push(frame{kind: frameFootnote, label: label})
		} else {
			in.pop()
		}
		return ast.WalkContinue, nil

	case *east.FootnoteList:
		return ast.WalkContinue, nil

	case *ast.HTMLBlock, *ast.RawHTML:
		return ast.WalkSkipChildren, nil

	default:
		// Unrecognized nodes are ignored, never fatal. Inline unknowns
		// keep their text children; block unknowns are skipped whole.
		if n.Type() == ast.TypeInline {
			return ast.WalkContinue, nil
		}
		return ast.WalkSkipChildren, nil
	}
}

// convertAlignment maps a goldmark table alignment to ours.
func convertAlignment(a east.Alignment) Alignment {
	switch a {
	case east.AlignLeft:
		return AlignLeft
	case east.AlignCenter:
		return AlignCenter
	case east.AlignRight:
		return AlignRight
	}
	return AlignNone
}

// markTask flags the innermost paragraph frame as a task item.
func (in *interp) markTask(checked bool) {
	for i := len(in.stack) - 1; i >= 0; i-- {
		if in.stack[i].kind == frameParagraph {
			in.stack[i].task = true
			in.stack[i].checked = checked
			return
		}
	}
}

// emitCode highlights (or degrades) a code block and emits it.
func (in *interp) emitCode(lang, code string) {
	var lines [][]core.Span
	if len(code) > MaxHighlightBytes || in.hl == nil {
		lines = plainCodeLines(code, in.res.CodeBlock())
	} else {
		lines = in.hl.Highlight(code, lang)
	}
	in.emit(CodeBlock{Language: lang, Lines: lines})
}

// emitImage resolves and loads an image node. Every failure path folds
// into an ImageFallback block; no error reaches the walk.
func (in *interp) emitImage(node *ast.Image) {
	alt := nodeText(node, in.src)
	if alt == "" {
		alt = string(node.Title)
	}
	dest := strings.TrimSpace(string(node.Destination))
	if alt == "" {
		alt = dest
	}

	if in.images == nil || in.opts.MaxImageWidth <= 0 || dest == "" || isRemote(dest) {
		in.emit(ImageFallback{Alt: alt})
		return
	}

	path := dest
	if !filepath.IsAbs(path) && in.opts.BaseDir != "" {
		path = filepath.Join(in.opts.BaseDir, path)
	}

	placed, err := in.images.Load(path, in.opts.MaxImageWidth)
	if err != nil {
		in.emit(ImageFallback{Alt: alt})
		return
	}
	in.emit(Image{Resource: placed.Resource, Alt: alt, Width: placed.Width, Height: placed.Height})
}

// isRemote reports whether an image destination is a URL rather than a
// local path. Remote fetch is out of scope; such images degrade to alt
// text.
func isRemote(dest string) bool {
	return strings.Contains(dest, "://")
}

// fenceLanguage trims a fence info string ("rust,no_run", "python
// title=x") down to the bare language token.
func fenceLanguage(info []byte) string {
	lang := string(info)
	if i := strings.IndexFunc(lang, func(r rune) bool { return r == ' ' || r == '\t' || r == ',' }); i >= 0 {
		lang = lang[:i]
	}
	return lang
}

// blockText joins the source segments of a code block node.
func blockText(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}

// nodeText collects the plain text of a node's inline children.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(nodeText(c, src))
		}
	}
	return strings.TrimSpace(b.String())
}

// plainCodeLines splits code into unstyled per-line spans.
func plainCodeLines(code string, st core.Style) [][]core.Span {
	code = strings.TrimSuffix(code, "\n")
	raw := strings.Split(code, "\n")
	lines := make([][]core.Span, len(raw))
	for i, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		lines[i] = []core.Span{core.NewSpan(l, st)}
	}
	return lines
}
