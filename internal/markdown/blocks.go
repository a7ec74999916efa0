// Package markdown interprets a markdown event stream into the block
// IR consumed by the layout engine. The IR is width-independent: it is
// produced once per document load and reused across every re-layout.
package markdown

import "github.com/dshills/mdink/internal/renderer/core"

// Block is the closed set of IR block variants. Consumers switch over
// the concrete types exhaustively; adding a variant is a compile-time
// checklist across every switch site.
type Block interface {
	isBlock()
}

// CellText is the inline content of a single table cell.
type CellText = []core.Span

// Heading is a heading block with level 1-6.
type Heading struct {
	Level   int
	Content []core.Span
}

// Paragraph is a run of inline text.
type Paragraph struct {
	Content []core.Span
}

// CodeBlock is a fenced or indented code block with pre-styled lines.
type CodeBlock struct {
	// Language from the fence info string (empty for indented blocks).
	Language string
	// Lines are pre-highlighted, one span sequence per source line.
	Lines [][]core.Span
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

// Spacer reserves vertical space between blocks.
type Spacer struct {
	Lines int
}

// BlockQuote nests child blocks behind a quote prefix.
type BlockQuote struct {
	Children []Block
}

// List is an ordered or unordered list.
type List struct {
	Ordered bool
	// Start is the first item number of an ordered list.
	Start int
	Items []ListItem
}

// ListItem is one item of a List. Content carries the item's leading
// inline text; nested blocks (sub-lists, paragraphs, quotes) follow in
// Children.
type ListItem struct {
	Content  []core.Span
	Children []Block
}

// TaskListItem is a GFM task item. It appears as the first child block
// of the enclosing ListItem, replacing the bullet with a check glyph.
type TaskListItem struct {
	Checked bool
	Content []core.Span
}

// Alignment is the horizontal alignment of a table column.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Table is a GFM table.
type Table struct {
	Header []CellText
	// Align holds one entry per column; AlignNone renders as left.
	Align []Alignment
	Rows  [][]CellText
}

// Image is a successfully loaded inline image. The graphics handle is
// owned by the resource arena; blocks carry only the index.
type Image struct {
	// Resource is the arena index obtained from the image loader.
	Resource int
	Alt      string
	// Width and Height are the reserved size in terminal cells.
	Width  int
	Height int
}

// ImageFallback is emitted when an image cannot be loaded or displayed.
type ImageFallback struct {
	Alt string
}

// Footnote is a footnote definition collected at the document end.
type Footnote struct {
	Label    string
	Children []Block
}

func (Heading) isBlock()       {}
func (Paragraph) isBlock()     {}
func (CodeBlock) isBlock()     {}
func (ThematicBreak) isBlock() {}
func (Spacer) isBlock()        {}
func (BlockQuote) isBlock()    {}
func (List) isBlock()          {}
func (TaskListItem) isBlock()  {}
func (Table) isBlock()         {}
func (Image) isBlock()         {}
func (ImageFallback) isBlock() {}
func (Footnote) isBlock()      {}
