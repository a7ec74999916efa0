// Package layout flattens interpreted markdown blocks into a list of
// display lines sized for a fixed viewport width. The resulting document
// carries a navigation index over headings and footnote definitions so
// the view can jump between sections without rescanning the line list.
package layout

import "github.com/dshills/mdink/internal/renderer/core"

// Line is a single display row in a flattened document. Implementations
// are TextLine, CodeLine, RuleLine, EmptyLine, ImageStartLine and
// ImageContinuationLine.
type Line interface {
	isLine()
}

// TextLine is a row of styled spans produced by reflowing inline content.
type TextLine struct {
	Spans []core.Span
}

// CodeLine is a row inside a fenced code block. It is never reflowed;
// content wider than the viewport is clipped at draw time.
type CodeLine struct {
	Spans []core.Span
}

// RuleLine renders as a horizontal rule across the full viewport width.
type RuleLine struct{}

// EmptyLine is vertical whitespace between blocks.
type EmptyLine struct{}

// ImageStartLine anchors an image in the line list. Resource indexes into
// the arena the document was flattened against. Height is the total cell
// rows the image occupies, including this line.
type ImageStartLine struct {
	Resource int
	Height   int
}

// ImageContinuationLine is a placeholder row below an ImageStartLine.
// An image of height H contributes exactly H-1 continuation lines, so
// scroll arithmetic stays integral.
type ImageContinuationLine struct{}

func (TextLine) isLine()              {}
func (CodeLine) isLine()              {}
func (RuleLine) isLine()              {}
func (EmptyLine) isLine()             {}
func (ImageStartLine) isLine()        {}
func (ImageContinuationLine) isLine() {}

// NavEntry locates a heading in the flattened line list.
type NavEntry struct {
	Line  int
	Level int
	Text  string
}

// FootnoteEntry locates a footnote definition in the flattened line list.
type FootnoteEntry struct {
	Line  int
	Label string
}

// NavIndex is the navigation index built during flattening.
type NavIndex struct {
	Headings  []NavEntry
	Footnotes []FootnoteEntry
}

// Document is the result of flattening a block list at a given width.
type Document struct {
	Lines []Line
	Index NavIndex
	Width int
}

// TotalHeight reports the number of display rows in the document.
func (d *Document) TotalHeight() int {
	return len(d.Lines)
}

// PlainText returns the unstyled text of a line, or "" for non-text rows.
// Search operates over this view of the document.
func PlainText(ln Line) string {
	switch l := ln.(type) {
	case TextLine:
		return core.SpansText(l.Spans)
	case CodeLine:
		return core.SpansText(l.Spans)
	}
	return ""
}
