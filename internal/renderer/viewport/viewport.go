// Package viewport tracks the visible window over a flattened document
// and the scroll position within it. All movement clamps so the offset
// stays within [0, total-height].
package viewport

import "github.com/dshills/mdink/internal/renderer/layout"

// View is the scroll state over a flattened document.
type View struct {
	offset int
	width  int
	height int
	total  int
}

// New returns a view sized to the given content area.
func New(width, height int) *View {
	return &View{width: width, height: height}
}

// Resize updates the content area and re-clamps the offset.
func (v *View) Resize(width, height int) {
	v.width = width
	v.height = height
	v.clamp()
}

// SetTotal records the document height and re-clamps the offset.
func (v *View) SetTotal(total int) {
	v.total = total
	v.clamp()
}

// Width reports the content width in columns.
func (v *View) Width() int { return v.width }

// Height reports the content height in rows.
func (v *View) Height() int { return v.height }

// Offset reports the index of the first visible line.
func (v *View) Offset() int { return v.offset }

func (v *View) maxOffset() int {
	m := v.total - v.height
	if m < 0 {
		m = 0
	}
	return m
}

func (v *View) clamp() {
	if v.offset > v.maxOffset() {
		v.offset = v.maxOffset()
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

// ScrollBy moves the offset by delta rows, clamping at both ends.
func (v *View) ScrollBy(delta int) {
	v.offset += delta
	v.clamp()
}

// ScrollTo places line at the top of the view, clamped.
func (v *View) ScrollTo(line int) {
	v.offset = line
	v.clamp()
}

// HalfPageDown scrolls down by half the view height.
func (v *View) HalfPageDown() { v.ScrollBy(v.half()) }

// HalfPageUp scrolls up by half the view height.
func (v *View) HalfPageUp() { v.ScrollBy(-v.half()) }

// PageDown scrolls down by a full view height.
func (v *View) PageDown() { v.ScrollBy(v.height) }

// PageUp scrolls up by a full view height.
func (v *View) PageUp() { v.ScrollBy(-v.height) }

func (v *View) half() int {
	h := v.height / 2
	if h < 1 {
		h = 1
	}
	return h
}

// Top scrolls to the start of the document.
func (v *View) Top() { v.offset = 0 }

// Bottom scrolls to the end of the document.
func (v *View) Bottom() { v.offset = v.maxOffset() }

// AtBottom reports whether the last line is visible.
func (v *View) AtBottom() bool { return v.offset >= v.maxOffset() }

// Percent reports the scroll position as 0-100 for the status line.
func (v *View) Percent() int {
	m := v.maxOffset()
	if m == 0 {
		return 100
	}
	return v.offset * 100 / m
}

// NextHeading jumps to the first heading below the current offset.
func (v *View) NextHeading(idx layout.NavIndex) bool {
	for _, h := range idx.Headings {
		if h.Line > v.offset {
			v.ScrollTo(h.Line)
			return true
		}
	}
	return false
}

// PrevHeading jumps to the last heading above the current offset.
func (v *View) PrevHeading(idx layout.NavIndex) bool {
	for i := len(idx.Headings) - 1; i >= 0; i-- {
		if idx.Headings[i].Line < v.offset {
			v.ScrollTo(idx.Headings[i].Line)
			return true
		}
	}
	return false
}

// NextFootnote jumps to the first footnote definition below the
// current offset.
func (v *View) NextFootnote(idx layout.NavIndex) bool {
	for _, fn := range idx.Footnotes {
		if fn.Line > v.offset {
			v.ScrollTo(fn.Line)
			return true
		}
	}
	return false
}

// PrevFootnote jumps to the last footnote definition above the current
// offset.
func (v *View) PrevFootnote(idx layout.NavIndex) bool {
	for i := len(idx.Footnotes) - 1; i >= 0; i-- {
		if idx.Footnotes[i].Line < v.offset {
			v.ScrollTo(idx.Footnotes[i].Line)
			return true
		}
	}
	return false
}

// Footnote jumps to the definition with the given label.
func (v *View) Footnote(idx layout.NavIndex, label string) bool {
	for _, fn := range idx.Footnotes {
		if fn.Label == label {
			v.ScrollTo(fn.Line)
			return true
		}
	}
	return false
}

// Visible reports whether line falls inside the current window.
func (v *View) Visible(line int) bool {
	return line >= v.offset && line < v.offset+v.height
}
