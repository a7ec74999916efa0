// Package statusline renders the single-row status bar at the bottom of
// the screen: document name and scroll position on the right, transient
// messages or the search prompt on the left.
package statusline

import (
	"fmt"

	"github.com/dshills/mdink/internal/renderer/backend"
	"github.com/dshills/mdink/internal/renderer/core"
	"github.com/dshills/mdink/internal/renderer/style"
)

// MessageType indicates how a status message renders.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageError
)

// StatusLine holds the display state for the bottom row.
type StatusLine struct {
	filename string
	percent  int

	message     string
	messageType MessageType

	// Search prompt state.
	searchActive bool
	searchBuffer string

	// Active search result counter, 1-based. Zero total hides it.
	matchIndex int
	matchTotal int
}

// New creates an empty status line.
func New() *StatusLine {
	return &StatusLine{}
}

// SetFile sets the document name shown on the right.
func (s *StatusLine) SetFile(name string) {
	s.filename = name
}

// SetPercent sets the scroll percentage shown on the right.
func (s *StatusLine) SetPercent(p int) {
	s.percent = p
}

// SetMessage installs a transient message. It stays until replaced or
// cleared.
func (s *StatusLine) SetMessage(msg string, t MessageType) {
	s.message = msg
	s.messageType = t
}

// ClearMessage removes the current message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// BeginSearch switches the left side to the search prompt.
func (s *StatusLine) BeginSearch() {
	s.searchActive = true
	s.searchBuffer = ""
	s.ClearMessage()
}

// SetSearchBuffer updates the text shown after the search prompt.
func (s *StatusLine) SetSearchBuffer(text string) {
	s.searchBuffer = text
}

// EndSearch leaves the search prompt.
func (s *StatusLine) EndSearch() {
	s.searchActive = false
	s.searchBuffer = ""
}

// SetMatches sets the "index/total" hit counter. A zero total hides it.
func (s *StatusLine) SetMatches(index, total int) {
	s.matchIndex = index
	s.matchTotal = total
}

// Render paints the status line onto backend row y across width columns.
func (s *StatusLine) Render(b backend.Backend, res *style.Resolver, y, width int) {
	bar := res.StatusBar()
	b.Fill(core.Rect{Left: 0, Top: y, Right: width, Bottom: y + 1}, core.NewStyledCell(' ', bar))

	left := s.leftSpans(res)
	x := backend.SetSpans(b, 0, y, width, left)

	right := s.rightText()
	rw := core.StringWidth(right)
	if rw > 0 && width-rw > x {
		backend.SetSpans(b, width-rw, y, width, []core.Span{core.NewSpan(right, bar)})
	}
}

func (s *StatusLine) leftSpans(res *style.Resolver) []core.Span {
	switch {
	case s.searchActive:
		return []core.Span{core.NewSpan("/"+s.searchBuffer, res.SearchPrompt())}
	case s.message != "":
		st := res.StatusBar()
		if s.messageType == MessageError {
			st = res.StatusError()
		}
		return []core.Span{core.NewSpan(s.message, st)}
	case s.matchTotal > 0:
		text := fmt.Sprintf("[%d/%d]", s.matchIndex, s.matchTotal)
		return []core.Span{core.NewSpan(text, res.StatusBar())}
	}
	return nil
}

func (s *StatusLine) rightText() string {
	pos := fmt.Sprintf("%d%%", s.percent)
	if s.filename == "" {
		return pos
	}
	return s.filename + "  " + pos
}
