// Package backend provides terminal backend abstraction for the renderer.
package backend

import "github.com/dshills/mdink/internal/renderer/core"

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields
	MouseX, MouseY int
	MouseButton    MouseButton

	// Resize event fields
	Width, Height int
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
	KeyCtrlD
	KeyCtrlU
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton represents mouse button state.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseWheelUp
	MouseWheelDown
)

// Backend defines the interface for terminal/display backends.
// Implementations handle actual drawing to the terminal or, for tests,
// to an in-memory cell grid.
type Backend interface {
	// Init acquires the display. Must be called before any other method.
	Init() error

	// Shutdown releases the display and restores terminal state.
	// Idempotent: safe to call more than once, and safe to call when
	// Init never completed.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetCell sets a single cell at the given position.
	// Positions outside the terminal are silently ignored.
	SetCell(x, y int, cell core.Cell)

	// Fill fills a rectangular region with the given cell.
	Fill(rect core.Rect, cell core.Cell)

	// Clear clears the entire screen with the default style.
	Clear()

	// Show synchronizes the internal buffer with the actual display.
	Show()

	// HideCursor hides the text cursor.
	HideCursor()

	// PollEvent waits for and returns the next terminal event.
	// This is a blocking call.
	PollEvent() Event

	// PostEvent posts a synthetic event to the event queue.
	PostEvent(event Event)

	// HasTrueColor returns true if the backend supports 24-bit color.
	HasTrueColor() bool

	// Colors returns the number of colors the backend supports.
	// 0 means monochrome.
	Colors() int
}

// SetSpans writes a span sequence starting at (x, y), clipping at maxX.
// Returns the x position after the last written cell.
func SetSpans(b Backend, x, y, maxX int, spans []core.Span) int {
	for _, span := range spans {
		for _, r := range span.Text {
			w := core.RuneWidth(r)
			if w == 0 {
				continue
			}
			if x+w > maxX {
				return x
			}
			b.SetCell(x, y, core.NewStyledCell(r, span.Style))
			x += w
		}
	}
	return x
}
