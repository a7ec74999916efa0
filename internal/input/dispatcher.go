// Package input translates terminal events into viewer actions. A small
// mode machine distinguishes normal browsing from search entry; the
// dispatcher owns the search input buffer so the application only sees
// committed queries.
package input

import "github.com/dshills/mdink/internal/renderer/backend"

// Mode is the dispatcher's input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
)

// ActionKind identifies what the application should do in response to
// an event.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionQuit

	ActionScroll // by Action.Lines, negative is up
	ActionHalfPageDown
	ActionHalfPageUp
	ActionPageDown
	ActionPageUp
	ActionTop
	ActionBottom
	ActionNextHeading
	ActionPrevHeading
	ActionNextFootnote
	ActionPrevFootnote

	ActionSearchInput  // prompt text changed while typing
	ActionSearchCommit // Enter pressed, Action.Query holds the query
	ActionSearchCancel // prompt abandoned or highlight cleared
	ActionSearchNext
	ActionSearchPrev

	ActionReload
	ActionResize // Action.Width, Action.Height
)

// Action is the dispatcher's output for one event.
type Action struct {
	Kind   ActionKind
	Lines  int
	Query  string
	Width  int
	Height int
}

// Dispatcher maps events to actions according to the current mode.
type Dispatcher struct {
	mode   Mode
	buffer string

	// hasSearch tracks whether a committed query is active, so Escape
	// clears the highlight before it quits.
	hasSearch bool
}

// New returns a dispatcher in normal mode.
func New() *Dispatcher {
	return &Dispatcher{}
}

// Mode reports the current input mode.
func (d *Dispatcher) Mode() Mode { return d.mode }

// SearchBuffer returns the text typed so far at the search prompt.
func (d *Dispatcher) SearchBuffer() string { return d.buffer }

// Dispatch consumes one event and returns the resulting action.
func (d *Dispatcher) Dispatch(ev backend.Event) Action {
	switch ev.Type {
	case backend.EventResize:
		return Action{Kind: ActionResize, Width: ev.Width, Height: ev.Height}
	case backend.EventMouse:
		return d.mouse(ev)
	case backend.EventKey:
		if d.mode == ModeSearch {
			return d.searchKey(ev)
		}
		return d.normalKey(ev)
	}
	return Action{}
}

func (d *Dispatcher) mouse(ev backend.Event) Action {
	switch ev.MouseButton {
	case backend.MouseWheelUp:
		return Action{Kind: ActionScroll, Lines: -3}
	case backend.MouseWheelDown:
		return Action{Kind: ActionScroll, Lines: 3}
	}
	return Action{}
}

func (d *Dispatcher) normalKey(ev backend.Event) Action {
	switch ev.Key {
	case backend.KeyRune:
		return d.normalRune(ev.Rune)
	case backend.KeyDown:
		return Action{Kind: ActionScroll, Lines: 1}
	case backend.KeyUp:
		return Action{Kind: ActionScroll, Lines: -1}
	case backend.KeyPageDown:
		return Action{Kind: ActionPageDown}
	case backend.KeyPageUp:
		return Action{Kind: ActionPageUp}
	case backend.KeyHome:
		return Action{Kind: ActionTop}
	case backend.KeyEnd:
		return Action{Kind: ActionBottom}
	case backend.KeyCtrlD:
		return Action{Kind: ActionHalfPageDown}
	case backend.KeyCtrlU:
		return Action{Kind: ActionHalfPageUp}
	case backend.KeyCtrlC:
		return Action{Kind: ActionQuit}
	case backend.KeyEscape:
		if d.hasSearch {
			d.hasSearch = false
			return Action{Kind: ActionSearchCancel}
		}
		return Action{Kind: ActionQuit}
	}
	return Action{}
}

func (d *Dispatcher) normalRune(r rune) Action {
	switch r {
	case 'q':
		return Action{Kind: ActionQuit}
	case 'j':
		return Action{Kind: ActionScroll, Lines: 1}
	case 'k':
		return Action{Kind: ActionScroll, Lines: -1}
	case 'd':
		return Action{Kind: ActionHalfPageDown}
	case 'u':
		return Action{Kind: ActionHalfPageUp}
	case ' ', 'f':
		return Action{Kind: ActionPageDown}
	case 'b':
		return Action{Kind: ActionPageUp}
	case 'g':
		return Action{Kind: ActionTop}
	case 'G':
		return Action{Kind: ActionBottom}
	case ']':
		return Action{Kind: ActionNextHeading}
	case '[':
		return Action{Kind: ActionPrevHeading}
	case '}':
		return Action{Kind: ActionNextFootnote}
	case '{':
		return Action{Kind: ActionPrevFootnote}
	case 'n':
		return Action{Kind: ActionSearchNext}
	case 'N':
		return Action{Kind: ActionSearchPrev}
	case 'r':
		return Action{Kind: ActionReload}
	case '/':
		d.mode = ModeSearch
		d.buffer = ""
		return Action{Kind: ActionSearchInput}
	}
	return Action{}
}

func (d *Dispatcher) searchKey(ev backend.Event) Action {
	switch ev.Key {
	case backend.KeyRune:
		d.buffer += string(ev.Rune)
		return Action{Kind: ActionSearchInput}
	case backend.KeyBackspace:
		if d.buffer == "" {
			d.mode = ModeNormal
			return Action{Kind: ActionSearchCancel}
		}
		rs := []rune(d.buffer)
		d.buffer = string(rs[:len(rs)-1])
		return Action{Kind: ActionSearchInput}
	case backend.KeyEnter:
		d.mode = ModeNormal
		query := d.buffer
		d.buffer = ""
		if query == "" {
			return Action{Kind: ActionSearchCancel}
		}
		d.hasSearch = true
		return Action{Kind: ActionSearchCommit, Query: query}
	case backend.KeyEscape, backend.KeyCtrlC:
		d.mode = ModeNormal
		d.buffer = ""
		return Action{Kind: ActionSearchCancel}
	}
	return Action{}
}
