package backend

import "github.com/dshills/mdink/internal/renderer/core"

// NullBackend is an in-memory backend for testing. It records cells in
// a grid and delivers events from a buffered channel.
type NullBackend struct {
	width, height int
	cells         [][]core.Cell
	events        chan Event
	trueColor     bool
	shutdowns     int
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:     width,
		height:    height,
		events:    make(chan Event, 100),
		trueColor: true,
	}
}

func (b *NullBackend) Init() error {
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
	return nil
}

func (b *NullBackend) Shutdown() {
	b.shutdowns++
}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if x < 0 || y < 0 || y >= len(b.cells) || x >= b.width {
		return
	}
	b.cells[y][x] = cell
}

func (b *NullBackend) Fill(rect core.Rect, cell core.Cell) {
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			b.SetCell(x, y, cell)
		}
	}
}

func (b *NullBackend) Clear() {
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = core.EmptyCell()
		}
	}
}

func (b *NullBackend) Show()       {}
func (b *NullBackend) HideCursor() {}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
	}
}

func (b *NullBackend) HasTrueColor() bool {
	return b.trueColor
}

func (b *NullBackend) Colors() int {
	if b.trueColor {
		return 1 << 24
	}
	return 256
}

// Resize changes the backend dimensions and reinitializes the grid.
func (b *NullBackend) Resize(width, height int) {
	b.width = width
	b.height = height
	_ = b.Init()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

// CellAt returns the recorded cell at the given position.
func (b *NullBackend) CellAt(x, y int) core.Cell {
	if x < 0 || y < 0 || y >= len(b.cells) || x >= b.width {
		return core.EmptyCell()
	}
	return b.cells[y][x]
}

// RowText returns the runes of a row as a string, trailing spaces trimmed.
func (b *NullBackend) RowText(y int) string {
	if y < 0 || y >= len(b.cells) {
		return ""
	}
	runes := make([]rune, 0, b.width)
	for x := 0; x < b.width; x++ {
		c := b.cells[y][x]
		if c.Rune == 0 {
			continue
		}
		runes = append(runes, c.Rune)
	}
	s := string(runes)
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}

// ShutdownCount reports how many times Shutdown has run.
func (b *NullBackend) ShutdownCount() int {
	return b.shutdowns
}
