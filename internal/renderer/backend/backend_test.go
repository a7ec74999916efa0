package backend

import (
	"testing"

	"github.com/dshills/mdink/internal/renderer/core"
)

func TestNullBackendGrid(t *testing.T) {
	b := NewNullBackend(10, 4)
	if err := b.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	b.SetCell(2, 1, core.NewStyledCell('x', core.DefaultStyle()))
	if got := b.CellAt(2, 1).Rune; got != 'x' {
		t.Errorf("cell = %q", got)
	}

	// Out of range writes are dropped, not panics.
	b.SetCell(-1, 0, core.NewStyledCell('y', core.DefaultStyle()))
	b.SetCell(10, 0, core.NewStyledCell('y', core.DefaultStyle()))
	b.SetCell(0, 4, core.NewStyledCell('y', core.DefaultStyle()))
}

func TestNullBackendClear(t *testing.T) {
	b := NewNullBackend(5, 2)
	_ = b.Init()
	b.SetCell(0, 0, core.NewStyledCell('x', core.DefaultStyle()))
	b.Clear()
	if b.RowText(0) != "" {
		t.Errorf("row after clear = %q", b.RowText(0))
	}
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(5, 2)
	b.PostEvent(Event{Type: EventKey, Key: KeyRune, Rune: 'q'})
	ev := b.PollEvent()
	if ev.Type != EventKey || ev.Rune != 'q' {
		t.Errorf("got %+v", ev)
	}
}

func TestNullBackendShutdownIdempotent(t *testing.T) {
	b := NewNullBackend(5, 2)
	_ = b.Init()
	b.Shutdown()
	b.Shutdown()
	if b.ShutdownCount() != 2 {
		t.Errorf("shutdowns = %d", b.ShutdownCount())
	}
}

func TestSetSpansWritesAndClips(t *testing.T) {
	b := NewNullBackend(8, 1)
	_ = b.Init()

	x := SetSpans(b, 0, 0, 8, []core.Span{
		core.NewSpan("abc", core.DefaultStyle()),
		core.NewSpan("defghijk", core.DefaultStyle()),
	})
	if x != 8 {
		t.Errorf("cursor = %d, want 8", x)
	}
	if got := b.RowText(0); got != "abcdefgh" {
		t.Errorf("row = %q", got)
	}
}

func TestSetSpansWideRunes(t *testing.T) {
	b := NewNullBackend(5, 1)
	_ = b.Init()
	SetSpans(b, 0, 0, 5, []core.Span{core.NewSpan("日本", core.DefaultStyle())})
	if got := b.CellAt(0, 0).Rune; got != '日' {
		t.Errorf("cell 0 = %q", got)
	}
	if got := b.CellAt(0, 0).Width; got != 2 {
		t.Errorf("cell width = %d", got)
	}
}

func TestFill(t *testing.T) {
	b := NewNullBackend(4, 3)
	_ = b.Init()
	b.Fill(core.Rect{Left: 0, Top: 1, Right: 4, Bottom: 2}, core.NewStyledCell('-', core.DefaultStyle()))
	if got := b.RowText(1); got != "----" {
		t.Errorf("row 1 = %q", got)
	}
	if got := b.RowText(0); got != "" {
		t.Errorf("row 0 = %q", got)
	}
}
