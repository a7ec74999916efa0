package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/mdink/internal/config"
	"github.com/dshills/mdink/internal/input"
	"github.com/dshills/mdink/internal/markdown"
	"github.com/dshills/mdink/internal/markdown/highlight"
	"github.com/dshills/mdink/internal/renderer"
	"github.com/dshills/mdink/internal/renderer/backend"
	"github.com/dshills/mdink/internal/renderer/imagearena"
	"github.com/dshills/mdink/internal/renderer/layout"
	"github.com/dshills/mdink/internal/renderer/statusline"
	"github.com/dshills/mdink/internal/renderer/style"
	"github.com/dshills/mdink/internal/renderer/viewport"
)

// Options configures an Application.
type Options struct {
	// Path is the markdown document to display.
	Path string

	// Config holds user settings.
	Config config.Config

	// Backend overrides the terminal backend, used by tests.
	Backend backend.Backend

	// Logger receives diagnostics. Nil discards them.
	Logger *Logger
}

// Application owns the viewer components and the event loop.
type Application struct {
	opts Options
	log  *Logger

	b      backend.Backend
	res    *style.Resolver
	hl     *highlight.Highlighter
	arena  *imagearena.Arena
	loader *imagearena.Loader
	rend   *renderer.Renderer
	disp   *input.Dispatcher
	view   *viewport.View
	search *viewport.Search
	status *statusline.StatusLine

	source  []byte
	doc     *layout.Document
	watcher *fsnotify.Watcher
	reload  atomic.Bool
	quit    atomic.Bool
}

// maxDocumentBytes rejects pathological inputs before any rendering
// work starts.
const maxDocumentBytes = 100 << 20

// New creates an application for the given document.
func New(opts Options) (*Application, error) {
	if opts.Path == "" {
		return nil, ErrNoDocument
	}
	if fi, err := os.Stat(opts.Path); err == nil && fi.Size() > maxDocumentBytes {
		return nil, NewOperationError("open", opts.Path, ErrDocumentTooLarge)
	}
	log := opts.Logger
	if log == nil {
		log = NewLogger(nil, LogLevelInfo)
	}

	theme := style.DefaultTheme()
	if opts.Config.Theme != "" {
		t, err := style.LoadTheme(opts.Config.Theme)
		if err != nil {
			log.Warn("theme %s unusable, using defaults: %v", opts.Config.Theme, err)
		} else {
			theme = t
		}
	}
	res := style.NewResolver(theme)

	arena := imagearena.New()
	a := &Application{
		opts:   opts,
		log:    log.WithComponent("app"),
		res:    res,
		hl:     highlight.New(opts.Config.ChromaStyle, res.CodeBlock()),
		arena:  arena,
		loader: imagearena.NewLoader(arena),
		rend:   renderer.New(res),
		disp:   input.New(),
		view:   viewport.New(0, 0),
		search: &viewport.Search{},
		status: statusline.New(),
	}
	a.status.SetFile(filepath.Base(opts.Path))
	return a, nil
}

// Run displays the document and processes events until quit. The
// terminal is restored before Run returns, including on panic.
func (a *Application) Run() (err error) {
	if a.b == nil {
		if a.opts.Backend != nil {
			a.b = a.opts.Backend
		} else {
			t, terr := backend.NewTerminal()
			if terr != nil {
				return fmt.Errorf("%w: %v", ErrInitialization, terr)
			}
			a.b = t
		}
	}
	if ierr := a.b.Init(); ierr != nil {
		return fmt.Errorf("%w: %v", ErrInitialization, ierr)
	}
	defer func() {
		if a.watcher != nil {
			_ = a.watcher.Close()
		}
		a.b.Shutdown()
		if r := recover(); r != nil {
			err = &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()

	if a.b.Colors() <= 2 {
		a.res.SetMonochrome(true)
	}

	if err := a.readDocument(); err != nil {
		return err
	}
	if a.opts.Config.Reload {
		if werr := a.startWatcher(); werr != nil {
			a.log.Warn("file watch unavailable: %v", werr)
		}
	}

	a.layoutDocument()
	a.draw()

	for {
		ev := a.b.PollEvent()
		if ev.Type == backend.EventInterrupt {
			if a.quit.Load() {
				return nil
			}
			if a.reload.CompareAndSwap(true, false) {
				a.reloadDocument()
			}
			a.draw()
			continue
		}
		act := a.disp.Dispatch(ev)
		if aerr := a.apply(act); aerr != nil {
			if errors.Is(aerr, ErrQuit) {
				return nil
			}
			return aerr
		}
		a.draw()
	}
}

// Quit requests a clean shutdown from outside the event loop, safe to
// call from a signal handler goroutine.
func (a *Application) Quit() {
	a.quit.Store(true)
	if a.b != nil {
		a.b.PostEvent(backend.Event{Type: backend.EventInterrupt})
	}
}

func (a *Application) readDocument() error {
	data, err := os.ReadFile(a.opts.Path)
	if err != nil {
		return NewOperationError("open", a.opts.Path, err)
	}
	a.source = data
	return nil
}

// layoutDocument re-interprets and reflows the document for the current
// terminal size. Image resources are rebuilt because their cell
// footprint depends on the viewport width.
func (a *Application) layoutDocument() {
	w, h := a.b.Size()
	if h < 2 {
		h = 2
	}
	if w < 1 {
		w = 1
	}
	a.view.Resize(w, h-1)

	a.arena.Reset()
	var loader markdown.ImageLoader
	maxImg := 0
	if a.opts.Config.ShowImages {
		loader = a.loader
		maxImg = a.opts.Config.MaxImageWidth
		if maxImg <= 0 || maxImg > w {
			maxImg = w
		}
	}
	blocks := markdown.Interpret(a.source, a.res, a.hl, loader, markdown.Options{
		BaseDir:       filepath.Dir(a.opts.Path),
		MaxImageWidth: maxImg,
	})
	a.doc = layout.Flatten(blocks, w, a.res)
	a.view.SetTotal(a.doc.TotalHeight())

	// Positions shift when width changes; recompute hits against the
	// new line list.
	if a.search.Active() {
		a.search.Run(a.doc, a.search.Query(), a.view.Offset())
	}
}

func (a *Application) reloadDocument() {
	data, err := os.ReadFile(a.opts.Path)
	if err != nil {
		a.log.Warn("reload failed: %v", err)
		a.status.SetMessage("reload failed: "+err.Error(), statusline.MessageError)
		return
	}
	a.source = data
	a.layoutDocument()
	a.log.Debug("document reloaded: %s", a.opts.Path)
}

func (a *Application) startWatcher() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory: editors often replace the file, which drops
	// a watch on the file itself.
	if err := w.Add(filepath.Dir(a.opts.Path)); err != nil {
		_ = w.Close()
		return err
	}
	target := filepath.Clean(a.opts.Path)
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				a.reload.Store(true)
				a.b.PostEvent(backend.Event{Type: backend.EventInterrupt})
			case werr, ok := <-w.Errors:
				if !ok {
					return
				}
				a.log.Warn("watch: %v", werr)
			}
		}
	}()
	a.watcher = w
	return nil
}

func (a *Application) apply(act input.Action) error {
	switch act.Kind {
	case input.ActionNone:

	case input.ActionQuit:
		return ErrQuit

	case input.ActionScroll:
		a.view.ScrollBy(act.Lines)
	case input.ActionHalfPageDown:
		a.view.HalfPageDown()
	case input.ActionHalfPageUp:
		a.view.HalfPageUp()
	case input.ActionPageDown:
		a.view.PageDown()
	case input.ActionPageUp:
		a.view.PageUp()
	case input.ActionTop:
		a.view.Top()
	case input.ActionBottom:
		a.view.Bottom()
	case input.ActionNextHeading:
		a.view.NextHeading(a.doc.Index)
	case input.ActionPrevHeading:
		a.view.PrevHeading(a.doc.Index)
	case input.ActionNextFootnote:
		a.view.NextFootnote(a.doc.Index)
	case input.ActionPrevFootnote:
		a.view.PrevFootnote(a.doc.Index)

	case input.ActionSearchInput:
		// The prompt echoes at draw time; matches track every edit so
		// hits highlight while the query is still being typed.
		if q := a.disp.SearchBuffer(); q != "" {
			a.search.Run(a.doc, q, a.view.Offset())
		} else {
			a.search.Clear()
		}

	case input.ActionSearchCommit:
		if a.search.Run(a.doc, act.Query, a.view.Offset()) {
			a.jumpToMatch()
		} else {
			a.status.SetMatches(0, 0)
			a.status.SetMessage("pattern not found: "+act.Query, statusline.MessageError)
		}

	case input.ActionSearchCancel:
		a.search.Clear()
		a.status.SetMatches(0, 0)
		a.status.ClearMessage()

	case input.ActionSearchNext:
		if a.search.Active() {
			a.search.Next()
			a.jumpToMatch()
		}
	case input.ActionSearchPrev:
		if a.search.Active() {
			a.search.Prev()
			a.jumpToMatch()
		}

	case input.ActionReload:
		a.reloadDocument()

	case input.ActionResize:
		a.layoutDocument()
	}
	return nil
}

func (a *Application) jumpToMatch() {
	m := a.search.Current()
	if !a.view.Visible(m.Line) {
		a.view.ScrollTo(m.Line)
	}
	a.status.ClearMessage()
	idx, total := a.search.Position()
	a.status.SetMatches(idx, total)
}

func (a *Application) draw() {
	w, h := a.b.Size()
	a.b.Clear()
	a.rend.Draw(a.b, a.doc, a.view, a.search, a.arena)

	if a.disp.Mode() == input.ModeSearch {
		a.status.BeginSearch()
		a.status.SetSearchBuffer(a.disp.SearchBuffer())
	} else {
		a.status.EndSearch()
	}
	a.status.SetPercent(a.view.Percent())
	a.status.Render(a.b, a.res, h-1, w)

	a.b.HideCursor()
	a.b.Show()
}
