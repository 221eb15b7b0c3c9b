// Package search implements the modal search box. Input is debounced on a
// background goroutine; queries run through the command bus and their
// results come back as jobs that only apply while they are the latest.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/atomicstack/siyuan-tui/internal/compositor"
	"github.com/atomicstack/siyuan-tui/internal/debounce"
	"github.com/atomicstack/siyuan-tui/internal/logging/events"
	"github.com/atomicstack/siyuan-tui/internal/siyuan"
	"github.com/atomicstack/siyuan-tui/internal/ui/command"
	"github.com/atomicstack/siyuan-tui/internal/ui/editor"
	"github.com/atomicstack/siyuan-tui/internal/ui/state"
)

// LayerID identifies the search box on the compositor stack.
const LayerID = "search"

// Options wires a search box to its backend.
type Options struct {
	Searcher  siyuan.Searcher
	Loader    siyuan.Loader
	Bus       *command.Bus
	Delay     time.Duration
	Clipboard func(string) error
}

// Box is the search modal.
type Box struct {
	input     textinput.Model
	keys      keyMap
	list      *state.ResultList
	latest    *atomic.Uint64
	queries   chan string
	cancel    context.CancelFunc
	loader    siyuan.Loader
	bus       *command.Bus
	clipboard func(string) error

	// query is the input the visible rows answer.
	query   string
	loading bool
	failed  bool
	opening bool
	status  string
	isError bool
	maxRows int
}

// New builds a search box and starts its debounce goroutine. The goroutine
// stops when the box is unmounted.
func New(opts Options) *Box {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "search blocks"
	ti.CharLimit = 256
	ti.Focus()

	parent := context.Background()
	if opts.Bus != nil {
		parent = opts.Bus.Context()
	}
	ctx, cancel := context.WithCancel(parent)
	latest := new(atomic.Uint64)
	hook := &queryHook{
		state:    debounce.Trailing[string]{Delay: opts.Delay},
		latest:   latest,
		searcher: opts.Searcher,
		bus:      opts.Bus,
		now:      time.Now,
	}
	return &Box{
		input:     ti,
		keys:      defaultKeyMap(),
		list:      state.NewResultList(),
		latest:    latest,
		queries:   debounce.Spawn[string](ctx, hook, 1),
		cancel:    cancel,
		loader:    opts.Loader,
		bus:       opts.Bus,
		clipboard: opts.Clipboard,
	}
}

func (b *Box) ID() string { return LayerID }

// Unmount stops the debounce goroutine. Queries already in flight still
// finish but find no box to apply to.
func (b *Box) Unmount() {
	b.cancel()
}

// Value returns the current input.
func (b *Box) Value() string { return b.input.Value() }

// Rows returns the visible result rows.
func (b *Box) Rows() []state.Row { return b.list.Rows }

// Loading reports whether the rows lag behind the input.
func (b *Box) Loading() bool { return b.loading }

// Status returns the status message and whether it reports an error.
func (b *Box) Status() (string, bool) { return b.status, b.isError }

// SetStatus shows an informational message in the footer.
func (b *Box) SetStatus(msg string) {
	b.status, b.isError = msg, false
}

// SetError shows an error in the footer.
func (b *Box) SetError(msg string) {
	b.status, b.isError = msg, true
}

// HandleEvent consumes every key while the box is open.
func (b *Box) HandleEvent(msg tea.Msg, cx *compositor.Context) compositor.EventResult {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return compositor.Ignored(nil)
	}
	switch {
	case key.Matches(keyMsg, b.keys.Close):
		return compositor.Consumed(closeBox)
	case key.Matches(keyMsg, b.keys.Up):
		b.list.MoveCursorUp()
	case key.Matches(keyMsg, b.keys.Down):
		b.list.MoveCursorDown()
	case key.Matches(keyMsg, b.keys.PageUp):
		b.list.MoveCursorPageUp(b.maxRows)
	case key.Matches(keyMsg, b.keys.PageDown):
		b.list.MoveCursorPageDown(b.maxRows)
	case key.Matches(keyMsg, b.keys.Open):
		b.open()
	case key.Matches(keyMsg, b.keys.Yank):
		b.yank()
	default:
		prev := b.input.Value()
		b.input, _ = b.input.Update(keyMsg)
		if v := b.input.Value(); v != prev {
			b.changed(v)
		}
	}
	return compositor.Consumed(nil)
}

func closeBox(c *compositor.Compositor, _ *compositor.Context) {
	_, _ = c.Remove(LayerID)
}

// changed forwards the new input to the debounce goroutine. An empty query
// clears the rows at once and outdates any query in flight.
func (b *Box) changed(v string) {
	b.status, b.isError = "", false
	if strings.TrimSpace(v) == "" {
		b.latest.Store(nextSeq())
		b.list.Clear()
		b.query = ""
		b.loading = false
		b.failed = false
	} else {
		b.loading = true
	}
	debounce.Send(b.queries, v)
}

// apply merges a query outcome unless a newer query has been issued since.
func (b *Box) apply(seq uint64, query string, results []siyuan.Result, err error) {
	if latest := b.latest.Load(); seq != latest {
		events.Search.Stale(seq, latest)
		return
	}
	if strings.TrimSpace(b.input.Value()) == "" {
		return
	}
	b.query = query
	b.loading = query != b.input.Value()
	b.failed = err != nil
	switch {
	case err != nil:
		b.list.SetMessage(fmt.Sprintf("search failed: %v", err))
	case len(results) == 0:
		b.list.SetMessage("no results")
	default:
		b.list.SetResults(state.RankResults(results, query))
	}
}

// open loads the selected result's document. The job installs it in the
// editor and closes the box.
func (b *Box) open() {
	r, ok := b.list.Selected()
	if !ok || b.opening {
		return
	}
	if b.loader == nil || b.bus == nil {
		b.SetError("document loading is unavailable")
		return
	}
	id := r.RootID
	if id == "" {
		id = r.ID
	}
	b.opening = true
	b.SetStatus("opening " + siyuan.TitleFromHPath(r.HPath))
	reqID := uuid.NewString()
	loader := b.loader
	b.bus.Spawn(command.Request{
		ID:    reqID,
		Label: "document.load",
		Work: func(ctx context.Context) (compositor.Callback, error) {
			events.Document.Load(reqID, id)
			doc, err := loader.Document(siyuan.WithRequestID(ctx, reqID), id)
			if err != nil {
				return nil, err
			}
			return func(c *compositor.Compositor, cx *compositor.Context) {
				ed, ok := compositor.Find[*editor.Editor](c)
				if !ok {
					if box, ok := compositor.Find[*Box](c); ok {
						box.opening = false
						box.SetError("no editor to open the document in")
					}
					return
				}
				ed.Open(doc, r, cx)
				_, _ = c.Remove(LayerID)
			}, nil
		},
		OnError: func(err error) compositor.Callback {
			events.Document.Error(id, err)
			return func(c *compositor.Compositor, _ *compositor.Context) {
				if box, ok := compositor.Find[*Box](c); ok {
					box.opening = false
					box.SetError(fmt.Sprintf("open failed: %v", err))
				}
			}
		},
	})
}

// yank copies the selected block reference to the clipboard.
func (b *Box) yank() {
	r, ok := b.list.Selected()
	if !ok || b.clipboard == nil {
		return
	}
	ref := r.Reference()
	events.Search.Yank(r.ID)
	write := b.clipboard
	if b.bus == nil {
		if err := write(ref); err != nil {
			b.SetError(fmt.Sprintf("copy failed: %v", err))
			return
		}
		b.SetStatus("copied " + r.ID)
		return
	}
	b.bus.Spawn(command.Request{
		Label: "search.yank",
		Work: func(context.Context) (compositor.Callback, error) {
			if err := write(ref); err != nil {
				return nil, err
			}
			return func(c *compositor.Compositor, _ *compositor.Context) {
				if box, ok := compositor.Find[*Box](c); ok {
					box.SetStatus("copied " + r.ID)
				}
			}, nil
		},
		OnError: func(err error) compositor.Callback {
			return func(c *compositor.Compositor, _ *compositor.Context) {
				if box, ok := compositor.Find[*Box](c); ok {
					box.SetError(fmt.Sprintf("copy failed: %v", err))
				}
			}
		},
	})
}
