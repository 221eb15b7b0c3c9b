// Package editor implements the document view that forms the base layer of
// the compositor. Keys are resolved through a modal keymap and executed
// against the focused document.
package editor

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/siyuan-tui/internal/compositor"
	"github.com/atomicstack/siyuan-tui/internal/keymap"
	"github.com/atomicstack/siyuan-tui/internal/layout"
	"github.com/atomicstack/siyuan-tui/internal/logging/events"
	"github.com/atomicstack/siyuan-tui/internal/siyuan"
	"github.com/atomicstack/siyuan-tui/internal/ui/command"
)

// LayerID identifies the editor on the compositor stack.
const LayerID = "editor"

// Options wires the editor's collaborators.
type Options struct {
	Keymaps   *keymap.Keymaps
	Layout    layout.Provider
	Bus       *command.Bus
	Loader    siyuan.Loader
	Clipboard func(string) error
	// NewSearch builds the search layer pushed by the search command.
	NewSearch func() compositor.Component
}

// Editor is the base layer: bufferline, document view and status line.
type Editor struct {
	keymaps   *keymap.Keymaps
	layout    layout.Provider
	bus       *command.Bus
	loader    siyuan.Loader
	clipboard func(string) error
	newSearch func() compositor.Component

	mode    keymap.Mode
	views   map[string]*view
	pending *keymap.Node
	status  string
	isError bool

	// Layout of the focused document from the last render.
	lines        []string
	owners       []int
	laidOutID    string
	laidOutWidth int
	viewHeight   int
}

// New builds an editor.
func New(opts Options) *Editor {
	if opts.Keymaps == nil {
		opts.Keymaps = keymap.New(keymap.Default())
	}
	if opts.Layout == nil {
		opts.Layout = layout.NewMarkdown("")
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	return &Editor{
		keymaps:   opts.Keymaps,
		layout:    opts.Layout,
		bus:       opts.Bus,
		loader:    opts.Loader,
		clipboard: opts.Clipboard,
		newSearch: opts.NewSearch,
		views:     make(map[string]*view),
	}
}

func (e *Editor) ID() string { return LayerID }

// Mode returns the current input mode.
func (e *Editor) Mode() keymap.Mode { return e.mode }

// Status returns the status message and whether it reports an error.
func (e *Editor) Status() (string, bool) { return e.status, e.isError }

// SetStatus shows an informational message.
func (e *Editor) SetStatus(msg string) {
	e.status, e.isError = msg, false
}

// SetError shows an error message.
func (e *Editor) SetError(msg string) {
	e.status, e.isError = msg, true
}

// PendingNode returns the trie node awaiting more keys, if any.
func (e *Editor) PendingNode() *keymap.Node { return e.pending }

// Cursor returns the cursor row and column within the focused document.
func (e *Editor) Cursor(cx *compositor.Context) (int, int) {
	v := e.currentView(cx)
	if v == nil {
		return 0, 0
	}
	return v.row, v.col
}

// Open installs doc as the focused document. When focus names a block the
// cursor moves to it once the document has been laid out.
func (e *Editor) Open(doc siyuan.Document, focus siyuan.Result, cx *compositor.Context) {
	cx.Documents.Put(doc)
	cx.Documents.SetCurrent(doc.ID)
	v, ok := e.views[doc.ID]
	if !ok {
		v = newView()
		e.views[doc.ID] = v
	}
	v.focus = doc.IndexOf(focus.ID, focus.Content)
	e.invalidate()
	e.SetStatus(fmt.Sprintf("opened %s", displayTitle(doc)))
	events.Document.Open(doc.ID, doc.Title)
}

// Reload replaces an open document, keeping its cursor where possible.
func (e *Editor) Reload(doc siyuan.Document, cx *compositor.Context) bool {
	if _, ok := cx.Documents.Get(doc.ID); !ok {
		return false
	}
	cx.Documents.Put(doc)
	e.invalidate()
	return true
}

// HandleEvent resolves key presses through the keymap. Other messages pass
// through untouched.
func (e *Editor) HandleEvent(msg tea.Msg, cx *compositor.Context) compositor.EventResult {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return compositor.Ignored(nil)
	}
	key := keymap.FromMsg(keyMsg)
	res := e.keymaps.Resolve(e.mode, key)
	events.Keymap.Resolve(e.mode.String(), string(key), res.Outcome.String())

	switch res.Outcome {
	case keymap.Pending:
		e.pending = res.Node
		if e.keymaps.Sticky() == res.Node {
			events.Keymap.Sticky(res.Node.Label)
		}
		return compositor.Consumed(nil)
	case keymap.Matched:
		e.pending = e.keymaps.Sticky()
		return compositor.Consumed(e.execute(cx, res.Command))
	case keymap.MatchedSequence:
		e.pending = e.keymaps.Sticky()
		return compositor.Consumed(e.execute(cx, res.Sequence...))
	case keymap.Cancelled:
		e.pending = e.keymaps.Sticky()
		return compositor.Consumed(nil)
	}
	e.pending = e.keymaps.Sticky()
	return compositor.Ignored(nil)
}

// execute runs commands in order and chains any callbacks they return.
func (e *Editor) execute(cx *compositor.Context, cmds ...keymap.Command) compositor.Callback {
	var callbacks []compositor.Callback
	for _, c := range cmds {
		fn, ok := commandTable[c.Name]
		if !ok {
			e.SetError(fmt.Sprintf("unknown command %s", c.Name))
			continue
		}
		events.Keymap.Execute(e.mode.String(), c.Name)
		if cb := fn(e, cx); cb != nil {
			callbacks = append(callbacks, cb)
		}
	}
	if len(callbacks) == 0 {
		return nil
	}
	return func(c *compositor.Compositor, cx *compositor.Context) {
		for _, cb := range callbacks {
			cb(c, cx)
		}
	}
}

func (e *Editor) currentView(cx *compositor.Context) *view {
	id := cx.Documents.Current()
	if id == "" {
		return nil
	}
	v, ok := e.views[id]
	if !ok {
		v = newView()
		e.views[id] = v
	}
	return v
}

// invalidate forces the next render to lay the document out again.
func (e *Editor) invalidate() {
	e.laidOutID = ""
	e.lines = nil
	e.owners = nil
}

// reloadCurrent fetches the focused document again in the background.
func (e *Editor) reloadCurrent(cx *compositor.Context, reason string) {
	id := cx.Documents.Current()
	if id == "" || e.loader == nil || e.bus == nil {
		return
	}
	events.Document.Reload(id, reason)
	loader := e.loader
	e.bus.Spawn(command.Request{
		Label: "document.reload",
		Work: func(ctx context.Context) (compositor.Callback, error) {
			doc, err := loader.Document(ctx, id)
			if err != nil {
				return nil, err
			}
			return func(c *compositor.Compositor, cx *compositor.Context) {
				ed, ok := compositor.Find[*Editor](c)
				if !ok {
					return
				}
				if ed.Reload(doc, cx) {
					ed.SetStatus(fmt.Sprintf("reloaded %s", displayTitle(doc)))
				}
			}, nil
		},
		OnError: func(err error) compositor.Callback {
			events.Document.Error(id, err)
			return func(c *compositor.Compositor, _ *compositor.Context) {
				if ed, ok := compositor.Find[*Editor](c); ok {
					ed.SetError(fmt.Sprintf("reload failed: %v", err))
				}
			}
		},
	})
}

// ReloadCurrent is the entry point used when the index changes on disk.
func (e *Editor) ReloadCurrent(cx *compositor.Context) {
	e.reloadCurrent(cx, "index changed")
}

func displayTitle(doc siyuan.Document) string {
	if doc.Title != "" {
		return doc.Title
	}
	if doc.HPath != "" {
		return doc.HPath
	}
	return doc.ID
}
