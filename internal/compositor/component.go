package compositor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/siyuan-tui/internal/state"
	"github.com/atomicstack/siyuan-tui/internal/theme"
)

// Context is the shared state handed to every layer. Layers read it during
// Render and may mutate the document store from callbacks and jobs.
type Context struct {
	Theme     *theme.Styles
	Documents state.DocumentStore
	// Quit is set by a layer to ask the event loop to exit.
	Quit bool
}

// NewContext returns a context with the default theme and an empty store.
func NewContext() *Context {
	return &Context{Theme: theme.Default(), Documents: state.NewDocumentStore()}
}

// Callback is deferred work returned from event handling. It runs after
// dispatch completes with exclusive access to the compositor.
type Callback func(c *Compositor, cx *Context)

// EventResult reports whether a layer consumed an event and what should run
// once dispatch finishes.
type EventResult struct {
	Consumed bool
	Callback Callback
}

// Ignored lets the event continue to lower layers. cb may be nil.
func Ignored(cb Callback) EventResult {
	return EventResult{Callback: cb}
}

// Consumed stops propagation. cb may be nil.
func Consumed(cb Callback) EventResult {
	return EventResult{Consumed: true, Callback: cb}
}

// Component is one layer of the screen.
type Component interface {
	Render(s *Surface, area Rect, cx *Context)
	HandleEvent(msg tea.Msg, cx *Context) EventResult
}

// Cursorer is implemented by layers that place the terminal cursor.
type Cursorer interface {
	CursorPosition(area Rect, cx *Context) (Position, bool)
}

// Identifier gives a layer a stable name for FindByID and Remove.
type Identifier interface {
	ID() string
}

// Unmounter is notified when its layer leaves the stack.
type Unmounter interface {
	Unmount()
}
