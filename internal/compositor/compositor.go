// Package compositor owns the stack of screen layers. Input is dispatched
// top-down and rendering runs bottom-up; layers ask for stack changes by
// returning callbacks that run once dispatch is over.
package compositor

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/siyuan-tui/internal/logging/events"
)

var (
	// ErrBaseLayer is returned when an operation would remove the base layer.
	ErrBaseLayer = errors.New("compositor: cannot remove the base layer")
	// ErrNoLayer is returned when no layer has the requested id.
	ErrNoLayer = errors.New("compositor: no such layer")
)

// Compositor is the ordered layer stack. The last layer is the foreground.
// It is not safe for concurrent use; the UI loop owns it.
type Compositor struct {
	layers []Component
	area   Rect
}

// New creates a compositor whose base layer is base.
func New(area Rect, base Component) *Compositor {
	if base == nil {
		panic("compositor: nil base layer")
	}
	return &Compositor{layers: []Component{base}, area: area}
}

// Area returns the current screen area.
func (c *Compositor) Area() Rect {
	return c.area
}

// Resize updates the screen area.
func (c *Compositor) Resize(width, height int) {
	c.area = Rect{Width: width, Height: height}
}

// Len reports the number of layers, never less than one.
func (c *Compositor) Len() int {
	return len(c.layers)
}

// Top returns the foreground layer.
func (c *Compositor) Top() Component {
	return c.layers[len(c.layers)-1]
}

// Push adds layer to the foreground.
func (c *Compositor) Push(layer Component) {
	if layer == nil {
		return
	}
	c.layers = append(c.layers, layer)
	events.Compositor.Push(layerName(layer), len(c.layers))
}

// Pop removes and returns the foreground layer. The base layer is never
// popped; Pop reports false instead.
func (c *Compositor) Pop() (Component, bool) {
	if len(c.layers) <= 1 {
		events.Compositor.PopRefused(layerName(c.layers[0]))
		return nil, false
	}
	top := c.layers[len(c.layers)-1]
	c.layers[len(c.layers)-1] = nil
	c.layers = c.layers[:len(c.layers)-1]
	unmount(top)
	events.Compositor.Pop(layerName(top), len(c.layers))
	return top, true
}

// Remove takes the layer with the given id off the stack wherever it sits.
func (c *Compositor) Remove(id string) (Component, error) {
	for i := len(c.layers) - 1; i >= 0; i-- {
		ident, ok := c.layers[i].(Identifier)
		if !ok || ident.ID() != id {
			continue
		}
		if i == 0 {
			return nil, ErrBaseLayer
		}
		layer := c.layers[i]
		c.layers = append(c.layers[:i], c.layers[i+1:]...)
		unmount(layer)
		events.Compositor.Pop(id, len(c.layers))
		return layer, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoLayer, id)
}

// FindByID returns the topmost layer whose ID matches.
func (c *Compositor) FindByID(id string) (Component, bool) {
	for i := len(c.layers) - 1; i >= 0; i-- {
		if ident, ok := c.layers[i].(Identifier); ok && ident.ID() == id {
			return c.layers[i], true
		}
	}
	return nil, false
}

// Find returns the topmost layer of type T. Callers keep at most one layer of
// a given type on the stack; if several exist the foreground-most wins.
func Find[T any](c *Compositor) (T, bool) {
	for i := len(c.layers) - 1; i >= 0; i-- {
		if layer, ok := c.layers[i].(T); ok {
			return layer, true
		}
	}
	var zero T
	events.Compositor.FindMiss(fmt.Sprintf("%T", (*T)(nil))[1:])
	return zero, false
}

// HandleEvent routes msg from the foreground down until a layer consumes
// it, then runs the collected callbacks in order. A resize updates the area
// before any layer sees it. The return value reports whether a redraw is
// needed, which is currently always.
func (c *Compositor) HandleEvent(msg tea.Msg, cx *Context) bool {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		c.Resize(size.Width, size.Height)
	}

	var callbacks []Callback
	layers := append([]Component(nil), c.layers...)
	for i := len(layers) - 1; i >= 0; i-- {
		res := c.dispatch(layers[i], msg, cx)
		if res.Callback != nil {
			callbacks = append(callbacks, res.Callback)
		}
		if res.Consumed {
			break
		}
	}
	for _, cb := range callbacks {
		c.Run(cb, cx)
	}
	return true
}

// Run executes cb against the compositor, recovering from panics.
func (c *Compositor) Run(cb Callback, cx *Context) {
	if cb == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			events.Compositor.Panic("callback", "callback", r)
		}
	}()
	cb(c, cx)
}

// Render paints each layer from the base up over the full area.
func (c *Compositor) Render(s *Surface, cx *Context) {
	area := c.area
	if sa := s.Area(); area.Width > sa.Width || area.Height > sa.Height || area.Empty() {
		area = sa
	}
	for _, layer := range c.layers {
		c.render(layer, s, area, cx)
	}
}

// CursorPosition returns the cursor of the topmost layer that claims one.
func (c *Compositor) CursorPosition(cx *Context) (Position, bool) {
	for i := len(c.layers) - 1; i >= 0; i-- {
		cur, ok := c.layers[i].(Cursorer)
		if !ok {
			continue
		}
		if pos, ok := cur.CursorPosition(c.area, cx); ok {
			return pos, true
		}
	}
	return Position{}, false
}

func (c *Compositor) dispatch(layer Component, msg tea.Msg, cx *Context) (res EventResult) {
	defer func() {
		if r := recover(); r != nil {
			events.Compositor.Panic(layerName(layer), "event", r)
			res = Ignored(nil)
		}
	}()
	return layer.HandleEvent(msg, cx)
}

func (c *Compositor) render(layer Component, s *Surface, area Rect, cx *Context) {
	defer func() {
		if r := recover(); r != nil {
			events.Compositor.Panic(layerName(layer), "render", r)
		}
	}()
	layer.Render(s, area, cx)
}

func unmount(layer Component) {
	if u, ok := layer.(Unmounter); ok {
		u.Unmount()
	}
}

func layerName(layer Component) string {
	if ident, ok := layer.(Identifier); ok {
		return ident.ID()
	}
	return fmt.Sprintf("%T", layer)
}
