package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/atomicstack/siyuan-tui/internal/compositor"
	"github.com/atomicstack/siyuan-tui/internal/keymap"
	"github.com/atomicstack/siyuan-tui/internal/ui/command"
)

type commandFunc func(e *Editor, cx *compositor.Context) compositor.Callback

var commandTable = map[string]commandFunc{
	keymap.MoveCharLeft.Name:    motion(func(e *Editor, v *view) { v.col-- }),
	keymap.MoveCharRight.Name:   motion(func(e *Editor, v *view) { v.col++ }),
	keymap.MoveLineUp.Name:      motion(func(e *Editor, v *view) { v.row-- }),
	keymap.MoveLineDown.Name:    motion(func(e *Editor, v *view) { v.row++ }),
	keymap.PageUp.Name:          motion(func(e *Editor, v *view) { v.row -= e.page(); v.scroll -= e.page() }),
	keymap.PageDown.Name:        motion(func(e *Editor, v *view) { v.row += e.page(); v.scroll += e.page() }),
	keymap.HalfPageUp.Name:      motion(func(e *Editor, v *view) { v.row -= e.page() / 2; v.scroll -= e.page() / 2 }),
	keymap.HalfPageDown.Name:    motion(func(e *Editor, v *view) { v.row += e.page() / 2; v.scroll += e.page() / 2 }),
	keymap.GotoStart.Name:       motion(func(e *Editor, v *view) { v.row, v.col = 0, 0 }),
	keymap.GotoEnd.Name:         motion(func(e *Editor, v *view) { v.row, v.col = len(e.lines)-1, 0 }),
	keymap.GotoLineStart.Name:   motion(func(e *Editor, v *view) { v.col = 0 }),
	keymap.GotoLineEnd.Name:     motion(func(e *Editor, v *view) { v.col = 1 << 30 }),
	keymap.ScrollUp.Name:        motion(func(e *Editor, v *view) { v.scroll--; v.row = clampInt(v.row, v.scroll, v.scroll+e.page()-1) }),
	keymap.ScrollDown.Name:      motion(func(e *Editor, v *view) { v.scroll++; v.row = clampInt(v.row, v.scroll, v.scroll+e.page()-1) }),
	keymap.AlignViewCenter.Name: motion(func(e *Editor, v *view) { v.scroll = v.row - e.page()/2 }),
	keymap.AlignViewTop.Name:    motion(func(e *Editor, v *view) { v.scroll = v.row }),
	keymap.AlignViewBottom.Name: motion(func(e *Editor, v *view) { v.scroll = v.row - e.page() + 1 }),
	keymap.GotoNextBuffer.Name:  func(e *Editor, cx *compositor.Context) compositor.Callback { return e.cycleBuffer(cx, 1) },
	keymap.GotoPrevBuffer.Name:  func(e *Editor, cx *compositor.Context) compositor.Callback { return e.cycleBuffer(cx, -1) },
	keymap.CloseBuffer.Name:     (*Editor).closeBuffer,
	keymap.NormalMode.Name:      (*Editor).normalMode,
	keymap.InsertMode.Name:      (*Editor).insertMode,
	keymap.SelectMode.Name:      (*Editor).selectMode,
	keymap.YankSelection.Name:   (*Editor).yankSelection,
	keymap.SearchOpen.Name:      (*Editor).openSearch,
	keymap.ReloadDocument.Name: func(e *Editor, cx *compositor.Context) compositor.Callback {
		e.reloadCurrent(cx, "requested")
		return nil
	},
	keymap.Quit.Name: func(e *Editor, cx *compositor.Context) compositor.Callback {
		cx.Quit = true
		return nil
	},
}

// motion adapts a cursor mutation into a command. The view is clamped
// against the last layout afterwards.
func motion(fn func(e *Editor, v *view)) commandFunc {
	return func(e *Editor, cx *compositor.Context) compositor.Callback {
		v := e.currentView(cx)
		if v == nil {
			return nil
		}
		fn(e, v)
		if e.laidOutID == cx.Documents.Current() {
			v.clamp(e.lines, e.viewHeight)
		}
		return nil
	}
}

// page is the height of the document area from the last render.
func (e *Editor) page() int {
	if e.viewHeight < 1 {
		return 1
	}
	return e.viewHeight
}

func (e *Editor) cycleBuffer(cx *compositor.Context, delta int) compositor.Callback {
	docs := cx.Documents.Entries()
	if len(docs) < 2 {
		return nil
	}
	cur := 0
	for i, d := range docs {
		if d.ID == cx.Documents.Current() {
			cur = i
			break
		}
	}
	next := (cur + delta + len(docs)) % len(docs)
	cx.Documents.SetCurrent(docs[next].ID)
	e.invalidate()
	return nil
}

func (e *Editor) closeBuffer(cx *compositor.Context) compositor.Callback {
	id := cx.Documents.Current()
	if id == "" {
		return nil
	}
	cx.Documents.Remove(id)
	delete(e.views, id)
	e.invalidate()
	e.mode = keymap.ModeNormal
	return nil
}

func (e *Editor) normalMode(cx *compositor.Context) compositor.Callback {
	e.mode = keymap.ModeNormal
	if v := e.currentView(cx); v != nil {
		v.anchor = -1
	}
	return nil
}

func (e *Editor) insertMode(cx *compositor.Context) compositor.Callback {
	e.mode = keymap.ModeInsert
	return nil
}

func (e *Editor) selectMode(cx *compositor.Context) compositor.Callback {
	v := e.currentView(cx)
	if v == nil {
		return nil
	}
	e.mode = keymap.ModeSelect
	v.anchor = v.row
	return nil
}

// yankSelection copies the selected rows as plain text and returns to
// normal mode. The clipboard write happens off the UI loop.
func (e *Editor) yankSelection(cx *compositor.Context) compositor.Callback {
	v := e.currentView(cx)
	if v == nil {
		return nil
	}
	lo, hi, ok := v.selection()
	if !ok || e.laidOutID != cx.Documents.Current() || len(e.lines) == 0 {
		return e.normalMode(cx)
	}
	hi = clampInt(hi, lo, len(e.lines)-1)
	rows := make([]string, 0, hi-lo+1)
	for _, l := range e.lines[lo : hi+1] {
		rows = append(rows, strings.TrimRight(ansi.Strip(l), " "))
	}
	text := strings.Join(rows, "\n")
	count := len(rows)
	e.normalMode(cx)

	write := e.clipboard
	if e.bus == nil {
		if err := write(text); err != nil {
			e.SetError(fmt.Sprintf("yank failed: %v", err))
		} else {
			e.SetStatus(fmt.Sprintf("yanked %d lines", count))
		}
		return nil
	}
	e.bus.Spawn(command.Request{
		Label: "editor.yank",
		Work: func(context.Context) (compositor.Callback, error) {
			if err := write(text); err != nil {
				return nil, err
			}
			return func(c *compositor.Compositor, _ *compositor.Context) {
				if ed, ok := compositor.Find[*Editor](c); ok {
					ed.SetStatus(fmt.Sprintf("yanked %d lines", count))
				}
			}, nil
		},
		OnError: func(err error) compositor.Callback {
			return func(c *compositor.Compositor, _ *compositor.Context) {
				if ed, ok := compositor.Find[*Editor](c); ok {
					ed.SetError(fmt.Sprintf("yank failed: %v", err))
				}
			}
		},
	})
	return nil
}

// openSearch pushes the search layer unless one is already open.
func (e *Editor) openSearch(cx *compositor.Context) compositor.Callback {
	if e.newSearch == nil {
		e.SetError("search is unavailable")
		return nil
	}
	build := e.newSearch
	return func(c *compositor.Compositor, _ *compositor.Context) {
		layer := build()
		if ident, ok := layer.(compositor.Identifier); ok {
			if _, open := c.FindByID(ident.ID()); open {
				if u, ok := layer.(compositor.Unmounter); ok {
					u.Unmount()
				}
				return
			}
		}
		c.Push(layer)
	}
}
