package editor

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/siyuan-tui/internal/compositor"
	"github.com/atomicstack/siyuan-tui/internal/keymap"
	"github.com/atomicstack/siyuan-tui/internal/layout"
	"github.com/atomicstack/siyuan-tui/internal/siyuan"
	"github.com/atomicstack/siyuan-tui/internal/theme"
)

type lineLayout struct{}

func (lineLayout) Layout(doc siyuan.Document, width int) []layout.Block {
	out := make([]layout.Block, len(doc.Blocks))
	for i, b := range doc.Blocks {
		out[i] = layout.Block{Index: i, ID: b.ID, Lines: strings.Split(b.Markdown, "\n")}
	}
	return out
}

type stubSearch struct{ unmounted bool }

func (s *stubSearch) ID() string { return "search" }
func (s *stubSearch) Render(*compositor.Surface, compositor.Rect, *compositor.Context) {}
func (s *stubSearch) HandleEvent(tea.Msg, *compositor.Context) compositor.EventResult {
	return compositor.Consumed(nil)
}
func (s *stubSearch) Unmount() { s.unmounted = true }

type fixture struct {
	ed      *Editor
	comp    *compositor.Compositor
	cx      *compositor.Context
	yanked  []string
	surface *compositor.Surface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}
	f.ed = New(Options{
		Layout:    lineLayout{},
		Clipboard: func(s string) error { f.yanked = append(f.yanked, s); return nil },
		NewSearch: func() compositor.Component { return &stubSearch{} },
	})
	f.cx = compositor.NewContext()
	f.cx.Theme = theme.Plain()
	f.comp = compositor.New(compositor.Rect{Width: 40, Height: 12}, f.ed)
	return f
}

func sampleDoc(n int) siyuan.Document {
	doc := siyuan.Document{ID: "doc", Title: "Sample"}
	for i := 0; i < n; i++ {
		doc.Blocks = append(doc.Blocks, siyuan.Block{ID: fmt.Sprintf("b%d", i), Markdown: fmt.Sprintf("line %d", i)})
	}
	return doc
}

func (f *fixture) press(keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		f.comp.HandleEvent(msg, f.cx)
	}
}

func (f *fixture) render() {
	f.surface = compositor.NewSurface(40, 12)
	f.comp.Render(f.surface, f.cx)
}

func (f *fixture) row(y int) string {
	return strings.TrimRight(f.surface.PlainRow(y), " ")
}

func TestGotoSequenceMovesCursor(t *testing.T) {
	f := newFixture(t)
	f.ed.Open(sampleDoc(20), siyuan.Result{}, f.cx)
	f.render()

	f.press("G")
	if row, _ := f.ed.Cursor(f.cx); row != 19 {
		t.Fatalf("expected G to reach last row, got %d", row)
	}
	f.press("g")
	if f.ed.PendingNode() == nil || f.ed.PendingNode().Label != "Goto" {
		t.Fatal("expected Goto node pending after g")
	}
	f.press("g")
	if row, _ := f.ed.Cursor(f.cx); row != 0 {
		t.Fatalf("expected gg to reach first row, got %d", row)
	}
	if f.ed.PendingNode() != nil {
		t.Fatal("expected pending cleared after match")
	}
}

func TestMotionClampsToDocument(t *testing.T) {
	f := newFixture(t)
	f.ed.Open(sampleDoc(3), siyuan.Result{}, f.cx)
	f.render()

	f.press("k", "h")
	if row, col := f.ed.Cursor(f.cx); row != 0 || col != 0 {
		t.Fatalf("expected clamp at origin, got %d:%d", row, col)
	}
	f.press("j", "j", "j", "j", "l", "l", "l", "l", "l", "l", "l", "l")
	if row, col := f.ed.Cursor(f.cx); row != 2 || col != 5 {
		t.Fatalf("expected clamp at 2:5, got %d:%d", row, col)
	}
}

func TestSearchKeyPushesSingleLayer(t *testing.T) {
	f := newFixture(t)
	f.press("space")
	if f.comp.Len() != 2 {
		t.Fatalf("expected search pushed, len=%d", f.comp.Len())
	}
	if _, ok := f.comp.Top().(*stubSearch); !ok {
		t.Fatalf("expected search on top, got %T", f.comp.Top())
	}

	// a second open while one is live must not stack another
	cb := f.ed.openSearch(f.cx)
	f.comp.Run(cb, f.cx)
	if f.comp.Len() != 2 {
		t.Fatalf("expected single search layer, len=%d", f.comp.Len())
	}
}

func TestOpenFocusesBlock(t *testing.T) {
	f := newFixture(t)
	f.ed.Open(sampleDoc(30), siyuan.Result{ID: "b17"}, f.cx)
	f.render()
	if row, _ := f.ed.Cursor(f.cx); row != 17 {
		t.Fatalf("expected cursor on focused block, got %d", row)
	}
	if msg, isErr := f.ed.Status(); isErr || !strings.Contains(msg, "Sample") {
		t.Fatalf("unexpected status %q %v", msg, isErr)
	}
}

func TestSelectAndYank(t *testing.T) {
	f := newFixture(t)
	f.ed.Open(sampleDoc(5), siyuan.Result{}, f.cx)
	f.render()

	f.press("j", "v")
	if f.ed.Mode() != keymap.ModeSelect {
		t.Fatal("expected select mode")
	}
	f.press("j", "y")
	if f.ed.Mode() != keymap.ModeNormal {
		t.Fatal("expected yank to return to normal mode")
	}
	if len(f.yanked) != 1 || f.yanked[0] != "line 1\nline 2" {
		t.Fatalf("unexpected yank %q", f.yanked)
	}
}

func TestInsertModeEscapeReturnsToNormal(t *testing.T) {
	f := newFixture(t)
	f.ed.Open(sampleDoc(2), siyuan.Result{}, f.cx)
	f.press("i")
	if f.ed.Mode() != keymap.ModeInsert {
		t.Fatal("expected insert mode")
	}
	f.press("esc")
	if f.ed.Mode() != keymap.ModeNormal {
		t.Fatal("expected escape back to normal mode")
	}
}

func TestStickyViewScrollsRepeatedly(t *testing.T) {
	f := newFixture(t)
	f.ed.Open(sampleDoc(40), siyuan.Result{}, f.cx)
	f.render()

	f.press("Z", "j", "j", "j")
	if f.ed.PendingNode() == nil {
		t.Fatal("expected sticky node to stay visible")
	}
	f.render()
	if got := f.row(1); !strings.Contains(got, "line 3") {
		t.Fatalf("expected view scrolled by three rows, got %q", got)
	}
	f.press("esc")
	if f.ed.PendingNode() != nil {
		t.Fatal("expected escape to clear sticky node")
	}
}

func TestRenderLayout(t *testing.T) {
	f := newFixture(t)
	f.render()
	var empty bool
	for y := 1; y < 11; y++ {
		if strings.Contains(f.row(y), emptyMessage[:20]) {
			empty = true
		}
	}
	if !empty {
		t.Fatal("expected empty document message")
	}

	f.ed.Open(sampleDoc(3), siyuan.Result{}, f.cx)
	f.render()
	if got := f.row(0); !strings.Contains(got, "Sample") {
		t.Fatalf("expected bufferline title, got %q", got)
	}
	if got := f.row(1); got != "  1 line 0" {
		t.Fatalf("unexpected first document row %q", got)
	}
	status := f.row(11)
	if !strings.HasPrefix(status, " NOR ") || !strings.HasSuffix(status, "1:1") {
		t.Fatalf("unexpected status line %q", status)
	}
	if pos, ok := f.comp.CursorPosition(f.cx); !ok || pos != (compositor.Position{Row: 1, Col: 4}) {
		t.Fatalf("unexpected cursor %+v %v", pos, ok)
	}
}

func TestPendingPopupListsBindings(t *testing.T) {
	f := newFixture(t)
	f.ed.Open(sampleDoc(3), siyuan.Result{}, f.cx)
	f.press("g")
	f.render()
	var found bool
	for y := 1; y < 11; y++ {
		if strings.Contains(f.row(y), "Goto first line") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected pending popup with Goto bindings")
	}
}

func TestQuitCommandFlagsContext(t *testing.T) {
	f := newFixture(t)
	f.press("q")
	if !f.cx.Quit {
		t.Fatal("expected quit flag set")
	}
}

func TestBufferCycling(t *testing.T) {
	f := newFixture(t)
	a, b := sampleDoc(1), sampleDoc(1)
	b.ID, b.Title = "other", "Other"
	f.ed.Open(a, siyuan.Result{}, f.cx)
	f.ed.Open(b, siyuan.Result{}, f.cx)
	f.press("g", "n")
	if f.cx.Documents.Current() != "doc" {
		t.Fatalf("expected wrap to first buffer, got %s", f.cx.Documents.Current())
	}
	f.press("g", "p")
	if f.cx.Documents.Current() != "other" {
		t.Fatalf("expected previous buffer, got %s", f.cx.Documents.Current())
	}
}
