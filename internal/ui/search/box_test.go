package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/siyuan-tui/internal/compositor"
	"github.com/atomicstack/siyuan-tui/internal/debounce"
	"github.com/atomicstack/siyuan-tui/internal/job"
	"github.com/atomicstack/siyuan-tui/internal/layout"
	"github.com/atomicstack/siyuan-tui/internal/siyuan"
	"github.com/atomicstack/siyuan-tui/internal/testutil"
	"github.com/atomicstack/siyuan-tui/internal/theme"
	"github.com/atomicstack/siyuan-tui/internal/ui/command"
	"github.com/atomicstack/siyuan-tui/internal/ui/editor"
)

type harness struct {
	t       *testing.T
	backend *testutil.FakeBackend
	queue   *job.Queue
	bus     *command.Bus
	comp    *compositor.Compositor
	cx      *compositor.Context
	ed      *editor.Editor

	mu     sync.Mutex
	copied []string
}

func newHarness(t *testing.T, delay time.Duration) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := &harness{t: t, backend: testutil.NewFakeBackend(), queue: job.NewQueue(job.Capacity)}
	h.bus = command.New(ctx, h.queue)
	newBox := func() compositor.Component {
		return New(Options{
			Searcher:  h.backend,
			Loader:    h.backend,
			Bus:       h.bus,
			Delay:     delay,
			Clipboard: h.copy,
		})
	}
	h.ed = editor.New(editor.Options{
		Layout:    layout.NewMarkdown(layout.StylePlain),
		Bus:       h.bus,
		Loader:    h.backend,
		NewSearch: newBox,
	})
	h.cx = compositor.NewContext()
	h.cx.Theme = theme.Plain()
	h.comp = compositor.New(compositor.Rect{Width: 80, Height: 24}, h.ed)
	t.Cleanup(func() {
		for h.comp.Len() > 1 {
			h.comp.Pop()
		}
	})
	return h
}

func (h *harness) copy(s string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.copied = append(h.copied, s)
	return nil
}

func (h *harness) send(msgs ...tea.KeyMsg) {
	for _, m := range msgs {
		h.comp.HandleEvent(m, h.cx)
	}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) openSearch() *Box {
	h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	box, ok := compositor.Find[*Box](h.comp)
	require.True(h.t, ok, "search box not pushed")
	return box
}

// drain runs queued jobs until none arrive for a short while.
func (h *harness) drain() {
	quiet := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(quiet) {
		if j, ok := h.queue.TryNext(); ok {
			j.Run(h.comp, h.cx)
			quiet = time.Now().Add(100 * time.Millisecond)
			continue
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// runUntil runs jobs until cond holds.
func (h *harness) runUntil(cond func() bool) {
	h.t.Helper()
	require.Eventually(h.t, func() bool {
		for {
			j, ok := h.queue.TryNext()
			if !ok {
				break
			}
			j.Run(h.comp, h.cx)
		}
		return cond()
	}, 3*time.Second, 10*time.Millisecond)
}

func results(contents ...string) []siyuan.Result {
	out := make([]siyuan.Result, len(contents))
	for i, c := range contents {
		out[i] = siyuan.Result{ID: "b" + c, RootID: "doc-" + c, Content: c, HPath: "/" + c}
	}
	return out
}

func contents(box *Box) []string {
	var out []string
	for _, r := range box.Rows() {
		if r.Synthetic {
			out = append(out, "!"+r.Message)
			continue
		}
		out = append(out, r.Result.Content)
	}
	return out
}

func TestSearchDebouncesTypingIntoOneQuery(t *testing.T) {
	h := newHarness(t, debounce.DefaultDelay)
	h.backend.SetResults("ab", results("abc", "abd")...)

	require.Equal(t, 1, h.comp.Len())
	box := h.openSearch()
	require.Equal(t, 2, h.comp.Len())
	require.Same(t, box, h.comp.Top())

	h.typeText("a")
	h.typeText("b")
	typed := time.Now()
	require.True(t, box.Loading())

	time.Sleep(300 * time.Millisecond)
	require.Empty(t, h.backend.Queries(), "no query before the quiet period")

	select {
	case q := <-h.backend.Issued():
		require.Equal(t, "ab", q)
	case <-time.After(2 * time.Second):
		t.Fatal("query never issued")
	}
	queries := h.backend.Queries()
	require.Len(t, queries, 1)
	require.GreaterOrEqual(t, queries[0].At.Sub(typed), debounce.DefaultDelay-10*time.Millisecond)

	h.runUntil(func() bool { return len(box.Rows()) == 2 })
	require.False(t, box.Loading())
	require.ElementsMatch(t, []string{"abc", "abd"}, contents(box))

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, 1, h.comp.Len())
	_, ok := compositor.Find[*Box](h.comp)
	require.False(t, ok)
	require.Equal(t, []string{"ab"}, h.backend.QueryTexts())
}

func TestSearchDiscardsStaleResults(t *testing.T) {
	h := newHarness(t, 20*time.Millisecond)
	h.backend.SetResults("a", results("apple")...)
	h.backend.SetResults("ab", results("abacus")...)
	releaseA := h.backend.Gate("a")
	releaseAB := h.backend.Gate("ab")

	box := h.openSearch()
	h.typeText("a")
	require.Equal(t, "a", <-h.backend.Issued())
	h.typeText("b")
	require.Equal(t, "ab", <-h.backend.Issued())

	releaseAB()
	h.runUntil(func() bool { return len(box.Rows()) == 1 })
	require.Equal(t, []string{"abacus"}, contents(box))

	releaseA()
	h.bus.Wait()
	h.drain()
	require.Equal(t, []string{"abacus"}, contents(box))
	require.False(t, box.Loading())
}

func TestSearchEmptyQueryClearsWithoutRequest(t *testing.T) {
	h := newHarness(t, 20*time.Millisecond)
	h.backend.SetResults("x", results("xylophone")...)

	box := h.openSearch()
	h.typeText("x")
	h.runUntil(func() bool { return len(box.Rows()) == 1 })

	h.send(tea.KeyMsg{Type: tea.KeyBackspace})
	require.Empty(t, box.Value())
	require.Empty(t, box.Rows())
	require.False(t, box.Loading())

	time.Sleep(80 * time.Millisecond)
	h.drain()
	require.Equal(t, []string{"x"}, h.backend.QueryTexts())
}

func TestSearchFailureShowsSyntheticRow(t *testing.T) {
	h := newHarness(t, 20*time.Millisecond)
	h.backend.SetSearchError("boom", errors.New("connection refused"))

	box := h.openSearch()
	h.typeText("boom")
	h.runUntil(func() bool { return len(box.Rows()) == 1 })
	require.Equal(t, []string{"!search failed: connection refused"}, contents(box))

	// the modal stays usable and enter on a synthetic row does nothing
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 2, h.comp.Len())
	require.Empty(t, h.backend.Loads())
}

func TestSearchEnterOpensDocument(t *testing.T) {
	h := newHarness(t, 20*time.Millisecond)
	h.backend.SetResults("note", siyuan.Result{ID: "blk", RootID: "doc1", Content: "note body", HPath: "/Notes"})
	h.backend.AddDocument(testutil.Doc("doc1", "Notes", "intro", "note body"))

	box := h.openSearch()
	h.typeText("note")
	h.runUntil(func() bool { return len(box.Rows()) == 1 })

	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.runUntil(func() bool { return h.comp.Len() == 1 })
	require.Equal(t, []string{"doc1"}, h.backend.Loads())
	require.Equal(t, "doc1", h.cx.Documents.Current())
	msg, isErr := h.ed.Status()
	require.False(t, isErr)
	require.Contains(t, msg, "Notes")
}

func TestSearchOpenFailureKeepsBox(t *testing.T) {
	h := newHarness(t, 20*time.Millisecond)
	h.backend.SetResults("gone", siyuan.Result{ID: "blk", RootID: "missing", Content: "gone"})

	box := h.openSearch()
	h.typeText("gone")
	h.runUntil(func() bool { return len(box.Rows()) == 1 })

	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.runUntil(func() bool {
		_, isErr := box.Status()
		return isErr
	})
	msg, _ := box.Status()
	require.True(t, strings.HasPrefix(msg, "open failed:"), msg)
	require.Equal(t, 2, h.comp.Len())
}

func TestSearchYankCopiesReference(t *testing.T) {
	h := newHarness(t, 20*time.Millisecond)
	h.backend.SetResults("ref", siyuan.Result{ID: "20240101-abc", Content: `say "hi"`})

	box := h.openSearch()
	h.typeText("ref")
	h.runUntil(func() bool { return len(box.Rows()) == 1 })

	h.send(tea.KeyMsg{Type: tea.KeyCtrlY})
	h.runUntil(func() bool {
		msg, _ := box.Status()
		return strings.HasPrefix(msg, "copied")
	})
	h.mu.Lock()
	defer h.mu.Unlock()
	require.Equal(t, []string{`((20240101-abc "say 'hi'"))`}, h.copied)
}

func TestSearchCursorMovementWraps(t *testing.T) {
	h := newHarness(t, 20*time.Millisecond)
	h.backend.SetResults("q", results("one", "two", "three")...)

	box := h.openSearch()
	h.typeText("q")
	h.runUntil(func() bool { return len(box.Rows()) == 3 })

	h.send(tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	r, ok := box.list.Selected()
	require.True(t, ok)
	require.Equal(t, "three", r.Content)
	h.send(tea.KeyMsg{Type: tea.KeyDown})
	r, _ = box.list.Selected()
	require.Equal(t, "one", r.Content)
	h.send(tea.KeyMsg{Type: tea.KeyUp})
	r, _ = box.list.Selected()
	require.Equal(t, "three", r.Content)
}

func TestSearchRender(t *testing.T) {
	h := newHarness(t, 20*time.Millisecond)
	h.backend.SetResults("ren", results("render one", "render two")...)

	box := h.openSearch()
	s := compositor.NewSurface(80, 24)
	h.comp.Render(s, h.cx)
	require.Contains(t, s.String(), "search blocks")

	h.typeText("ren")
	h.runUntil(func() bool { return len(box.Rows()) == 2 })
	s = compositor.NewSurface(80, 24)
	h.comp.Render(s, h.cx)
	out := ansiFree(s)
	require.Contains(t, out, "> ren")
	require.Contains(t, out, "> render one")
	require.Contains(t, out, "  render two")
	require.Contains(t, out, "2 results")

	pos, ok := h.comp.CursorPosition(h.cx)
	require.True(t, ok)
	box2 := frame(h.comp.Area())
	require.Equal(t, compositor.Position{Row: box2.Y + 1, Col: box2.X + 1 + 2 + 3}, pos)
}

func TestOpenSearchTwiceKeepsOneBox(t *testing.T) {
	h := newHarness(t, 20*time.Millisecond)
	h.openSearch()
	require.Equal(t, 2, h.comp.Len())
	// the open box swallows the key, so the editor never sees it
	h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.Equal(t, 2, h.comp.Len())
}

func ansiFree(s *compositor.Surface) string {
	area := s.Area()
	rows := make([]string, area.Height)
	for y := range rows {
		rows[y] = s.PlainRow(y)
	}
	return strings.Join(rows, "\n")
}
