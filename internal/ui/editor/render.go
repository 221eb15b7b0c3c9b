package editor

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/siyuan-tui/internal/compositor"
	"github.com/atomicstack/siyuan-tui/internal/format/table"
	"github.com/atomicstack/siyuan-tui/internal/keymap"
	"github.com/atomicstack/siyuan-tui/internal/layout"
)

const (
	minGutterDigits = 3
	emptyMessage    = "No document open. Press space to search."
)

// Render draws the bufferline, the focused document and the status line,
// plus the pending-keys popup while a sequence is in progress.
func (e *Editor) Render(s *compositor.Surface, area compositor.Rect, cx *compositor.Context) {
	if area.Empty() {
		return
	}
	s.Clear(area)
	bufferArea, rest := area.SplitTop(1)
	body, statusArea := rest.SplitBottom(1)

	e.renderBufferline(s, bufferArea, cx)
	e.renderDocument(s, body, cx)
	e.renderStatus(s, statusArea, cx)
	if e.pending != nil {
		e.renderPending(s, body, cx)
	}
}

// CursorPosition places the terminal cursor on the document cursor.
func (e *Editor) CursorPosition(area compositor.Rect, cx *compositor.Context) (compositor.Position, bool) {
	v := e.currentView(cx)
	if v == nil || e.laidOutID != cx.Documents.Current() || len(e.lines) == 0 {
		return compositor.Position{}, false
	}
	_, rest := area.SplitTop(1)
	body, _ := rest.SplitBottom(1)
	row := v.row - v.scroll
	if row < 0 || row >= body.Height {
		return compositor.Position{}, false
	}
	return compositor.Position{Row: body.Y + row, Col: body.X + gutterWidth(len(e.lines)) + v.col}, true
}

func (e *Editor) renderBufferline(s *compositor.Surface, area compositor.Rect, cx *compositor.Context) {
	st := cx.Theme
	s.Fill(area, st.Bufferline.Render)
	x := area.X
	current := cx.Documents.Current()
	for _, doc := range cx.Documents.Entries() {
		label := " " + displayTitle(doc) + " "
		style := st.Bufferline
		if doc.ID == current {
			style = st.BufferlineActive
		}
		n := s.SetString(x, area.Y, style.Render(label), area.Right()-x)
		if n == 0 {
			break
		}
		x += n
	}
}

func (e *Editor) renderDocument(s *compositor.Surface, area compositor.Rect, cx *compositor.Context) {
	st := cx.Theme
	e.viewHeight = area.Height
	doc, ok := cx.Documents.CurrentDocument()
	if !ok {
		e.invalidate()
		msg := truncate.StringWithTail(emptyMessage, uint(maxInt(area.Width, 0)), "…")
		box := area.Centered(ansi.StringWidth(msg), 1)
		s.SetString(box.X, box.Y, st.Info.Render(msg), box.Width)
		return
	}

	e.layoutDocument(doc.ID, area.Width, func(width int) []layout.Block {
		return e.layout.Layout(doc, width)
	})
	v := e.currentView(cx)
	if v.focus >= 0 {
		for row, owner := range e.owners {
			if owner == v.focus {
				v.row, v.col = row, 0
				v.scroll = row - area.Height/2
				break
			}
		}
		v.focus = -1
	}
	v.clamp(e.lines, area.Height)

	gutter := gutterWidth(len(e.lines))
	digits := gutter - 1
	lo, hi, selecting := v.selection()
	for i := 0; i < area.Height; i++ {
		row := v.scroll + i
		if row >= len(e.lines) {
			break
		}
		y := area.Y + i
		number := fmt.Sprintf("%*d ", digits, row+1)
		gutterStyle := st.Gutter
		if row == v.row {
			gutterStyle = st.GutterActive
		}
		s.SetString(area.X, y, gutterStyle.Render(number), gutter)

		line := e.lines[row]
		if selecting && row >= lo && row <= hi {
			line = st.SelectedItem.Render(ansi.Strip(line))
		}
		s.SetString(area.X+gutter, y, line, area.Width-gutter)
	}
}

// layoutDocument refreshes the cached layout when the focused document or
// the available width changed.
func (e *Editor) layoutDocument(id string, width int, lay func(int) []layout.Block) {
	if e.laidOutID == id && e.lines != nil && e.laidOutWidth == width {
		return
	}
	gutter := gutterWidth(0)
	blocks := lay(width - gutter)
	lines, owners := layout.Lines(blocks)
	if g := gutterWidth(len(lines)); g != gutter {
		lines, owners = layout.Lines(lay(width - g))
	}
	if len(lines) == 0 {
		lines, owners = []string{""}, []int{0}
	}
	e.lines, e.owners = lines, owners
	e.laidOutID = id
	e.laidOutWidth = width
}

func (e *Editor) renderStatus(s *compositor.Surface, area compositor.Rect, cx *compositor.Context) {
	st := cx.Theme
	s.Fill(area, st.StatusLine.Render)

	badgeStyle, badge := st.StatusNormal, " NOR "
	switch e.mode {
	case keymap.ModeInsert:
		badgeStyle, badge = st.StatusInsert, " INS "
	case keymap.ModeSelect:
		badgeStyle, badge = st.StatusSelect, " SEL "
	}
	x := area.X + s.SetString(area.X, area.Y, badgeStyle.Render(badge), area.Width)

	var right string
	if keys := e.keymaps.Pending(); len(keys) > 0 {
		right = keymap.FormatKeys(keys) + "  "
	}
	if v := e.currentView(cx); v != nil {
		right += fmt.Sprintf("%d:%d ", v.row+1, v.col+1)
	}
	rightWidth := ansi.StringWidth(right)

	left := ""
	if doc, ok := cx.Documents.CurrentDocument(); ok {
		left = " " + displayTitle(doc)
	}
	room := area.Right() - x - rightWidth - 1
	if room > 0 && left != "" {
		left = truncate.StringWithTail(left, uint(room), "…")
		x += s.SetString(x, area.Y, st.StatusLine.Render(left), room)
		room -= ansi.StringWidth(left)
	}
	if room > 2 && e.status != "" {
		msgStyle := st.StatusLine
		if e.isError {
			msgStyle = st.Error
		}
		msg := truncate.StringWithTail("  "+e.status, uint(room), "…")
		s.SetString(x, area.Y, msgStyle.Render(msg), room)
	}
	if rightWidth > 0 && rightWidth <= area.Width {
		s.SetString(area.Right()-rightWidth, area.Y, st.StatusLine.Render(right), rightWidth)
	}
}

// renderPending draws the bindings of the pending node in the bottom-right
// corner of the document area.
func (e *Editor) renderPending(s *compositor.Surface, area compositor.Rect, cx *compositor.Context) {
	st := cx.Theme
	entries := e.pending.Entries()
	rows := make([][]string, len(entries))
	for i, entry := range entries {
		rows[i] = []string{entry.Key.String(), entry.Trie.Describe()}
	}
	lines := table.Format(rows, []table.Column{{}, {Max: 40}}, 2)

	width := maxInt(table.Width(lines), ansi.StringWidth(e.pending.Label)) + 2
	height := len(lines) + 1
	if width > area.Width || height > area.Height {
		return
	}
	box := compositor.Rect{X: area.Right() - width, Y: area.Bottom() - height, Width: width, Height: height}
	s.Fill(box, st.Popup.Render)
	s.SetString(box.X+1, box.Y, st.PopupTitle.Render(e.pending.Label), box.Width-2)
	for i, l := range lines {
		keyWidth := ansi.StringWidth(rows[i][0])
		s.SetString(box.X+1, box.Y+1+i, st.PendingKey.Render(l[:len(rows[i][0])]), keyWidth)
		s.SetString(box.X+1+keyWidth, box.Y+1+i, st.PendingDoc.Render(l[len(rows[i][0]):]), box.Width-2-keyWidth)
	}
}

func gutterWidth(lines int) int {
	return maxInt(minGutterDigits, len(strconv.Itoa(lines))) + 1
}
