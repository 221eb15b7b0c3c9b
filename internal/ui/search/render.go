package search

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/siyuan-tui/internal/compositor"
	"github.com/atomicstack/siyuan-tui/internal/theme"
)

const (
	promptText = "> "
	indicator  = "> "
	maxWidth   = 100
	maxHeight  = 20
)

// frame is the outer rect of the modal, border included.
func frame(area compositor.Rect) compositor.Rect {
	w := area.Width - 8
	if w > maxWidth {
		w = maxWidth
	}
	if w < 24 {
		w = area.Width
	}
	h := area.Height - 4
	if h > maxHeight {
		h = maxHeight
	}
	if h < 5 {
		h = area.Height
	}
	return area.Centered(w, h)
}

// Render draws the modal centred over the layers below it.
func (b *Box) Render(s *compositor.Surface, area compositor.Rect, cx *compositor.Context) {
	box := frame(area)
	if box.Width < 6 || box.Height < 4 {
		return
	}
	st := cx.Theme
	inner := box.Width - 2
	rows := box.Height - 4
	b.maxRows = rows

	lines := make([]string, 0, box.Height-2)
	lines = append(lines, b.promptLine(st, inner))
	lines = append(lines, b.resultLines(st, inner, rows)...)
	lines = append(lines, pad(b.footer(st, inner), inner))

	framed := st.Popup.Border(lipgloss.RoundedBorder()).Render(strings.Join(lines, "\n"))
	for i, l := range strings.Split(framed, "\n") {
		if i >= box.Height {
			break
		}
		s.SetString(box.X, box.Y+i, l, box.Width)
	}
}

// CursorPosition puts the terminal cursor inside the prompt.
func (b *Box) CursorPosition(area compositor.Rect, cx *compositor.Context) (compositor.Position, bool) {
	box := frame(area)
	if box.Width < 6 || box.Height < 4 {
		return compositor.Position{}, false
	}
	avail := box.Width - 2 - runewidth.StringWidth(promptText)
	_, col := b.inputWindow(avail)
	return compositor.Position{Row: box.Y + 1, Col: box.X + 1 + runewidth.StringWidth(promptText) + col}, true
}

// inputWindow returns the slice of the input that fits avail cells with the
// cursor visible, and the cursor column within it.
func (b *Box) inputWindow(avail int) (string, int) {
	if avail < 1 {
		return "", 0
	}
	value := b.input.Value()
	runes := []rune(value)
	pos := b.input.Position()
	if pos > len(runes) {
		pos = len(runes)
	}
	before := runewidth.StringWidth(string(runes[:pos]))
	offset := 0
	if before >= avail {
		offset = before - avail + 1
	}
	text := runewidth.TruncateLeft(value, offset, "")
	text = runewidth.Truncate(text, avail, "")
	return text, before - offset
}

func (b *Box) promptLine(st *theme.Styles, width int) string {
	avail := width - runewidth.StringWidth(promptText)
	line := st.SearchPrompt.Render(promptText)
	if b.input.Value() == "" {
		line += st.SearchPlaceholder.Render(truncate.StringWithTail(b.input.Placeholder, uint(maxInt(avail, 0)), "…"))
	} else {
		text, _ := b.inputWindow(avail)
		line += st.Text.Render(text)
	}
	return pad(line, width)
}

func (b *Box) resultLines(st *theme.Styles, width, rows int) []string {
	out := make([]string, 0, rows)
	visible, offset := b.list.Visible(rows)
	for i, row := range visible {
		selected := offset+i == b.list.Cursor
		var line string
		switch {
		case row.Synthetic:
			style := st.Info
			if b.failed {
				style = st.Error
			}
			line = "  " + style.Render(truncate.StringWithTail(row.Message, uint(maxInt(width-2, 0)), "…"))
		default:
			line = b.resultLine(st, row.Result.Content, row.Result.HPath, width, selected)
		}
		out = append(out, pad(line, width))
	}
	for len(out) < rows {
		out = append(out, strings.Repeat(" ", width))
	}
	return out
}

func (b *Box) resultLine(st *theme.Styles, content, hpath string, width int, selected bool) string {
	prefix := "  "
	if selected {
		prefix = indicator
	}
	avail := width - runewidth.StringWidth(prefix)
	label := strings.Join(strings.Fields(content), " ")

	pathWidth := 0
	if hpath != "" && avail > 20 {
		pathWidth = minInt(runewidth.StringWidth(hpath), avail/3)
	}
	labelWidth := avail
	if pathWidth > 0 {
		labelWidth = avail - pathWidth - 1
	}
	label = truncate.StringWithTail(label, uint(maxInt(labelWidth, 0)), "…")

	style := st.Item
	if selected {
		style = st.SelectedItem
	}
	line := style.Render(prefix + label)
	if pathWidth > 0 {
		path := truncate.StringWithTail(hpath, uint(pathWidth), "…")
		gap := width - ansi.StringWidth(line) - runewidth.StringWidth(path)
		line += strings.Repeat(" ", maxInt(gap, 1)) + st.ItemPath.Render(path)
	}
	return line
}

func (b *Box) footer(st *theme.Styles, width int) string {
	var msg string
	switch {
	case b.status != "" && b.isError:
		return st.Error.Render(truncate.StringWithTail(b.status, uint(width), "…"))
	case b.status != "":
		msg = b.status
	case b.loading:
		return st.Loading.Render(truncate.StringWithTail("searching…", uint(width), "…"))
	case b.query != "" && !b.failed:
		n := 0
		for _, r := range b.list.Rows {
			if !r.Synthetic {
				n++
			}
		}
		msg = fmt.Sprintf("%d results", n)
	}
	return st.Info.Render(truncate.StringWithTail(msg, uint(width), "…"))
}

// pad right-fills line with spaces to width cells.
func pad(line string, width int) string {
	if w := ansi.StringWidth(line); w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return ansi.Truncate(line, width, "")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
