package compositor

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Surface is a grid of terminal rows that layers paint into. Rows may carry
// ANSI styling; every row always spans exactly Width cells.
type Surface struct {
	width  int
	height int
	rows   []string
}

// NewSurface returns a blank surface.
func NewSurface(width, height int) *Surface {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s := &Surface{width: width, height: height, rows: make([]string, height)}
	blank := strings.Repeat(" ", width)
	for i := range s.rows {
		s.rows[i] = blank
	}
	return s
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }

// Area covers the whole surface.
func (s *Surface) Area() Rect {
	return Rect{Width: s.width, Height: s.height}
}

// SetString paints text at (x, y), clipped to maxWidth cells and to the
// surface edge. It returns the number of cells painted.
func (s *Surface) SetString(x, y int, text string, maxWidth int) int {
	if y < 0 || y >= s.height || x < 0 || x >= s.width || maxWidth <= 0 {
		return 0
	}
	if avail := s.width - x; maxWidth > avail {
		maxWidth = avail
	}
	text = strings.ReplaceAll(text, "\n", " ")
	if ansi.StringWidth(text) > maxWidth {
		text = ansi.Truncate(text, maxWidth, "")
	}
	w := ansi.StringWidth(text)
	if w == 0 {
		return 0
	}
	row := s.rows[y]
	left := ansi.Truncate(row, x, "")
	if lw := ansi.StringWidth(left); lw < x {
		left += strings.Repeat(" ", x-lw)
	}
	right := ansi.TruncateLeft(row, x+w, "")
	if rw := ansi.StringWidth(right); rw < s.width-x-w {
		right = strings.Repeat(" ", s.width-x-w-rw) + right
	}
	s.rows[y] = left + text + right
	return w
}

// Paint styles text. lipgloss.Style.Render satisfies it.
type Paint func(strs ...string) string

// Fill paints every cell of area with the rendering of fill applied to a run
// of spaces.
func (s *Surface) Fill(area Rect, fill Paint) {
	if area.Empty() {
		return
	}
	blank := strings.Repeat(" ", area.Width)
	if fill != nil {
		blank = fill(blank)
	}
	for y := area.Y; y < area.Bottom(); y++ {
		s.SetString(area.X, y, blank, area.Width)
	}
}

// Clear resets area to unstyled spaces.
func (s *Surface) Clear(area Rect) {
	s.Fill(area, nil)
}

// Restyle repaints the cell at (x, y) through style, keeping its glyph.
func (s *Surface) Restyle(x, y int, style Paint) {
	if y < 0 || y >= s.height || x < 0 || x >= s.width || style == nil {
		return
	}
	glyph := ansi.Truncate(ansi.TruncateLeft(s.PlainRow(y), x, ""), 1, "")
	if glyph == "" {
		glyph = " "
	}
	s.SetString(x, y, style(glyph), 1)
}

// Row returns row y, or the empty string when out of range.
func (s *Surface) Row(y int) string {
	if y < 0 || y >= s.height {
		return ""
	}
	return s.rows[y]
}

// PlainRow returns row y with styling removed.
func (s *Surface) PlainRow(y int) string {
	return ansi.Strip(s.Row(y))
}

// String joins all rows for output.
func (s *Surface) String() string {
	return strings.Join(s.rows, "\n")
}
