package editor

import (
	"github.com/charmbracelet/x/ansi"
)

// view is the per-document cursor and scroll state. Rows index the laid-out
// lines of the document, not its blocks.
type view struct {
	row    int
	col    int
	scroll int
	// anchor is the row where select mode started, or -1.
	anchor int
	// focus is a block index to move the cursor to after the next layout,
	// or -1.
	focus int
}

func newView() *view {
	return &view{anchor: -1, focus: -1}
}

// clamp keeps the cursor inside lines and the scroll offset inside the
// document, then scrolls so the cursor row is visible.
func (v *view) clamp(lines []string, height int) {
	n := len(lines)
	if n == 0 {
		v.row, v.col, v.scroll = 0, 0, 0
		return
	}
	v.row = clampInt(v.row, 0, n-1)
	v.col = clampInt(v.col, 0, maxCol(lines[v.row]))
	if v.anchor >= n {
		v.anchor = n - 1
	}
	if height <= 0 {
		v.scroll = 0
		return
	}
	v.scroll = clampInt(v.scroll, 0, maxInt(0, n-height))
	if v.row < v.scroll {
		v.scroll = v.row
	}
	if v.row >= v.scroll+height {
		v.scroll = v.row - height + 1
	}
}

// selection returns the inclusive row range of the select-mode selection.
func (v *view) selection() (int, int, bool) {
	if v.anchor < 0 {
		return 0, 0, false
	}
	lo, hi := v.anchor, v.row
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

func maxCol(line string) int {
	return maxInt(0, ansi.StringWidth(line)-1)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
