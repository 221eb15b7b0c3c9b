package state

// MoveCursorUp moves the cursor up one row, wrapping to the bottom.
func (l *ResultList) MoveCursorUp() bool {
	n := len(l.Rows)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = (l.Cursor - 1 + n) % n
	return old != l.Cursor
}

// MoveCursorDown moves the cursor down one row, wrapping to the top.
func (l *ResultList) MoveCursorDown() bool {
	n := len(l.Rows)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = (l.Cursor + 1) % n
	return old != l.Cursor
}

// MoveCursorHome moves the cursor to the first row.
func (l *ResultList) MoveCursorHome() bool {
	old := l.Cursor
	l.Cursor = 0
	return old != l.Cursor && len(l.Rows) > 0
}

// MoveCursorEnd moves the cursor to the last row.
func (l *ResultList) MoveCursorEnd() bool {
	n := len(l.Rows)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = n - 1
	return old != l.Cursor
}

// MoveCursorPageUp moves the cursor up by one page without wrapping.
func (l *ResultList) MoveCursorPageUp(maxVisible int) bool {
	return l.moveCursorBy(-l.pageSize(maxVisible))
}

// MoveCursorPageDown moves the cursor down by one page without wrapping.
func (l *ResultList) MoveCursorPageDown(maxVisible int) bool {
	return l.moveCursorBy(l.pageSize(maxVisible))
}

func (l *ResultList) moveCursorBy(delta int) bool {
	if len(l.Rows) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = clampIndex(l.Cursor+delta, len(l.Rows))
	return l.Cursor != old
}

func (l *ResultList) pageSize(maxVisible int) int {
	if maxVisible <= 0 || maxVisible > len(l.Rows) {
		maxVisible = len(l.Rows)
	}
	if maxVisible < 1 {
		maxVisible = 1
	}
	return maxVisible
}

// EnsureCursorVisible adjusts the viewport offset so the cursor row is one
// of the maxVisible rows shown.
func (l *ResultList) EnsureCursorVisible(maxVisible int) {
	if len(l.Rows) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clampIndex(l.Cursor, len(l.Rows))
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := len(l.Rows) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	l.ViewportOffset = clampIndex(l.ViewportOffset, maxOffset+1)
	if l.Cursor < l.ViewportOffset {
		l.ViewportOffset = l.Cursor
	}
	if l.Cursor > l.ViewportOffset+maxVisible-1 {
		l.ViewportOffset = l.Cursor - maxVisible + 1
	}
}

// Visible returns the rows in the viewport and the index of the first one.
func (l *ResultList) Visible(maxVisible int) ([]Row, int) {
	l.EnsureCursorVisible(maxVisible)
	if maxVisible <= 0 || maxVisible >= len(l.Rows) {
		return l.Rows, 0
	}
	return l.Rows[l.ViewportOffset : l.ViewportOffset+maxVisible], l.ViewportOffset
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
