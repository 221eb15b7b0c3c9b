package state

import (
	"github.com/atomicstack/siyuan-tui/internal/siyuan"
)

// Row is one entry of the search result list. Synthetic rows carry a
// message instead of a result and cannot be opened.
type Row struct {
	Result    siyuan.Result
	Synthetic bool
	Message   string
}

// ResultList holds search rows together with cursor and viewport state.
type ResultList struct {
	Rows           []Row
	Cursor         int
	ViewportOffset int
}

// NewResultList returns an empty list.
func NewResultList() *ResultList {
	return &ResultList{}
}

// SetResults replaces the rows with results and resets the cursor.
func (l *ResultList) SetResults(results []siyuan.Result) {
	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = Row{Result: r}
	}
	l.replace(rows)
}

// SetMessage replaces the rows with a single synthetic row.
func (l *ResultList) SetMessage(msg string) {
	l.replace([]Row{{Synthetic: true, Message: msg}})
}

// Clear removes every row.
func (l *ResultList) Clear() {
	l.replace(nil)
}

func (l *ResultList) replace(rows []Row) {
	l.Rows = rows
	l.Cursor = 0
	l.ViewportOffset = 0
}

// Len reports the number of rows.
func (l *ResultList) Len() int {
	return len(l.Rows)
}

// Selected returns the row under the cursor, skipping synthetic rows.
func (l *ResultList) Selected() (siyuan.Result, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Rows) {
		return siyuan.Result{}, false
	}
	row := l.Rows[l.Cursor]
	if row.Synthetic {
		return siyuan.Result{}, false
	}
	return row.Result, true
}
