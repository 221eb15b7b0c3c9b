// Package table aligns cells into columns for fixed-width terminal output.
package table

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Column controls how one column is laid out. Max caps the cell width in
// terminal cells; zero means unlimited.
type Column struct {
	Align Alignment
	Max   int
}

// Format pads rows so that every column is as wide as its widest cell, with
// gap spaces between columns. Rows may be ragged; missing cells are blank.
// Cells wider than their column's Max are truncated with an ellipsis.
func Format(rows [][]string, columns []Column, gap int) []string {
	if len(rows) == 0 {
		return nil
	}
	if gap < 0 {
		gap = 0
	}
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	cells := make([][]string, len(rows))
	widths := make([]int, colCount)
	for i, row := range rows {
		cells[i] = make([]string, colCount)
		for c := 0; c < colCount; c++ {
			var cell string
			if c < len(row) {
				cell = row[c]
			}
			if c < len(columns) && columns[c].Max > 0 && runewidth.StringWidth(cell) > columns[c].Max {
				cell = runewidth.Truncate(cell, columns[c].Max, "…")
			}
			cells[i][c] = cell
			if w := runewidth.StringWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}

	sep := strings.Repeat(" ", gap)
	out := make([]string, len(rows))
	for i, row := range cells {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString(sep)
			}
			pad := widths[c] - runewidth.StringWidth(cell)
			if c < len(columns) && columns[c].Align == AlignRight {
				b.WriteString(strings.Repeat(" ", pad))
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		out[i] = strings.TrimRight(b.String(), " ")
	}
	return out
}

// Width returns the widest formatted row in terminal cells.
func Width(lines []string) int {
	max := 0
	for _, l := range lines {
		if w := runewidth.StringWidth(l); w > max {
			max = w
		}
	}
	return max
}
