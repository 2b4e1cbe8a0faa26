// Package table pads cells into aligned columns.
package table

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Columns pads every cell to the widest entry in its column. Rows shorter
// than the widest row are padded with empty cells.
func Columns(rows [][]string, alignments []Alignment) [][]string {
	if len(rows) == 0 {
		return nil
	}
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	widths := make([]int, colCount)
	for _, row := range rows {
		for c, cell := range row {
			if w := ansi.StringWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, colCount)
		for c := 0; c < colCount; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			gap := widths[c] - ansi.StringWidth(cell)
			if gap < 0 {
				gap = 0
			}
			if c < len(alignments) && alignments[c] == AlignRight {
				padded[c] = strings.Repeat(" ", gap) + cell
			} else {
				padded[c] = cell + strings.Repeat(" ", gap)
			}
		}
		out[i] = padded
	}
	return out
}

// Format returns the rows padded by Columns and joined with two spaces.
func Format(rows [][]string, alignments []Alignment) []string {
	cols := Columns(rows, alignments)
	out := make([]string, len(cols))
	for i, row := range cols {
		out[i] = strings.TrimRight(strings.Join(row, "  "), " ")
	}
	return out
}
