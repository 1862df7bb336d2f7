package sheet

import "strings"

// Table is one sheet held in memory. Rows are ragged, as spreadsheet exports
// usually are; out-of-range cells read as "".
type Table struct {
	Name string
	Rows [][]string
}

// Len is the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Cell returns the trimmed value at (row, col), or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// Column extracts col for rows [from, Len()). A missing column (col == -1)
// yields a column of empty strings of the same length.
func (t *Table) Column(col, from int) []string {
	if from < 0 {
		from = 0
	}
	if from > len(t.Rows) {
		from = len(t.Rows)
	}
	out := make([]string, len(t.Rows)-from)
	if col < 0 {
		return out
	}
	for i := range out {
		out[i] = t.Cell(from+i, col)
	}
	return out
}

// FindRow returns the first row index at or after from for which match holds,
// or -1.
func (t *Table) FindRow(from int, match func(row []string) bool) int {
	for i := max(from, 0); i < len(t.Rows); i++ {
		if match(t.Rows[i]) {
			return i
		}
	}
	return -1
}
