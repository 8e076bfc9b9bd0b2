package search

import "slotfinder/models"

// Table is the append-only list of rows shown to the user. Rows from
// successive searches accumulate until Reset is called. A Table is not safe
// for concurrent use.
type Table struct {
	rows []models.GroupedRow
}

func NewTable(rows ...models.GroupedRow) *Table {
	t := &Table{}
	t.Append(rows...)
	return t
}

func (t *Table) Append(rows ...models.GroupedRow) {
	t.rows = append(t.rows, rows...)
}

// Rows returns a copy of the current rows.
func (t *Table) Rows() []models.GroupedRow {
	out := make([]models.GroupedRow, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Reset() {
	t.rows = nil
}
