package domain

// Row holds one record's cells, positionally aligned with Table.Columns.
// A nil cell is an empty spreadsheet cell.
type Row []any

// LiteralText marks a cell value that must be written as plain text.
// Writers must never let the destination format reinterpret it as a
// number or an arithmetic expression (e.g. a location of "-12").
type LiteralText string

// Table is an in-memory sheet: a header row plus data rows.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable creates a table with the given header and no rows
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// ColumnIndex returns the position of the first column with the given name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the header contains name
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Value returns the cell of row i in the named column.
func (t *Table) Value(i int, name string) (any, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return nil, false
	}
	row := t.Rows[i]
	if idx >= len(row) {
		return nil, true
	}
	return row[idx], true
}

// AppendRow adds a row, padding or truncating it to the header width.
func (t *Table) AppendRow(cells ...any) {
	row := make(Row, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Head returns a copy of the table holding at most n rows.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	head := NewTable(t.Columns...)
	for _, r := range t.Rows[:n] {
		head.Rows = append(head.Rows, append(Row(nil), r...))
	}
	return head
}
