package domain

// Table is an immutable collection of canonical transactions. Row order
// carries no meaning; consumers sort explicitly.
type Table struct {
	rows []Transaction
}

// NewTable copies rows into a new table.
func NewTable(rows []Transaction) Table {
	cp := make([]Transaction, len(rows))
	copy(cp, rows)
	return Table{rows: cp}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.rows) == 0 }

// Rows returns a copy of the rows.
func (t Table) Rows() []Transaction {
	cp := make([]Transaction, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Each calls fn for every row in order without copying.
func (t Table) Each(fn func(Transaction)) {
	for _, r := range t.rows {
		fn(r)
	}
}

// Filter returns a new table holding the rows for which keep returns true.
func (t Table) Filter(keep func(Transaction) bool) Table {
	out := make([]Transaction, 0, len(t.rows))
	for _, r := range t.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return Table{rows: out}
}

// CellLayout is how a vendor writes dates and amounts as text. Readers of
// typed sources (workbooks) render date and number cells with it so adapters
// see the same text a delimited export would carry.
type CellLayout struct {
	DateLayout   string // time layout; ISO date when empty
	DecimalComma bool   // ',' decimal mark instead of '.'
}

// RawTable is a vendor export read as text cells: a header row plus records.
type RawTable struct {
	Header  []string
	Records [][]string
}

// Cell returns record i at column j, or "" when the record is short.
func (r RawTable) Cell(i, j int) string {
	if i < 0 || i >= len(r.Records) || j < 0 || j >= len(r.Records[i]) {
		return ""
	}
	return r.Records[i][j]
}
