package models

import "fmt"

// Table is an ordered collection of named columns. Tables are owned by the
// store and treated as immutable once loaded; join execution works on
// prefixed copies.
type Table struct {
	Name    string
	Columns []*Column
}

// NewTable creates a table and validates that column names are unique and
// column lengths agree.
func NewTable(name string, columns ...*Column) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	rows := -1
	for _, col := range columns {
		if seen[col.Name] {
			return nil, fmt.Errorf("table %q: duplicate column %q", name, col.Name)
		}
		seen[col.Name] = true
		if rows == -1 {
			rows = col.Count()
		} else if col.Count() != rows {
			return nil, fmt.Errorf("table %q: column %q has %d values, want %d", name, col.Name, col.Count(), rows)
		}
	}
	return &Table{Name: name, Columns: columns}, nil
}

// Column returns the named column, or false if it does not exist.
func (t *Table) Column(name string) (*Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return nil, false
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Count()
}

// Row returns the i-th row as a slice in column order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.Columns))
	for j, col := range t.Columns {
		row[j] = col.Values[i]
	}
	return row
}

// PrefixedCopy returns a deep copy with every column renamed to
// "<table>_<column>". The copy keeps the original table name.
func (t *Table) PrefixedCopy() *Table {
	columns := make([]*Column, len(t.Columns))
	for i, col := range t.Columns {
		c := col.Clone()
		c.Name = t.Name + "_" + col.Name
		columns[i] = c
	}
	return &Table{Name: t.Name, Columns: columns}
}
