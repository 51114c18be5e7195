package models

import "fmt"

// Column is a named, typed column of values.
type Column struct {
	// Name is the header text of the column.
	Name string `json:"name"`
	// Kind is the declared column type.
	Kind ColumnKind `json:"kind"`
	// Values holds one value per table row.
	Values []Value `json:"values"`
}

// Table is an in-memory sheet: ordered columns sharing one row count.
type Table struct {
	// Sheet is the worksheet the table was loaded from (empty for CSV input).
	Sheet string `json:"sheet,omitempty"`
	// Columns holds the columns in header order.
	Columns []Column `json:"columns"`

	index map[string]int
}

// NewTable builds a table and checks that column names are unique and
// that every column has the same number of rows.
func NewTable(sheet string, columns []Column) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		if i > 0 && len(c.Values) != len(columns[0].Values) {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.Name, len(c.Values), len(columns[0].Values))
		}
		index[c.Name] = i
	}
	return &Table{Sheet: sheet, Columns: columns, index: index}, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	if t.index == nil {
		for i := range t.Columns {
			if t.Columns[i].Name == name {
				return &t.Columns[i], true
			}
		}
		return nil, false
	}
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.Columns[i], true
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.Columns))
	for c := range t.Columns {
		row[c] = t.Columns[c].Values[i]
	}
	return row
}

// Head returns a table holding at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n >= t.NumRows() {
		return t
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return t.Select(indices)
}

// Select returns a new table with the given rows, in the given order.
// The receiver is not modified.
func (t *Table) Select(indices []int) *Table {
	columns := make([]Column, len(t.Columns))
	for c, col := range t.Columns {
		values := make([]Value, len(indices))
		for i, idx := range indices {
			values[i] = col.Values[idx]
		}
		columns[c] = Column{Name: col.Name, Kind: col.Kind, Values: values}
	}
	return &Table{Sheet: t.Sheet, Columns: columns, index: t.index}
}

// Schema derives the name to kind mapping of the table.
func (t *Table) Schema() Schema {
	s := Schema{kinds: make(map[string]ColumnKind, len(t.Columns))}
	for _, c := range t.Columns {
		s.order = append(s.order, c.Name)
		s.kinds[c.Name] = c.Kind
	}
	return s
}

// Schema maps column names to kinds, preserving column order.
type Schema struct {
	order []string
	kinds map[string]ColumnKind
}

// NewSchema builds a schema from ordered columns.
func NewSchema(columns ...Column) Schema {
	s := Schema{kinds: make(map[string]ColumnKind, len(columns))}
	for _, c := range columns {
		if _, ok := s.kinds[c.Name]; !ok {
			s.order = append(s.order, c.Name)
		}
		s.kinds[c.Name] = c.Kind
	}
	return s
}

// Has reports whether the schema contains the column.
func (s Schema) Has(name string) bool {
	_, ok := s.kinds[name]
	return ok
}

// Kind returns the kind of the named column.
func (s Schema) Kind(name string) (ColumnKind, bool) {
	k, ok := s.kinds[name]
	return k, ok
}

// IsNumeric reports whether the named column exists and is numeric.
func (s Schema) IsNumeric(name string) bool {
	return s.kinds[name] == KindNumeric
}

// Names returns all column names in order.
func (s Schema) Names() []string {
	return append([]string(nil), s.order...)
}

// NumericColumns returns the numeric column names in order.
func (s Schema) NumericColumns() []string {
	var out []string
	for _, name := range s.order {
		if s.kinds[name] == KindNumeric {
			out = append(out, name)
		}
	}
	return out
}
