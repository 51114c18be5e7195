package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Aggregation names the reduction applied to each pivot cell.
type Aggregation string

const (
	AggSum    Aggregation = "sum"
	AggMean   Aggregation = "mean"
	AggCount  Aggregation = "count"
	AggMin    Aggregation = "min"
	AggMax    Aggregation = "max"
	AggMedian Aggregation = "median"
	AggStd    Aggregation = "std"
)

// Aggregations lists the supported aggregations in display order.
var Aggregations = []Aggregation{AggSum, AggMean, AggCount, AggMin, AggMax, AggMedian, AggStd}

// ParseAggregation resolves a case-insensitive aggregation name.
func ParseAggregation(s string) (Aggregation, error) {
	a := Aggregation(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("unsupported aggregation %q", s)
	}
	return a, nil
}

// Valid reports whether a is one of the supported aggregations.
func (a Aggregation) Valid() bool {
	for _, known := range Aggregations {
		if a == known {
			return true
		}
	}
	return false
}

// FilterSpec keeps rows whose value in Column, as text, is one of AllowedValues.
// An empty AllowedValues means no selection has been made and nothing is filtered.
type FilterSpec struct {
	Column        string   `json:"column"`
	AllowedValues []string `json:"allowed_values"`
}

// IsEmpty reports whether the filter passes every row.
func (f *FilterSpec) IsEmpty() bool {
	return f == nil || len(f.AllowedValues) == 0
}

// PivotRequest configures a pivot table.
type PivotRequest struct {
	// RowFields define result rows (pandas "index"). Required.
	RowFields []string `json:"rows"`
	// ColumnFields define result column groups. Optional.
	ColumnFields []string `json:"columns,omitempty"`
	// ValueFields are the numeric columns aggregated in every cell. Required.
	ValueFields []string `json:"values"`
	// Aggregation is the reduction applied to each cell.
	Aggregation Aggregation `json:"aggregation"`
}

// Key is a tuple of group values, one per grouping field.
type Key []Value

// Compare orders keys lexicographically, field by field.
func (k Key) Compare(o Key) int {
	for i := 0; i < len(k) && i < len(o); i++ {
		if c := k[i].Compare(o[i]); c != 0 {
			return c
		}
	}
	return len(k) - len(o)
}

// Strings returns the textual form of each key part.
func (k Key) Strings() []string {
	out := make([]string, len(k))
	for i, v := range k {
		out[i] = v.String()
	}
	return out
}

// Cell is one aggregated result. Valid is false for the "no data" marker.
type Cell struct {
	Value float64
	Valid bool
}

// NoData returns the marker for a cell without underlying values.
func NoData() Cell {
	return Cell{}
}

// String returns the shortest decimal form, or "" for no data.
func (c Cell) String() string {
	if !c.Valid {
		return ""
	}
	return FormatNumber(c.Value)
}

// MarshalJSON encodes no data as null, as well as results that overflowed
// to a non-finite number.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Valid || !isFinite(c.Value) {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// ResultColumn identifies one result column: a value field under a column-field key.
type ResultColumn struct {
	// ValueField is the aggregated column.
	ValueField string `json:"value"`
	// Key holds the column-field values; empty when no column fields were requested.
	Key Key `json:"key,omitempty"`
}

// ResultTable is a computed pivot table.
type ResultTable struct {
	// RowFields are the grouping fields of the rows.
	RowFields []string `json:"row_fields"`
	// ColumnFields are the grouping fields of the columns.
	ColumnFields []string `json:"column_fields,omitempty"`
	// ValueFields are the value fields that were aggregated, after dropping non-numeric ones.
	ValueFields []string `json:"value_fields"`
	// Aggregation is the applied reduction.
	Aggregation Aggregation `json:"aggregation"`
	// RowKeys holds one sorted key per result row.
	RowKeys []Key `json:"row_keys"`
	// Columns holds the result columns, value field outermost.
	Columns []ResultColumn `json:"columns"`
	// Cells is indexed [row][column].
	Cells [][]Cell `json:"cells"`
	// Warnings lists non-fatal problems, such as dropped value fields.
	Warnings []Warning `json:"warnings,omitempty"`
}

// Warning is a non-fatal evaluation diagnostic.
type Warning struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NumRows returns the number of result rows.
func (r *ResultTable) NumRows() int {
	return len(r.RowKeys)
}

// Lookup returns the cell at the given row key and column, if present.
func (r *ResultTable) Lookup(row Key, col ResultColumn) (Cell, bool) {
	ri := -1
	for i, k := range r.RowKeys {
		if k.Compare(row) == 0 {
			ri = i
			break
		}
	}
	if ri < 0 {
		return Cell{}, false
	}
	for ci, c := range r.Columns {
		if c.ValueField == col.ValueField && c.Key.Compare(col.Key) == 0 {
			return r.Cells[ri][ci], true
		}
	}
	return Cell{}, false
}
