// Package models defines data structures for spreadsheet pivoting.
package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ColumnKind is the declared type of a table column.
type ColumnKind string

const (
	// KindNumeric marks a column whose non-null values are all numbers.
	KindNumeric ColumnKind = "numeric"
	// KindText marks a column holding free text, including numeric-looking identifiers.
	KindText ColumnKind = "text"
)

// Value is a single cell value: a number, a string, or null.
type Value struct {
	// Num holds the value of a numeric cell.
	Num float64
	// Str holds the value of a text cell.
	Str string
	// Numeric reports whether Num is the meaningful field.
	Numeric bool
	// Null marks a missing cell.
	Null bool
}

// NumberValue returns a numeric value.
func NumberValue(f float64) Value {
	return Value{Num: f, Numeric: true}
}

// TextValue returns a text value.
func TextValue(s string) Value {
	return Value{Str: s}
}

// NullValue returns a missing value.
func NullValue() Value {
	return Value{Null: true}
}

// String returns the canonical textual form used for filtering, labels and export.
// Null values render as the empty string.
func (v Value) String() string {
	switch {
	case v.Null:
		return ""
	case v.Numeric:
		return FormatNumber(v.Num)
	default:
		return v.Str
	}
}

// Compare orders values naturally: numbers ascending, then text by code point, nulls last.
func (v Value) Compare(o Value) int {
	switch {
	case v.Null && o.Null:
		return 0
	case v.Null:
		return 1
	case o.Null:
		return -1
	case v.Numeric && o.Numeric:
		switch {
		case v.Num < o.Num:
			return -1
		case v.Num > o.Num:
			return 1
		}
		return 0
	case v.Numeric:
		return -1
	case o.Numeric:
		return 1
	}
	return strings.Compare(v.Str, o.Str)
}

// MarshalJSON encodes numbers as JSON numbers, text as strings and null as null.
// NaN and infinities have no JSON form and encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.Null, v.Numeric && !isFinite(v.Num):
		return []byte("null"), nil
	case v.Numeric:
		return []byte(FormatNumber(v.Num)), nil
	}
	return json.Marshal(v.Str)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FormatNumber renders f in the shortest decimal form that round-trips.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
