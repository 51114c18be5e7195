package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		value    Value
		expected string
	}{
		{NumberValue(10), "10"},
		{NumberValue(2.5), "2.5"},
		{NumberValue(-0.125), "-0.125"},
		{TextValue("0101"), "0101"},
		{TextValue(""), ""},
		{NullValue(), ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.value.String())
	}
}

func TestValueCompare(t *testing.T) {
	assert.Equal(t, -1, NumberValue(2).Compare(NumberValue(10)))
	assert.Equal(t, 1, TextValue("b").Compare(TextValue("a")))
	assert.Equal(t, 0, TextValue("a").Compare(TextValue("a")))
	assert.Equal(t, -1, NumberValue(99).Compare(TextValue("1")), "numbers sort before text")
	assert.Equal(t, -1, TextValue("z").Compare(NullValue()), "nulls sort last")
	assert.Equal(t, 0, NullValue().Compare(NullValue()))
}

func TestKeyCompare(t *testing.T) {
	a := Key{TextValue("E"), NumberValue(2)}
	b := Key{TextValue("E"), NumberValue(10)}
	c := Key{TextValue("W"), NumberValue(1)}

	assert.Negative(t, a.Compare(b))
	assert.Negative(t, b.Compare(c))
	assert.Zero(t, a.Compare(Key{TextValue("E"), NumberValue(2)}))
	assert.Equal(t, []string{"E", "2"}, a.Strings())
}

func TestNewTable(t *testing.T) {
	tbl, err := NewTable("Sheet1", []Column{
		{Name: "region", Kind: KindText, Values: []Value{TextValue("E"), TextValue("W")}},
		{Name: "sales", Kind: KindNumeric, Values: []Value{NumberValue(1), NullValue()}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []string{"region", "sales"}, tbl.Names())

	col, ok := tbl.Column("sales")
	require.True(t, ok)
	assert.Equal(t, KindNumeric, col.Kind)

	_, ok = tbl.Column("missing")
	assert.False(t, ok)

	schema := tbl.Schema()
	assert.True(t, schema.Has("region"))
	assert.True(t, schema.IsNumeric("sales"))
	assert.False(t, schema.IsNumeric("region"))
	assert.Equal(t, []string{"sales"}, schema.NumericColumns())
}

func TestNewTableRejectsInconsistentColumns(t *testing.T) {
	_, err := NewTable("", []Column{
		{Name: "a", Values: []Value{TextValue("x")}},
		{Name: "a", Values: []Value{TextValue("y")}},
	})
	assert.ErrorContains(t, err, "duplicate column")

	_, err = NewTable("", []Column{
		{Name: "a", Values: []Value{TextValue("x")}},
		{Name: "b", Values: nil},
	})
	assert.ErrorContains(t, err, "has 0 rows")
}

func TestTableSelectDoesNotMutate(t *testing.T) {
	tbl, err := NewTable("", []Column{
		{Name: "n", Kind: KindNumeric, Values: []Value{NumberValue(1), NumberValue(2), NumberValue(3)}},
	})
	require.NoError(t, err)

	sub := tbl.Select([]int{2, 0})
	assert.Equal(t, 2, sub.NumRows())
	assert.Equal(t, []Value{NumberValue(3), NumberValue(1)}, sub.Columns[0].Values)
	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, 1, tbl.Head(1).NumRows())
	assert.Same(t, tbl, tbl.Head(10))
}

func TestParseAggregation(t *testing.T) {
	agg, err := ParseAggregation(" Median ")
	require.NoError(t, err)
	assert.Equal(t, AggMedian, agg)

	_, err = ParseAggregation("mode")
	assert.Error(t, err)
}

func TestCellJSON(t *testing.T) {
	data, err := json.Marshal([]Cell{{Value: 1.5, Valid: true}, NoData()})
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5, null]`, string(data))
	assert.Equal(t, "", NoData().String())
}

func TestNonFiniteJSON(t *testing.T) {
	data, err := json.Marshal([]Cell{{Value: math.Inf(1), Valid: true}, {Value: math.NaN(), Valid: true}})
	require.NoError(t, err)
	assert.JSONEq(t, `[null, null]`, string(data))

	data, err = json.Marshal([]Value{NumberValue(math.Inf(-1)), NumberValue(2.5), TextValue("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `[null, 2.5, "x"]`, string(data))
}

func TestFilterSpecIsEmpty(t *testing.T) {
	var nilSpec *FilterSpec
	assert.True(t, nilSpec.IsEmpty())
	assert.True(t, (&FilterSpec{Column: "a"}).IsEmpty())
	assert.False(t, (&FilterSpec{Column: "a", AllowedValues: []string{"x"}}).IsEmpty())
}
