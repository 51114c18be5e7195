package expivot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukaji3/expivot-go/pkg/expivot/models"
)

func TestApplyFilterEmptyIsIdentity(t *testing.T) {
	table := salesTable(t)

	assert.Same(t, table, ApplyFilter(table, nil))
	assert.Same(t, table, ApplyFilter(table, &models.FilterSpec{Column: "region"}))
	assert.Same(t, table, ApplyFilter(table, &models.FilterSpec{Column: "region", AllowedValues: []string{}}))
}

func TestApplyFilterKeepsMatchingRowsInOrder(t *testing.T) {
	table := buildTable(t,
		[]string{"id", "amount"},
		[]models.ColumnKind{models.KindText, models.KindNumeric},
		[][]models.Value{
			{text("a"), num(1)},
			{text("b"), num(2.5)},
			{text("c"), num(1)},
			{text("d"), models.NullValue()},
		},
	)

	tests := []struct {
		name     string
		spec     models.FilterSpec
		expected []string
	}{
		{"text column", models.FilterSpec{Column: "id", AllowedValues: []string{"c", "a"}}, []string{"a", "c"}},
		{"numeric column compared as text", models.FilterSpec{Column: "amount", AllowedValues: []string{"1"}}, []string{"a", "c"}},
		{"decimal text form", models.FilterSpec{Column: "amount", AllowedValues: []string{"2.5"}}, []string{"b"}},
		{"null matches empty string", models.FilterSpec{Column: "amount", AllowedValues: []string{""}}, []string{"d"}},
		{"no match", models.FilterSpec{Column: "id", AllowedValues: []string{"zzz"}}, nil},
		{"unknown column", models.FilterSpec{Column: "nope", AllowedValues: []string{"a"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := ApplyFilter(table, &tt.spec)
			col, _ := filtered.Column("id")
			var got []string
			for _, v := range col.Values {
				got = append(got, v.String())
			}
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, len(tt.expected), filtered.NumRows())
		})
	}

	assert.Equal(t, 4, table.NumRows(), "source table must not change")
}

func TestFilterOptions(t *testing.T) {
	table := buildTable(t,
		[]string{"amount"},
		[]models.ColumnKind{models.KindNumeric},
		[][]models.Value{{num(10)}, {num(2)}, {num(10)}, {models.NullValue()}},
	)

	assert.Equal(t, []string{"", "10", "2"}, FilterOptions(table, "amount"))
	assert.Nil(t, FilterOptions(table, "missing"))

	// Every option selects at least one row.
	for _, opt := range FilterOptions(table, "amount") {
		filtered := ApplyFilter(table, &models.FilterSpec{Column: "amount", AllowedValues: []string{opt}})
		assert.Positive(t, filtered.NumRows(), opt)
	}
}
