package expivot

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ukaji3/expivot-go/pkg/expivot/models"
)

// salesTable builds the region/month/sales example table.
func salesTable(t *testing.T) *models.Table {
	t.Helper()
	return buildTable(t,
		[]string{"region", "month", "sales"},
		[]models.ColumnKind{models.KindText, models.KindText, models.KindNumeric},
		[][]models.Value{
			{models.TextValue("E"), models.TextValue("1"), models.NumberValue(10)},
			{models.TextValue("E"), models.TextValue("1"), models.NumberValue(20)},
			{models.TextValue("W"), models.TextValue("1"), models.NumberValue(5)},
		},
	)
}

func buildTable(t *testing.T, names []string, kinds []models.ColumnKind, rows [][]models.Value) *models.Table {
	t.Helper()
	columns := make([]models.Column, len(names))
	for c := range names {
		columns[c] = models.Column{Name: names[c], Kind: kinds[c], Values: make([]models.Value, 0, len(rows))}
		for _, row := range rows {
			columns[c].Values = append(columns[c].Values, row[c])
		}
	}
	table, err := models.NewTable("Sheet1", columns)
	require.NoError(t, err)
	return table
}

func text(s string) models.Value { return models.TextValue(s) }
func num(f float64) models.Value { return models.NumberValue(f) }
func cell(f float64) models.Cell { return models.Cell{Value: f, Valid: true} }
func key(vs ...models.Value) models.Key { return models.Key(vs) }
