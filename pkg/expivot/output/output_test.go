package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/expivot-go/pkg/expivot/models"
)

func sampleResult() *models.ResultTable {
	return &models.ResultTable{
		RowFields:    []string{"收益中心", "region"},
		ColumnFields: []string{"年月"},
		ValueFields:  []string{"金額"},
		Aggregation:  models.AggSum,
		RowKeys: []models.Key{
			{models.TextValue("0101"), models.TextValue("E")},
			{models.TextValue("0102"), models.TextValue("W, north")},
		},
		Columns: []models.ResultColumn{
			{ValueField: "金額", Key: models.Key{models.TextValue("202401")}},
			{ValueField: "金額", Key: models.Key{models.TextValue("202402")}},
		},
		Cells: [][]models.Cell{
			{{Value: 1.5, Valid: true}, models.NoData()},
			{{Value: 0, Valid: true}, {Value: -20, Valid: true}},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\ufeff"), "export must start with a BOM")
	assert.Equal(t, 1, strings.Count(out, "\ufeff"))

	expected := "\ufeff收益中心,region,金額,金額\n" +
		",年月,202401,202402\n" +
		"0101,E,1.5,\n" +
		"0102,\"W, north\",0,-20\n"
	assert.Equal(t, expected, out)
}

func TestCSVRoundTrip(t *testing.T) {
	rt := sampleResult()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rt))

	parsed, err := ReadCSV(&buf, len(rt.RowFields), len(rt.ColumnFields))
	require.NoError(t, err)

	assert.Equal(t, rt.RowFields, parsed.RowFields)
	assert.Equal(t, rt.ColumnFields, parsed.ColumnFields)
	assert.Equal(t, [][]string{{"金額", "202401"}, {"金額", "202402"}}, parsed.Columns)
	for i, k := range rt.RowKeys {
		assert.Equal(t, k.Strings(), parsed.RowLabels[i])
	}
	assert.Equal(t, rt.Cells, parsed.Cells)
}

func TestCSVRoundTripWithoutColumnFields(t *testing.T) {
	rt := &models.ResultTable{
		RowFields:   []string{"region"},
		ValueFields: []string{"sales", "units"},
		RowKeys:     []models.Key{{models.TextValue("E")}, {models.TextValue("W")}},
		Columns:     []models.ResultColumn{{ValueField: "sales"}, {ValueField: "units"}},
		Cells: [][]models.Cell{
			{{Value: 30, Valid: true}, {Value: 2, Valid: true}},
			{{Value: 5, Valid: true}, models.NoData()},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rt))
	assert.Equal(t, "\ufeffregion,sales,units\nE,30,2\nW,5,\n", buf.String())

	parsed, err := ReadCSV(strings.NewReader(buf.String()), 1, 0)
	require.NoError(t, err)
	assert.Empty(t, parsed.ColumnFields)
	assert.Equal(t, [][]string{{"E"}, {"W"}}, parsed.RowLabels)
	assert.Equal(t, rt.Cells, parsed.Cells)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n"), 0, 0)
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("a,b\n"), 1, 2)
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("a,b\nx,notanumber\n"), 1, 0)
	assert.Error(t, err)
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(sampleResult(), false)
	require.NoError(t, err)

	var decoded struct {
		RowKeys [][]any `json:"row_keys"`
		Cells   [][]any `json:"cells"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{"0101", "E"}, decoded.RowKeys[0])
	assert.Equal(t, []any{1.5, nil}, decoded.Cells[0])

	pretty, err := ToJSON(sampleResult(), true)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  \"row_fields\"")
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, sampleResult())

	out := buf.String()
	assert.Contains(t, out, "金額 / 202401")
	assert.Contains(t, out, "0102")
	assert.Contains(t, out, "-20")
}

func TestColumnLabel(t *testing.T) {
	assert.Equal(t, "sales", ColumnLabel(models.ResultColumn{ValueField: "sales"}))
	assert.Equal(t, "sales / E / 1", ColumnLabel(models.ResultColumn{
		ValueField: "sales",
		Key:        models.Key{models.TextValue("E"), models.NumberValue(1)},
	}))
}
