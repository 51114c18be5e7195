package output

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/ukaji3/expivot-go/pkg/expivot/models"
)

// RenderTable draws the result as a text grid. Column headers join the value
// field and the column key with " / ".
func RenderTable(w io.Writer, rt *models.ResultTable) {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)

	header := append([]string(nil), rt.RowFields...)
	for _, col := range rt.Columns {
		header = append(header, ColumnLabel(col))
	}
	tw.SetHeader(header)

	for i, rowKey := range rt.RowKeys {
		record := rowKey.Strings()
		for _, c := range rt.Cells[i] {
			record = append(record, c.String())
		}
		tw.Append(record)
	}
	tw.Render()
}

// ColumnLabel flattens a result column into one display label.
func ColumnLabel(col models.ResultColumn) string {
	if len(col.Key) == 0 {
		return col.ValueField
	}
	return col.ValueField + " / " + strings.Join(col.Key.Strings(), " / ")
}
