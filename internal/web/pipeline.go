package web

import (
	"bytes"
	"errors"
	"net/url"

	"github.com/ukaji3/expivot-go/pkg/expivot"
	"github.com/ukaji3/expivot-go/pkg/expivot/models"
)

// pivotForm is the user's current selection, decoded from the query string.
// Nothing here is stored server-side; every request carries the full state.
type pivotForm struct {
	Sheet        string
	FilterColumn string
	FilterValues []string
	Rows         []string
	Cols         []string
	Values       []string
	Aggregation  string
	// Submitted is false on the first visit, when defaults apply.
	Submitted bool
}

func parsePivotForm(q url.Values) pivotForm {
	return pivotForm{
		Sheet:        q.Get("sheet"),
		FilterColumn: q.Get("filter_column"),
		FilterValues: nonEmpty(q["filter_value"], true),
		Rows:         nonEmpty(q["rows"], false),
		Cols:         nonEmpty(q["cols"], false),
		Values:       nonEmpty(q["values"], false),
		Aggregation:  q.Get("agg"),
		Submitted:    q.Get("submitted") != "",
	}
}

// Query encodes the form back into URL parameters.
func (f pivotForm) Query() url.Values {
	q := url.Values{}
	set := func(key string, vals ...string) {
		for _, v := range vals {
			q.Add(key, v)
		}
	}
	if f.Sheet != "" {
		q.Set("sheet", f.Sheet)
	}
	if f.FilterColumn != "" {
		q.Set("filter_column", f.FilterColumn)
	}
	set("filter_value", f.FilterValues...)
	set("rows", f.Rows...)
	set("cols", f.Cols...)
	set("values", f.Values...)
	if f.Aggregation != "" {
		q.Set("agg", f.Aggregation)
	}
	q.Set("submitted", "1")
	return q
}

// nonEmpty drops blank entries. Filter values may keep them: a null cell
// stringifies to "" and is a valid filter choice.
func nonEmpty(vals []string, keepEmpty bool) []string {
	var out []string
	for _, v := range vals {
		if v == "" && !keepEmpty {
			continue
		}
		out = append(out, v)
	}
	return out
}

// workspace is everything the workspace page shows for one request.
type workspace struct {
	ID       string
	BookName string
	Sheets   []string
	Form     pivotForm

	Columns        []string
	NumericColumns []string
	Aggregations   []models.Aggregation

	PreviewHeaders []string
	PreviewRows    [][]string
	TotalRows      int

	FilterOptions []string
	FilteredRows  int

	Info     string
	Warnings []string
	Error    string

	Result    *models.ResultTable
	ExportURL string
}

// buildWorkspace runs load, filter and evaluate for one request. Load and
// validation problems end up in ws.Error; ws.Result is set only on success.
func (a *App) buildWorkspace(u *upload, form pivotForm) *workspace {
	ws := &workspace{
		ID:           u.ID,
		BookName:     u.Name,
		Form:         form,
		Aggregations: models.Aggregations,
	}

	info, err := expivot.SheetNamesReader(bytes.NewReader(u.Data), u.Name, expivot.DefaultOptions())
	if err != nil {
		ws.Error = "Failed to read the workbook: " + err.Error()
		return ws
	}
	ws.Sheets = info.Sheets
	if ws.Form.Sheet == "" || !contains(ws.Sheets, ws.Form.Sheet) {
		ws.Form.Sheet = ws.Sheets[0]
	}

	table, err := expivot.LoadReader(bytes.NewReader(u.Data), u.Name, expivot.Options{
		Sheet:       ws.Form.Sheet,
		TextColumns: a.cfg.TextColumns,
		MaxRows:     a.cfg.MaxRows,
	})
	if err != nil {
		ws.Error = "Failed to load the sheet: " + err.Error()
		return ws
	}

	schema := table.Schema()
	ws.Columns = schema.Names()
	ws.TotalRows = table.NumRows()
	ws.PreviewHeaders, ws.PreviewRows = previewRows(table, a.cfg.PreviewRows)

	filtered := table
	if ws.Form.FilterColumn != "" && schema.Has(ws.Form.FilterColumn) {
		ws.FilterOptions = expivot.FilterOptions(table, ws.Form.FilterColumn)
		// Values checked for a previously selected column do not apply here.
		ws.Form.FilterValues = intersect(ws.Form.FilterValues, ws.FilterOptions)
		filtered = expivot.ApplyFilter(table, &models.FilterSpec{
			Column:        ws.Form.FilterColumn,
			AllowedValues: ws.Form.FilterValues,
		})
	} else {
		ws.Form.FilterColumn = ""
		ws.Form.FilterValues = nil
	}
	ws.FilteredRows = filtered.NumRows()

	ws.NumericColumns = filtered.Schema().NumericColumns()
	if !ws.Form.Submitted && len(ws.Form.Values) == 0 && len(ws.NumericColumns) > 0 {
		ws.Form.Values = []string{ws.NumericColumns[0]}
	}
	if ws.Form.Aggregation == "" {
		ws.Form.Aggregation = string(models.AggSum)
	}

	switch {
	case len(ws.Form.Rows) == 0:
		ws.Info = "Select at least one row (index) field to build the pivot table."
		return ws
	case len(ws.Form.Values) == 0:
		ws.Info = "Select at least one value field to build the pivot table."
		return ws
	}

	agg, err := models.ParseAggregation(ws.Form.Aggregation)
	if err != nil {
		agg = models.Aggregation(ws.Form.Aggregation)
	}
	result, err := expivot.Evaluate(filtered, schema, models.PivotRequest{
		RowFields:    ws.Form.Rows,
		ColumnFields: ws.Form.Cols,
		ValueFields:  ws.Form.Values,
		Aggregation:  agg,
	})
	if err != nil {
		var verr *expivot.ValidationError
		if errors.As(err, &verr) {
			for _, w := range verr.Warnings {
				ws.Warnings = append(ws.Warnings, w.Message)
			}
		}
		ws.Error = err.Error()
		return ws
	}

	for _, w := range result.Warnings {
		ws.Warnings = append(ws.Warnings, w.Message)
	}
	ws.Result = result
	ws.ExportURL = "/w/" + u.ID + "/export.csv?" + ws.Form.Query().Encode()
	return ws
}

func previewRows(t *models.Table, n int) ([]string, [][]string) {
	head := t.Head(n)
	rows := make([][]string, head.NumRows())
	for i := range rows {
		values := head.Row(i)
		rows[i] = make([]string, len(values))
		for c, v := range values {
			rows[i][c] = v.String()
		}
	}
	return head.Names(), rows
}

// intersect keeps the entries of vals that appear in allowed.
func intersect(vals, allowed []string) []string {
	set := selected(allowed)
	var out []string
	for _, v := range vals {
		if set[v] {
			out = append(out, v)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// selected builds a membership set for template checkboxes.
func selected(vals []string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}
