package expivot

import (
	"sort"

	"github.com/ukaji3/expivot-go/pkg/expivot/models"
)

// Evaluate validates req against schema and computes the pivot of t.
//
// Validation failures are returned as *ValidationError and no result is
// produced. Value fields that are not numeric are dropped and reported in
// ResultTable.Warnings; if none remain, the request fails with
// KindNoAggregatableFields and the dropped fields are listed in the error's
// Warnings. The input table is never modified.
func Evaluate(t *models.Table, schema models.Schema, req models.PivotRequest) (*models.ResultTable, error) {
	valueFields, warnings, err := validate(schema, req)
	if err != nil {
		return nil, err
	}

	rowCols, err := lookupColumns(t, req.RowFields)
	if err != nil {
		return nil, err
	}
	colCols, err := lookupColumns(t, req.ColumnFields)
	if err != nil {
		return nil, err
	}
	valCols, err := lookupColumns(t, valueFields)
	if err != nil {
		return nil, err
	}

	rowGroups := newGrouping()
	colGroups := newGrouping()
	if len(colCols) == 0 {
		// Without column fields every row shares the empty key, so each value
		// field yields exactly one column even when t has no rows.
		colGroups.add(models.Key{})
	}
	// cellRows[row group][column group] lists the table rows of one cell.
	cellRows := make(map[int]map[int][]int)

	for i := 0; i < t.NumRows(); i++ {
		rowKey, ok := keyAt(rowCols, i)
		if !ok {
			continue
		}
		colKey, ok := keyAt(colCols, i)
		if !ok {
			continue
		}
		r := rowGroups.add(rowKey)
		c := colGroups.add(colKey)
		if cellRows[r] == nil {
			cellRows[r] = make(map[int][]int)
		}
		cellRows[r][c] = append(cellRows[r][c], i)
	}

	rowOrder := rowGroups.sorted()
	colOrder := colGroups.sorted()

	result := &models.ResultTable{
		RowFields:    append([]string(nil), req.RowFields...),
		ColumnFields: append([]string(nil), req.ColumnFields...),
		ValueFields:  valueFields,
		Aggregation:  req.Aggregation,
		RowKeys:      make([]models.Key, len(rowOrder)),
		Warnings:     warnings,
	}
	for i, r := range rowOrder {
		result.RowKeys[i] = rowGroups.keys[r]
	}
	for _, field := range valueFields {
		for _, c := range colOrder {
			col := models.ResultColumn{ValueField: field}
			if len(colCols) > 0 {
				col.Key = colGroups.keys[c]
			}
			result.Columns = append(result.Columns, col)
		}
	}

	result.Cells = make([][]models.Cell, len(rowOrder))
	for ri, r := range rowOrder {
		cells := make([]models.Cell, 0, len(result.Columns))
		for vi := range valueFields {
			values := valCols[vi].Values
			for _, c := range colOrder {
				cells = append(cells, Aggregate(req.Aggregation, numbersAt(values, cellRows[r][c])))
			}
		}
		result.Cells[ri] = cells
	}

	return result, nil
}

// validate checks req in a fixed order and returns the numeric value fields
// that will be aggregated, plus warnings for the ones dropped.
func validate(schema models.Schema, req models.PivotRequest) ([]string, []models.Warning, error) {
	if len(req.RowFields) == 0 {
		return nil, nil, NewValidationError(KindMissingDimension, "index")
	}
	if len(req.ValueFields) == 0 {
		return nil, nil, NewValidationError(KindMissingDimension, "values")
	}

	for _, fields := range [][]string{req.RowFields, req.ColumnFields, req.ValueFields} {
		for _, name := range fields {
			if !schema.Has(name) {
				return nil, nil, NewValidationError(KindUnknownColumn, name)
			}
		}
	}

	grouping := make(map[string]bool, len(req.RowFields)+len(req.ColumnFields))
	for _, fields := range [][]string{req.RowFields, req.ColumnFields} {
		for _, name := range fields {
			if grouping[name] {
				return nil, nil, NewValidationError(KindDuplicateField, name)
			}
			grouping[name] = true
		}
	}

	var (
		valueFields []string
		warnings    []models.Warning
		seen        = make(map[string]bool, len(req.ValueFields))
	)
	for _, name := range req.ValueFields {
		if seen[name] {
			continue
		}
		seen[name] = true
		if !schema.IsNumeric(name) {
			warnings = append(warnings, NewValidationError(KindNonNumericValueField, name).Warning())
			continue
		}
		valueFields = append(valueFields, name)
	}
	if len(valueFields) == 0 {
		verr := NewValidationError(KindNoAggregatableFields, "")
		verr.Warnings = warnings
		return nil, warnings, verr
	}

	if !req.Aggregation.Valid() {
		return nil, warnings, NewValidationError(KindUnsupportedAggregation, string(req.Aggregation))
	}

	return valueFields, warnings, nil
}

// lookupColumns resolves names against the table. A schema that does not
// describe the table surfaces here as an unknown column.
func lookupColumns(t *models.Table, names []string) ([]*models.Column, error) {
	cols := make([]*models.Column, len(names))
	for i, name := range names {
		col, ok := t.Column(name)
		if !ok {
			return nil, NewValidationError(KindUnknownColumn, name)
		}
		cols[i] = col
	}
	return cols, nil
}

// keyAt builds the group key of row i. Rows with a null key part are not grouped.
func keyAt(cols []*models.Column, i int) (models.Key, bool) {
	key := make(models.Key, len(cols))
	for c, col := range cols {
		v := col.Values[i]
		if v.Null {
			return nil, false
		}
		key[c] = v
	}
	return key, true
}

// numbersAt returns the non-null numbers of values at the given rows.
func numbersAt(values []models.Value, rows []int) []float64 {
	out := make([]float64, 0, len(rows))
	for _, i := range rows {
		if v := values[i]; !v.Null && v.Numeric {
			out = append(out, v.Num)
		}
	}
	return out
}

// grouping assigns a stable id to each distinct key.
type grouping struct {
	ids  map[string]int
	keys []models.Key
}

func newGrouping() *grouping {
	return &grouping{ids: make(map[string]int)}
}

func (g *grouping) add(key models.Key) int {
	h := keyHash(key)
	if id, ok := g.ids[h]; ok {
		return id
	}
	id := len(g.keys)
	g.ids[h] = id
	g.keys = append(g.keys, key)
	return id
}

// sorted returns group ids ordered by key.
func (g *grouping) sorted() []int {
	order := make([]int, len(g.keys))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return g.keys[order[a]].Compare(g.keys[order[b]]) < 0
	})
	return order
}

// keyHash encodes a key unambiguously: a kind tag and a length prefix per part.
func keyHash(key models.Key) string {
	var b []byte
	for _, v := range key {
		s := v.String()
		if v.Numeric {
			b = append(b, 'n')
		} else {
			b = append(b, 't')
		}
		b = append(b, byte(len(s)>>24), byte(len(s)>>16), byte(len(s)>>8), byte(len(s)))
		b = append(b, s...)
	}
	return string(b)
}
