// Package parser reads spreadsheet rows and turns them into typed tables.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/expivot-go/pkg/expivot/models"
	"github.com/xuri/excelize/v2"
)

// ReadRows reads the raw cell text of a sheet.
// Values are unformatted so that numbers keep full precision.
func ReadRows(f *excelize.File, sheetName string) ([][]string, error) {
	return f.GetRows(sheetName, excelize.Options{RawCellValue: true})
}

// BuildTable turns raw rows into a typed table.
// The first non-empty row of the data region is the header. Columns named in
// textColumns are always text, which keeps identifiers such as "0101" intact.
func BuildTable(sheetName string, rows [][]string, textColumns []string) (*models.Table, error) {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return nil, fmt.Errorf("sheet %q has no data", sheetName)
	}

	headers := headerNames(rows[minRow], minCol, maxCol)
	forced := make(map[string]bool, len(textColumns))
	for _, name := range textColumns {
		forced[strings.TrimSpace(name)] = true
	}

	raw := make([][]string, len(headers))
	for rowIdx := minRow + 1; rowIdx <= maxRow; rowIdx++ {
		row := rows[rowIdx]
		if isBlankRow(row, minCol, maxCol) {
			continue
		}
		for c := range headers {
			colIdx := minCol + c
			cell := ""
			if colIdx < len(row) {
				cell = row[colIdx]
			}
			raw[c] = append(raw[c], cell)
		}
	}

	columns := make([]models.Column, len(headers))
	for c, name := range headers {
		columns[c] = buildColumn(name, raw[c], forced[name])
	}
	return models.NewTable(sheetName, columns)
}

// buildColumn infers the column kind and converts its cells.
// A column is numeric when it is not forced to text, has at least one value,
// and every non-empty cell parses as a finite number.
func buildColumn(name string, cells []string, forceText bool) models.Column {
	kind := models.KindText
	if !forceText {
		kind = inferKind(cells)
	}

	values := make([]models.Value, len(cells))
	for i, cell := range cells {
		values[i] = parseValue(cell, kind)
	}
	return models.Column{Name: name, Kind: kind, Values: values}
}

func inferKind(cells []string) models.ColumnKind {
	seen := false
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if _, ok := parseNumber(cell); !ok {
			return models.KindText
		}
		seen = true
	}
	if !seen {
		return models.KindText
	}
	return models.KindNumeric
}

// parseValue converts one cell to a value of the given kind.
// Empty cells are null in both kinds.
func parseValue(s string, kind models.ColumnKind) models.Value {
	if strings.TrimSpace(s) == "" {
		return models.NullValue()
	}
	if kind == models.KindNumeric {
		if f, ok := parseNumber(strings.TrimSpace(s)); ok {
			return models.NumberValue(f)
		}
		return models.NullValue()
	}
	return models.TextValue(s)
}

// parseNumber accepts decimal numbers and rejects NaN and infinities.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// headerNames trims header cells, names blank ones "Unnamed: <i>" and
// suffixes repeats with ".<n>".
func headerNames(row []string, minCol, maxCol int) []string {
	names := make([]string, 0, maxCol-minCol+1)
	seen := make(map[string]int)
	for colIdx := minCol; colIdx <= maxCol; colIdx++ {
		name := ""
		if colIdx < len(row) {
			name = strings.TrimSpace(row[colIdx])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", colIdx-minCol)
		}
		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		names = append(names, name)
	}
	return names
}

func isBlankRow(row []string, minCol, maxCol int) bool {
	for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
		if strings.TrimSpace(row[colIdx]) != "" {
			return false
		}
	}
	return true
}
