// Package output serializes pivot results for export and display.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ukaji3/expivot-go/pkg/expivot/models"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVFileName is the download name of an exported pivot table.
const CSVFileName = "pivot_table_result.csv"

// CSVContentType is the MIME type of the CSV export.
const CSVContentType = "text/csv; charset=utf-8"

// WriteCSV writes the result as UTF-8 CSV with a byte-order mark, so that
// spreadsheet viewers display non-ASCII labels correctly.
//
// Header row 0 holds the row-field names followed by each column's value
// field. Each column field adds one header row: blank except for the field
// name in the last row-label cell, followed by the column key values.
// No-data cells are written as empty fields.
func WriteCSV(w io.Writer, rt *models.ResultTable) error {
	bw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bw)

	for _, record := range csvRecords(rt) {
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Close()
}

func csvRecords(rt *models.ResultTable) [][]string {
	left := len(rt.RowFields)
	records := make([][]string, 0, 1+len(rt.ColumnFields)+len(rt.RowKeys))

	header := make([]string, 0, left+len(rt.Columns))
	header = append(header, rt.RowFields...)
	for _, col := range rt.Columns {
		header = append(header, col.ValueField)
	}
	records = append(records, header)

	for level, field := range rt.ColumnFields {
		record := make([]string, left, left+len(rt.Columns))
		record[left-1] = field
		for _, col := range rt.Columns {
			record = append(record, col.Key[level].String())
		}
		records = append(records, record)
	}

	for i, rowKey := range rt.RowKeys {
		record := make([]string, 0, left+len(rt.Columns))
		record = append(record, rowKey.Strings()...)
		for _, c := range rt.Cells[i] {
			record = append(record, c.String())
		}
		records = append(records, record)
	}
	return records
}

// ParsedCSV is a pivot export read back from text.
type ParsedCSV struct {
	// RowFields are the row-field names from the first header row.
	RowFields []string
	// ColumnFields are the column-field names of the extra header rows.
	ColumnFields []string
	// Columns holds, per data column, the value field followed by the column key texts.
	Columns [][]string
	// RowLabels holds the row key texts of each data row.
	RowLabels [][]string
	// Cells is indexed [row][column]; empty fields read back as no data.
	Cells [][]models.Cell
}

// ReadCSV parses a WriteCSV export. The caller supplies the number of row and
// column fields, which fixes the label block and header depth.
func ReadCSV(r io.Reader, rowFieldCount, columnFieldCount int) (*ParsedCSV, error) {
	if rowFieldCount < 1 {
		return nil, fmt.Errorf("row field count must be positive, got %d", rowFieldCount)
	}

	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(decoded)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1+columnFieldCount {
		return nil, fmt.Errorf("expected %d header rows, got %d records", 1+columnFieldCount, len(records))
	}

	header := records[0]
	if len(header) < rowFieldCount {
		return nil, fmt.Errorf("header has %d fields, expected at least %d", len(header), rowFieldCount)
	}
	parsed := &ParsedCSV{RowFields: header[:rowFieldCount]}

	width := len(header) - rowFieldCount
	parsed.Columns = make([][]string, width)
	for c := 0; c < width; c++ {
		parsed.Columns[c] = []string{header[rowFieldCount+c]}
	}
	for level := 1; level <= columnFieldCount; level++ {
		record := records[level]
		parsed.ColumnFields = append(parsed.ColumnFields, record[rowFieldCount-1])
		for c := 0; c < width; c++ {
			parsed.Columns[c] = append(parsed.Columns[c], record[rowFieldCount+c])
		}
	}

	for _, record := range records[1+columnFieldCount:] {
		parsed.RowLabels = append(parsed.RowLabels, record[:rowFieldCount])
		cells := make([]models.Cell, width)
		for c := 0; c < width; c++ {
			field := record[rowFieldCount+c]
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %v column %d: %w", record[:rowFieldCount], c, err)
			}
			cells[c] = models.Cell{Value: v, Valid: true}
		}
		parsed.Cells = append(parsed.Cells, cells)
	}
	return parsed, nil
}
