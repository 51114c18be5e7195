// Package expivot loads spreadsheet sheets, filters them and evaluates pivot requests.
package expivot

import (
	"path/filepath"
	"strings"
)

// Format represents the input file format.
type Format string

const (
	// FormatAuto picks the format from the file extension.
	FormatAuto Format = ""
	// FormatXLSX reads Office Open XML workbooks (.xlsx, .xlsm).
	FormatXLSX Format = "xlsx"
	// FormatCSV reads a single comma-separated sheet.
	FormatCSV Format = "csv"
)

// DefaultTextColumns are identifier columns that must stay text even when
// they look numeric: revenue center, management account and year-month.
var DefaultTextColumns = []string{"收益中心", "管理科目", "年月"}

// Options configures loading behavior.
type Options struct {
	// Format selects the reader. FormatAuto uses the file extension.
	Format Format
	// Sheet names the worksheet to load. Empty selects the first sheet.
	Sheet string
	// TextColumns lists columns forced to text.
	// If nil, defaults to DefaultTextColumns; an empty non-nil slice forces none.
	TextColumns []string
	// Range restricts the loaded region, e.g. "B2:F100". Empty loads the whole sheet.
	// A sheet-qualified range ("Detail!B2:F100") selects that sheet and must agree with Sheet when both are set.
	Range string
	// MaxRows caps the number of data rows. Zero means unlimited.
	MaxRows int
}

// DefaultOptions returns default loading options.
func DefaultOptions() Options {
	return Options{}
}

// ResolvedTextColumns returns the columns to force to text.
func (o Options) ResolvedTextColumns() []string {
	if o.TextColumns != nil {
		return o.TextColumns
	}
	return DefaultTextColumns
}

// ResolvedFormat returns the reader format for the given file name.
func (o Options) ResolvedFormat(name string) Format {
	if o.Format != FormatAuto {
		return o.Format
	}
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return FormatCSV
	}
	return FormatXLSX
}
