package expivot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ukaji3/expivot-go/pkg/expivot/models"
	"github.com/ukaji3/expivot-go/pkg/expivot/parser"
	"github.com/xuri/excelize/v2"
)

// Load reads one sheet of a spreadsheet file into a typed table.
func Load(path string, opts Options) (*models.Table, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return LoadReader(bytes.NewReader(data), filepath.Base(path), opts)
}

// LoadReader reads one sheet from r. The name is used to detect the format.
func LoadReader(r io.Reader, name string, opts Options) (*models.Table, error) {
	var (
		sheetName string
		rows      [][]string
		region    *models.Region
		err       error
	)

	format := opts.ResolvedFormat(name)
	sheet := opts.Sheet
	if opts.Range != "" {
		var rangeSheet string
		rangeSheet, region, err = parser.ParseRange(opts.Range)
		if err != nil {
			return nil, NewLoadError(sheet, "range", err)
		}
		// A sheet-qualified range selects its sheet unless another one was asked for.
		if rangeSheet != "" && format != FormatCSV {
			if sheet != "" && sheet != rangeSheet {
				return nil, NewLoadError(sheet, "range", fmt.Errorf("%w: range is on %q", ErrRangeSheetMismatch, rangeSheet))
			}
			sheet = rangeSheet
		}
	}

	switch format {
	case FormatCSV:
		rows, err = parser.ReadCSVRows(r)
		if err != nil {
			return nil, NewLoadError("", "open", fmt.Errorf("%w: %v", ErrInvalidFormat, err))
		}
	default:
		sheetName, rows, err = readSheet(r, sheet)
		if err != nil {
			return nil, err
		}
	}

	if region != nil {
		rows = parser.ClipRows(rows, *region)
	}

	if parser.DataRegion(rows) == nil {
		return nil, NewLoadError(sheetName, "rows", ErrEmptySheet)
	}
	if opts.MaxRows > 0 {
		if n := parser.CountDataRows(rows); n > opts.MaxRows {
			return nil, NewLoadError(sheetName, "rows", fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyRows, n, opts.MaxRows))
		}
	}

	table, err := parser.BuildTable(sheetName, rows, opts.ResolvedTextColumns())
	if err != nil {
		return nil, NewLoadError(sheetName, "table", err)
	}
	return table, nil
}

// SheetNames lists the worksheets of a workbook file.
func SheetNames(path string) (*models.WorkbookInfo, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return SheetNamesReader(bytes.NewReader(data), filepath.Base(path), DefaultOptions())
}

// SheetNamesReader lists the worksheets of a workbook read from r.
// A CSV input has a single unnamed sheet.
func SheetNamesReader(r io.Reader, name string, opts Options) (*models.WorkbookInfo, error) {
	info := &models.WorkbookInfo{BookName: name}
	if opts.ResolvedFormat(name) == FormatCSV {
		info.Sheets = []string{""}
		return info, nil
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, NewLoadError("", "open", fmt.Errorf("%w: %v", ErrInvalidFormat, err))
	}
	defer f.Close()

	info.Sheets = f.GetSheetList()
	if len(info.Sheets) == 0 {
		return nil, NewLoadError("", "sheets", ErrNoSheets)
	}
	return info, nil
}

// readSheet opens a workbook and returns the raw rows of the selected sheet.
func readSheet(r io.Reader, sheet string) (string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", nil, NewLoadError("", "open", fmt.Errorf("%w: %v", ErrInvalidFormat, err))
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return "", nil, NewLoadError("", "sheets", ErrNoSheets)
	}

	if sheet == "" {
		sheet = sheetList[0]
	} else if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return "", nil, NewLoadError(sheet, "sheets", ErrSheetNotFound)
	}

	rows, err := parser.ReadRows(f, sheet)
	if err != nil {
		return "", nil, NewLoadError(sheet, "rows", err)
	}
	return sheet, rows, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, NewLoadError("", "open", fmt.Errorf("%w: %s", ErrFileNotFound, path))
	}
	if err != nil {
		return nil, NewLoadError("", "open", err)
	}
	return data, nil
}
