package parser

import (
	"encoding/csv"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadCSVRows reads all records of a CSV stream. A leading UTF-8 or UTF-16
// byte-order mark is honored and stripped; ragged rows are allowed.
func ReadCSVRows(r io.Reader) ([][]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}
