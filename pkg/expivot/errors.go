package expivot

import (
	"errors"
	"fmt"

	"github.com/ukaji3/expivot-go/pkg/expivot/models"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input is not a readable workbook or CSV file.
var ErrInvalidFormat = errors.New("invalid spreadsheet format")

// ErrNoSheets indicates the workbook contains no worksheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// ErrSheetNotFound indicates the requested worksheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrEmptySheet indicates the worksheet has no header row.
var ErrEmptySheet = errors.New("sheet is empty")

// ErrRangeSheetMismatch indicates Options.Range names a different sheet than Options.Sheet.
var ErrRangeSheetMismatch = errors.New("range refers to another sheet")

// ErrTooManyRows indicates the sheet exceeds Options.MaxRows.
var ErrTooManyRows = errors.New("too many rows")

// LoadError represents an error while loading a sheet into a table.
type LoadError struct {
	SheetName string
	Stage     string // "open", "sheets", "rows", "range", "table"
	Err       error
}

func (e *LoadError) Error() string {
	if e.SheetName == "" {
		return fmt.Sprintf("load error (%s): %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("load error in sheet %q (%s): %v", e.SheetName, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(sheetName, stage string, err error) *LoadError {
	return &LoadError{
		SheetName: sheetName,
		Stage:     stage,
		Err:       err,
	}
}

// ErrorKind classifies pivot validation problems.
type ErrorKind string

const (
	KindMissingDimension       ErrorKind = "missing_dimension"
	KindUnknownColumn          ErrorKind = "unknown_column"
	KindDuplicateField         ErrorKind = "duplicate_field"
	KindNonNumericValueField   ErrorKind = "non_numeric_value_field"
	KindNoAggregatableFields   ErrorKind = "no_aggregatable_fields"
	KindUnsupportedAggregation ErrorKind = "unsupported_aggregation"
)

// Sentinels for errors.Is matching against a *ValidationError of the same kind.
var (
	ErrMissingDimension       = &ValidationError{Kind: KindMissingDimension}
	ErrUnknownColumn          = &ValidationError{Kind: KindUnknownColumn}
	ErrDuplicateField         = &ValidationError{Kind: KindDuplicateField}
	ErrNonNumericValueField   = &ValidationError{Kind: KindNonNumericValueField}
	ErrNoAggregatableFields   = &ValidationError{Kind: KindNoAggregatableFields}
	ErrUnsupportedAggregation = &ValidationError{Kind: KindUnsupportedAggregation}
)

// ValidationError reports a pivot request that cannot be evaluated as given.
// Field holds the offending column name, or "index"/"values" for a missing dimension.
type ValidationError struct {
	Kind  ErrorKind
	Field string
	// Warnings lists the value fields dropped before a KindNoAggregatableFields failure.
	Warnings []models.Warning
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMissingDimension:
		return fmt.Sprintf("at least one %s field is required", e.Field)
	case KindUnknownColumn:
		return fmt.Sprintf("column %q does not exist", e.Field)
	case KindDuplicateField:
		return fmt.Sprintf("column %q is used more than once as a grouping field", e.Field)
	case KindNonNumericValueField:
		return fmt.Sprintf("column %q is not numeric and will not be aggregated", e.Field)
	case KindNoAggregatableFields:
		return "no numeric value fields to aggregate"
	case KindUnsupportedAggregation:
		return fmt.Sprintf("unsupported aggregation %q", e.Field)
	}
	return fmt.Sprintf("invalid pivot request: %s %s", e.Kind, e.Field)
}

// Is matches any ValidationError of the same kind, so the package sentinels
// work with errors.Is regardless of Field.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

// Warning converts a non-fatal validation error into a result warning.
func (e *ValidationError) Warning() models.Warning {
	return models.Warning{Kind: string(e.Kind), Field: e.Field, Message: e.Error()}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(kind ErrorKind, field string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field}
}

// IsValidationError reports whether err is a pivot validation error, as opposed
// to a load error from the spreadsheet reader.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
