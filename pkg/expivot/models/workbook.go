package models

// WorkbookInfo describes an uploaded workbook without loading any sheet.
type WorkbookInfo struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets lists sheet names in workbook order.
	Sheets []string `json:"sheets"`
}

// Region represents cell coordinate bounds inside a sheet.
type Region struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
}

// Contains reports whether the 1-based cell coordinate lies in the region.
func (r Region) Contains(row, col int) bool {
	return row >= r.R1 && row <= r.R2 && col >= r.C1 && col <= r.C2
}
