package parser

import (
	"fmt"
	"strings"

	"github.com/ukaji3/expivot-go/pkg/expivot/models"
	"github.com/xuri/excelize/v2"
)

// ParseRange parses a range such as "B2:F100" or "$A$1:$D$10", optionally
// prefixed by a sheet name ("'Sales 2024'!A1:D10"). The sheet prefix is returned separately.
func ParseRange(ref string) (string, *models.Region, error) {
	ref = strings.TrimSpace(ref)
	sheetName := ""
	if idx := strings.LastIndex(ref, "!"); idx >= 0 {
		sheetName = strings.Trim(ref[:idx], "'")
		ref = ref[idx+1:]
	}

	area := parseRangeToArea(ref)
	if area == nil {
		return "", nil, fmt.Errorf("invalid range %q", ref)
	}
	return sheetName, area, nil
}

// ClipRows keeps only the cells inside the region. Rows and columns outside
// it are blanked rather than removed so header detection still sees real positions.
func ClipRows(rows [][]string, r models.Region) [][]string {
	out := make([][]string, 0, len(rows))
	for rowIdx, row := range rows {
		if rowIdx+1 < r.R1 || rowIdx+1 > r.R2 {
			out = append(out, nil)
			continue
		}
		clipped := make([]string, len(row))
		for colIdx, cell := range row {
			if r.Contains(rowIdx+1, colIdx+1) {
				clipped[colIdx] = cell
			}
		}
		out = append(out, clipped)
	}
	return out
}

// parseRangeToArea parses a range string like $A$1:$D$10 to a Region.
func parseRangeToArea(rangeStr string) *models.Region {
	// Remove $ signs
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) != 2 {
		return nil
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return nil
	}

	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return nil
	}

	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}

	return &models.Region{
		R1: startRow,
		C1: startCol,
		R2: endRow,
		C2: endCol,
	}
}
