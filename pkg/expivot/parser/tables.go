package parser

import (
	"fmt"

	"github.com/ukaji3/expivot-go/pkg/expivot/models"
	"github.com/xuri/excelize/v2"
)

// DataRegion returns the bounding box of non-empty cells, or nil for an empty sheet.
func DataRegion(rows [][]string) *models.Region {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return nil
	}
	return &models.Region{R1: minRow + 1, C1: minCol + 1, R2: maxRow + 1, C2: maxCol + 1}
}

// RegionRef converts a region to Excel range notation (e.g. "A1:D10").
func RegionRef(r models.Region) string {
	startCell, _ := excelize.CoordinatesToCellName(r.C1, r.R1)
	endCell, _ := excelize.CoordinatesToCellName(r.C2, r.R2)
	return fmt.Sprintf("%s:%s", startCell, endCell)
}

// findDataBounds finds the 0-based bounding box of non-empty cells.
// All four results are -1 when there is no data.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(rows [][]string, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				count++
			}
		}
	}
	return count
}

// CountDataRows returns the number of non-blank rows below the header row.
func CountDataRows(rows [][]string) int {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return 0
	}
	n := 0
	for rowIdx := minRow + 1; rowIdx <= maxRow; rowIdx++ {
		if countNonEmptyCells(rows, rowIdx, rowIdx, minCol, maxCol) > 0 {
			n++
		}
	}
	return n
}
