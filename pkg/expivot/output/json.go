package output

import (
	"encoding/json"

	"github.com/ukaji3/expivot-go/pkg/expivot/models"
)

// ToJSON serializes a pivot result. No-data cells encode as null.
func ToJSON(rt *models.ResultTable, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(rt, "", "  ")
	}
	return json.Marshal(rt)
}

// WorkbookToJSON serializes a workbook sheet listing.
func WorkbookToJSON(info *models.WorkbookInfo, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(info, "", "  ")
	}
	return json.Marshal(info)
}
