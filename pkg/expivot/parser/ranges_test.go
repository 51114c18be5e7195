package parser

import (
	"testing"

	"github.com/ukaji3/expivot-go/pkg/expivot/models"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		ref       string
		sheet     string
		expected  models.Region
		shouldErr bool
	}{
		{"A1:D10", "", models.Region{R1: 1, C1: 1, R2: 10, C2: 4}, false},
		{"$B$2:$C$3", "", models.Region{R1: 2, C1: 2, R2: 3, C2: 3}, false},
		{"'Sales 2024'!C5:A1", "Sales 2024", models.Region{R1: 1, C1: 1, R2: 5, C2: 3}, false},
		{"A1", "", models.Region{}, true},
		{"1A:B2", "", models.Region{}, true},
	}

	for _, tt := range tests {
		sheet, region, err := ParseRange(tt.ref)
		if tt.shouldErr {
			if err == nil {
				t.Errorf("ParseRange(%q) expected error", tt.ref)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRange(%q) unexpected error: %v", tt.ref, err)
			continue
		}
		if sheet != tt.sheet || *region != tt.expected {
			t.Errorf("ParseRange(%q) = %q, %+v; expected %q, %+v", tt.ref, sheet, *region, tt.sheet, tt.expected)
		}
	}
}

func TestClipRowsAndRegion(t *testing.T) {
	rows := [][]string{
		{"title"},
		{"", "k", "v", "junk"},
		{"", "a", "1", "junk"},
	}

	clipped := ClipRows(rows, models.Region{R1: 2, C1: 2, R2: 3, C2: 3})
	region := DataRegion(clipped)
	if region == nil {
		t.Fatal("Expected data region")
	}
	if got := RegionRef(*region); got != "B2:C3" {
		t.Errorf("RegionRef = %q, expected B2:C3", got)
	}
	if n := CountDataRows(clipped); n != 1 {
		t.Errorf("CountDataRows = %d, expected 1", n)
	}
	if DataRegion([][]string{{""}}) != nil {
		t.Error("Expected nil region for empty sheet")
	}
}
