package parser

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestIsLookupSheet(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"Paint Pricing", true},
		{"FORMULAS", true},
		{"Hidden Formula Sheet", true},
		{"Exterior Measure", false},
		{"Data2", false},
	}

	for _, tt := range tests {
		if got := IsLookupSheet(tt.name); got != tt.expected {
			t.Errorf("IsLookupSheet(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestParseTable(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Paint Pricing Sheet"
	if _, err := f.NewSheet(sheetName); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}

	// A title row above the table is not fully populated and must be
	// skipped in favor of the real header row.
	f.SetCellValue(sheetName, "A1", "Pricing")
	f.SetCellValue(sheetName, "A2", "Type")
	f.SetCellValue(sheetName, "B2", "Grade")
	f.SetCellValue(sheetName, "C2", "Price")
	f.SetCellValue(sheetName, "A3", "Interior")
	f.SetCellValue(sheetName, "B3", "Flat")
	f.SetCellValue(sheetName, "C3", 32.5)
	f.SetCellValue(sheetName, "A4", "Exterior")
	f.SetCellValue(sheetName, "B4", "Satin")
	f.SetCellValue(sheetName, "C4", 45)

	tmpFile := saveFixture(t, f)
	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	td, err := ParseTable(f2, sheetName)
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	if td == nil {
		t.Fatal("ParseTable returned no table")
	}

	if td.Key != "paint_pricing" {
		t.Errorf("Key = %q, want %q", td.Key, "paint_pricing")
	}
	if len(td.Headers) != 3 || td.Headers[0] != "Type" {
		t.Errorf("Headers = %v, want [Type Grade Price]", td.Headers)
	}
	if len(td.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(td.Rows))
	}
	if td.Rows[0][0] != "Interior" || td.Rows[0][2] != 32.5 {
		t.Errorf("first row = %v", td.Rows[0])
	}
	if td.Rows[1][2] != int64(45) {
		t.Errorf("second row price = %v (type %T), want int64(45)", td.Rows[1][2], td.Rows[1][2])
	}
}

func TestParseTableEmptySheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	tmpFile := saveFixture(t, f)
	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	td, err := ParseTable(f2, "Sheet1")
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	if td != nil {
		t.Errorf("expected no table from an empty sheet, got %+v", td)
	}
}
