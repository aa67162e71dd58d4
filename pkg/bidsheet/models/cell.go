// Package models defines data structures produced by a workbook import.
package models

// Cell is an immutable snapshot of a single workbook cell taken at
// extraction time.
type Cell struct {
	// Sheet is the owning sheet name.
	Sheet string `json:"sheet"`
	// Ref is the A1-style coordinate within the sheet (e.g. "J618").
	Ref string `json:"ref"`
	// Value is the raw cell value (int64, float64, or string), nil when
	// the cell only carries a formula.
	Value interface{} `json:"value,omitempty"`
	// Formula is the cell formula without the leading "=", empty for
	// plain value cells.
	Formula string `json:"formula,omitempty"`
	// DataType is the declared cell type as reported by the workbook.
	DataType string `json:"data_type,omitempty"`
	// NumberFormat is the display format code (e.g. "$#,##0.00").
	NumberFormat string `json:"number_format,omitempty"`
}

// Key returns the canonical "Sheet!Ref" identifier for the cell.
func (c Cell) Key() string {
	return c.Sheet + "!" + c.Ref
}

// MergedRegion is a merged cell range and the value shown in its
// top-left anchor cell.
type MergedRegion struct {
	// Range is the merged range in A1 notation (e.g. "B2:D2").
	Range string `json:"range"`
	// Value is the anchor cell value.
	Value interface{} `json:"value,omitempty"`
}

// Validation is a data-validation rule attached to a cell range,
// typically a dropdown sourced from a hidden sheet.
type Validation struct {
	// Sheet is the owning sheet name.
	Sheet string `json:"sheet"`
	// Range is the validated range in A1 notation.
	Range string `json:"range"`
	// Type is the validation type (e.g. "list").
	Type string `json:"type,omitempty"`
	// Formula is the validation source formula or range reference.
	Formula string `json:"formula,omitempty"`
	// AllowBlank reports whether blank entries pass validation.
	AllowBlank bool `json:"allow_blank"`
	// ShowDropdown reports whether the cell renders a dropdown.
	ShowDropdown bool `json:"show_dropdown"`
}
