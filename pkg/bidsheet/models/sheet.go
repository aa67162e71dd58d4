package models

// InputField is a blank form cell on a visible sheet awaiting user entry.
type InputField struct {
	// Name is the resolved field label, or "Field_<ref>" when no label
	// cell was found.
	Name string `json:"name"`
	// Ref is the field cell coordinate.
	Ref string `json:"ref"`
	// Type is the inferred field type: currency, percentage, number, or
	// text.
	Type string `json:"type"`
	// Required reports whether a validation on the cell disallows blanks.
	Required bool `json:"required"`
}

// SheetData holds everything extracted from one sheet.
type SheetData struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Type classifies the sheet by its name (e.g. "exterior_measurement",
	// "calculation").
	Type string `json:"type"`
	// Hidden reports the sheet visibility state in the workbook.
	Hidden bool `json:"hidden"`
	// Cells contains every non-empty cell (value or formula present).
	Cells []Cell `json:"cells,omitempty"`
	// MergedRegions contains merged ranges, usually form labels.
	MergedRegions []MergedRegion `json:"merged_regions,omitempty"`
	// Fields contains detected input fields (visible sheets only).
	Fields []InputField `json:"fields,omitempty"`
	// Validations contains data-validation rules on the sheet.
	Validations []Validation `json:"validations,omitempty"`
}

// TableData is the raw tabular extract of a hidden pricing/formula
// sheet, before lookup-table registration.
type TableData struct {
	// Key is the canonical lookup-table key derived from the sheet name.
	Key string `json:"key"`
	// Sheet is the originating sheet name.
	Sheet string `json:"sheet"`
	// Range is the originating data range in A1 notation.
	Range string `json:"range,omitempty"`
	// Headers is the ordered header row.
	Headers []string `json:"headers"`
	// Rows contains the ordered data rows, each padded to header width.
	Rows [][]interface{} `json:"rows"`
}
