package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quotewell/bidsheet-go/pkg/bidsheet/models"
)

// detectInputField decides whether an empty visible-sheet cell is a
// blank form field: no value, no formula, and a white, yellow, or
// unset fill. The caller guarantees the cell is empty.
func detectInputField(f *excelize.File, sheet string, validations []models.Validation, col, row int) (models.InputField, bool) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return models.InputField{}, false
	}
	if !isInputFill(f, sheet, ref) {
		return models.InputField{}, false
	}
	return models.InputField{
		Name:     fieldName(f, sheet, ref, col, row),
		Ref:      ref,
		Type:     fieldType(numberFormat(f, sheet, ref)),
		Required: fieldRequired(validations, col, row),
	}, true
}

// isInputFill accepts white, yellow, or unset fills.
func isInputFill(f *excelize.File, sheet, ref string) bool {
	styleID, err := f.GetCellStyle(sheet, ref)
	if err != nil {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return true
	}
	if len(style.Fill.Color) == 0 || style.Fill.Pattern == 0 {
		return true
	}
	color := strings.ToUpper(style.Fill.Color[0])
	// Colors may carry a leading alpha byte.
	if len(color) == 8 {
		color = color[2:]
	}
	return color == "FFFFFF" || color == "FFFF00"
}

// fieldName resolves the field label by walking left along the row,
// then up the column, until a non-empty cell is found. With no label
// in sheet bounds the synthetic name Field_<ref> is assigned.
func fieldName(f *excelize.File, sheet, ref string, col, row int) string {
	for c := col - 1; c >= 1; c-- {
		labelRef, err := excelize.CoordinatesToCellName(c, row)
		if err != nil {
			break
		}
		if v, _ := f.GetCellValue(sheet, labelRef); v != "" {
			return v
		}
	}
	for r := row - 1; r >= 1; r-- {
		labelRef, err := excelize.CoordinatesToCellName(col, r)
		if err != nil {
			break
		}
		if v, _ := f.GetCellValue(sheet, labelRef); v != "" {
			return v
		}
	}
	return "Field_" + ref
}

// fieldType infers the input type from the cell's display format.
func fieldType(format string) string {
	switch {
	case strings.Contains(format, "$"):
		return "currency"
	case strings.Contains(format, "%"):
		return "percentage"
	case strings.Contains(format, "0"):
		return "number"
	default:
		return "text"
	}
}

// fieldRequired reports whether a validation covering the cell
// disallows blank entries.
func fieldRequired(validations []models.Validation, col, row int) bool {
	for _, v := range validations {
		if v.AllowBlank {
			continue
		}
		if sqrefContains(v.Range, col, row) {
			return true
		}
	}
	return false
}

// sqrefContains reports whether a space-separated list of ranges or
// single cells covers the coordinate.
func sqrefContains(sqref string, col, row int) bool {
	for _, part := range strings.Fields(sqref) {
		start, end, ok := strings.Cut(part, ":")
		if !ok {
			end = start
		}
		c1, r1, err1 := excelize.CellNameToCoordinates(strings.ReplaceAll(start, "$", ""))
		c2, r2, err2 := excelize.CellNameToCoordinates(strings.ReplaceAll(end, "$", ""))
		if err1 != nil || err2 != nil {
			continue
		}
		if c1 > c2 {
			c1, c2 = c2, c1
		}
		if r1 > r2 {
			r1, r2 = r2, r1
		}
		if col >= c1 && col <= c2 && row >= r1 && row <= r2 {
			return true
		}
	}
	return false
}
