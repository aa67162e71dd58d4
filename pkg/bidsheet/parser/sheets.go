// Package parser extracts sheets, cells, formulas, input fields, and
// lookup data from a workbook file.
package parser

import (
	"strconv"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/quotewell/bidsheet-go/pkg/bidsheet/models"
)

// ExtractSheet extracts everything from one sheet: non-empty cells
// with formulas and formats, merged regions, data validations, and,
// on visible sheets, blank input fields.
func ExtractSheet(f *excelize.File, sheetName string, hidden bool, log zerolog.Logger) (*models.SheetData, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	sd := &models.SheetData{
		Name:   sheetName,
		Type:   ClassifySheet(sheetName),
		Hidden: hidden,
	}

	maxRow := len(rows)
	maxCol := 0
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}

	if validations, err := f.GetDataValidations(sheetName); err == nil {
		for _, dv := range validations {
			if dv == nil {
				continue
			}
			sd.Validations = append(sd.Validations, models.Validation{
				Sheet:        sheetName,
				Range:        dv.Sqref,
				Type:         dv.Type,
				Formula:      dv.Formula1,
				AllowBlank:   dv.AllowBlank,
				ShowDropdown: dv.ShowDropDown,
			})
		}
	} else {
		log.Warn().Err(err).Str("sheet", sheetName).Msg("data validations unreadable")
	}

	if merged, err := f.GetMergeCells(sheetName); err == nil {
		for _, m := range merged {
			sd.MergedRegions = append(sd.MergedRegions, models.MergedRegion{
				Range: m.GetStartAxis() + ":" + m.GetEndAxis(),
				Value: parseValue(m.GetCellValue()),
			})
		}
	} else {
		log.Warn().Err(err).Str("sheet", sheetName).Msg("merged cells unreadable")
	}

	for r := 1; r <= maxRow; r++ {
		for c := 1; c <= maxCol; c++ {
			ref, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				continue
			}
			formulaStr, _ := f.GetCellFormula(sheetName, ref)
			valueStr := ""
			if c <= len(rows[r-1]) {
				valueStr = rows[r-1][c-1]
			}

			if formulaStr == "" && valueStr == "" {
				if !hidden {
					if field, ok := detectInputField(f, sheetName, sd.Validations, c, r); ok {
						sd.Fields = append(sd.Fields, field)
					}
				}
				continue
			}

			cell := models.Cell{
				Sheet:        sheetName,
				Ref:          ref,
				Formula:      formulaStr,
				DataType:     cellTypeName(f, sheetName, ref),
				NumberFormat: numberFormat(f, sheetName, ref),
			}
			if valueStr != "" {
				cell.Value = parseValue(valueStr)
			}
			sd.Cells = append(sd.Cells, cell)
		}
	}

	return sd, nil
}

// Formulas returns the formula cells of an extracted sheet.
func Formulas(sd *models.SheetData) []models.Cell {
	var out []models.Cell
	for _, c := range sd.Cells {
		if c.Formula != "" {
			out = append(out, c)
		}
	}
	return out
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func cellTypeName(f *excelize.File, sheet, ref string) string {
	t, err := f.GetCellType(sheet, ref)
	if err != nil {
		return ""
	}
	switch t {
	case excelize.CellTypeBool:
		return "bool"
	case excelize.CellTypeDate:
		return "date"
	case excelize.CellTypeError:
		return "error"
	case excelize.CellTypeFormula:
		return "formula"
	case excelize.CellTypeInlineString, excelize.CellTypeSharedString:
		return "string"
	case excelize.CellTypeNumber:
		return "number"
	default:
		return ""
	}
}

// builtinFormats maps the builtin number-format ids that matter for
// field typing to their format codes.
var builtinFormats = map[int]string{
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	44: `_("$"* #,##0.00_)`,
}

func numberFormat(f *excelize.File, sheet, ref string) string {
	styleID, err := f.GetCellStyle(sheet, ref)
	if err != nil {
		return ""
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return ""
	}
	if style.CustomNumFmt != nil {
		return *style.CustomNumFmt
	}
	return builtinFormats[style.NumFmt]
}
