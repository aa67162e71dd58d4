package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quotewell/bidsheet-go/pkg/bidsheet/lookup"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/models"
)

// IsLookupSheet reports whether a hidden sheet holds tabular lookup
// data, judged by its name.
func IsLookupSheet(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "pricing") || strings.Contains(lower, "formula")
}

// ParseTable extracts a hidden pricing/formula sheet as tabular lookup
// data. The first fully-populated row becomes the header row and
// subsequent non-empty rows become data rows, padded to header width.
// Returns nil when the sheet holds no usable table.
func ParseTable(f *excelize.File, sheetName string) (*models.TableData, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	maxCol := 0
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}
	if maxCol == 0 {
		return nil, nil
	}

	headerRow := -1
	var headers []string
	for i, row := range rows {
		if len(row) == maxCol && !anyEmpty(row) {
			headerRow = i
			headers = append([]string(nil), row...)
			break
		}
	}
	if headerRow < 0 {
		return nil, nil
	}

	var data [][]interface{}
	lastRow := headerRow
	for i := headerRow + 1; i < len(rows); i++ {
		if allEmpty(rows[i]) {
			continue
		}
		rec := make([]interface{}, len(headers))
		for c := range headers {
			if c < len(rows[i]) && rows[i][c] != "" {
				rec[c] = parseValue(rows[i][c])
			}
		}
		data = append(data, rec)
		lastRow = i
	}
	if len(data) == 0 {
		return nil, nil
	}

	startRef, _ := excelize.CoordinatesToCellName(1, headerRow+1)
	endRef, _ := excelize.CoordinatesToCellName(maxCol, lastRow+1)

	return &models.TableData{
		Key:     lookup.CanonicalKey(sheetName),
		Sheet:   sheetName,
		Range:   startRef + ":" + endRef,
		Headers: headers,
		Rows:    data,
	}, nil
}

func anyEmpty(row []string) bool {
	for _, v := range row {
		if v == "" {
			return true
		}
	}
	return false
}

func allEmpty(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
