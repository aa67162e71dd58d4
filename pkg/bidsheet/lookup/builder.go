package lookup

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/quotewell/bidsheet-go/pkg/bidsheet/models"
)

// vlookupCallPattern captures the table reference and column index of
// a VLOOKUP call site; the lookup-key argument is skipped.
var vlookupCallPattern = regexp.MustCompile(`(?i)VLOOKUP\s*\([^,]+,\s*([^,)]+),\s*(\d+)`)

// Build assembles the registry from extracted hidden-sheet tables and
// the full formula set. Every VLOOKUP call site contributes a usage
// record keyed by its raw table-reference text.
func Build(tables []models.TableData, formulas map[string]*models.FormulaDefinition) *Registry {
	r := NewRegistry()

	for _, td := range tables {
		r.Register(&Table{
			Name:    td.Key,
			Sheet:   td.Sheet,
			Range:   td.Range,
			Headers: td.Headers,
			Rows:    td.Rows,
		})
	}

	for key, def := range formulas {
		for _, m := range vlookupCallPattern.FindAllStringSubmatch(def.Formula, -1) {
			tableRef := strings.TrimSpace(m[1])
			colIndex, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			r.RecordUse(tableRef, key, colIndex)
		}
	}

	return r
}
