// Package lookup builds and serves the named lookup tables derived
// from hidden pricing sheets and VLOOKUP call sites.
package lookup

import (
	"fmt"
	"strings"
)

// Table is one named lookup table: an ordered header row and ordered
// data rows. Tables are immutable after the import step and may be
// shared by reference across concurrent evaluations.
type Table struct {
	// Name is the unique canonical table key.
	Name string `json:"name"`
	// Sheet is the originating sheet name.
	Sheet string `json:"sheet"`
	// Range is the originating data range in A1 notation.
	Range string `json:"range,omitempty"`
	// Headers is the ordered header row.
	Headers []string `json:"headers"`
	// Rows contains the ordered data rows in file order.
	Rows [][]interface{} `json:"rows"`
	// Composite marks tables whose lookup key concatenates the first
	// columns with single spaces.
	Composite bool `json:"composite_key"`
	// KeyFormat is the composite key template, e.g. "{Type} {Grade}".
	KeyFormat string `json:"key_format,omitempty"`
}

// Match looks up key in the table's first column and returns the value
// from the 1-based colIndex column of the matching row. Exact match
// compares stringified keys for equality. Approximate match, the
// spreadsheet default, scans rows in file order and returns the last
// row whose key is lexicographically <= the query; it assumes the
// column is sorted ascending and is undefined otherwise. ok is false
// when no row matches or colIndex is out of range.
func (t *Table) Match(key string, colIndex int, exact bool) (interface{}, bool) {
	if colIndex < 1 {
		return nil, false
	}
	var found []interface{}
	for _, row := range t.Rows {
		if len(row) == 0 {
			continue
		}
		rowKey := stringify(row[0])
		if exact {
			if rowKey == key {
				found = row
				break
			}
			continue
		}
		if rowKey <= key {
			found = row
		}
	}
	if found == nil || colIndex > len(found) {
		return nil, false
	}
	return found[colIndex-1], true
}

func stringify(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// CanonicalKey derives the canonical lookup-table key from a sheet
// name: trailing "Sheet"/"Table" words dropped, spaces to underscores,
// lowercased.
func CanonicalKey(sheetName string) string {
	key := strings.TrimSpace(sheetName)
	key = strings.TrimSuffix(key, " Sheet")
	key = strings.TrimSuffix(key, " Table")
	key = strings.ReplaceAll(key, " ", "_")
	return strings.ToLower(key)
}

// compositeLeaders is the closed set of first-header labels that mark
// a multi-column table as composite-keyed.
var compositeLeaders = map[string]struct{}{
	"Type":     {},
	"Category": {},
	"Item":     {},
}

// DetectCompositeKey returns the composite key format for header rows
// that match the category-led pattern, or "" for single-key tables.
func DetectCompositeKey(headers []string) string {
	if len(headers) <= 2 {
		return ""
	}
	if _, ok := compositeLeaders[headers[0]]; !ok {
		return ""
	}
	return fmt.Sprintf("{%s} {%s}", headers[0], headers[1])
}
