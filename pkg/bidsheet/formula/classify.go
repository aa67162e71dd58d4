package formula

import "strings"

// Classify assigns the formula kind tag used on stored definitions:
// lookup, conditional, arithmetic, or other. Lookup wins over
// conditional when both appear, matching how the workbook's pricing
// formulas are audited.
func Classify(src string) string {
	upper := strings.ToUpper(src)
	switch {
	case strings.Contains(upper, "VLOOKUP("):
		return "lookup"
	case strings.Contains(upper, "IF(") || strings.Contains(upper, "IFERROR("):
		return "conditional"
	case strings.Contains(upper, "SUM(") ||
		strings.Contains(upper, "ROUND(") ||
		strings.ContainsAny(upper, "+-*/^"):
		return "arithmetic"
	default:
		return "other"
	}
}
