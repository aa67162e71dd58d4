package parser

import "strings"

// ClassifySheet identifies the sheet role from its name, matching the
// naming conventions of the estimating workbook.
func ClassifySheet(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "measure"):
		switch {
		case strings.Contains(lower, "ext"):
			return "exterior_measurement"
		case strings.Contains(lower, "int"):
			return "interior_measurement"
		case strings.Contains(lower, "cabinet"):
			return "cabinet_measurement"
		case strings.Contains(lower, "holiday"):
			return "holiday_measurement"
		default:
			return "measurement"
		}
	case strings.Contains(lower, "formula"), strings.Contains(lower, "pricing"):
		return "calculation"
	case strings.Contains(lower, "crew"):
		return "crew_assignment"
	case strings.Contains(lower, "checklist"):
		return "checklist"
	case strings.Contains(lower, "client"):
		return "client_info"
	case strings.Contains(lower, "how to"):
		return "instructions"
	default:
		return "other"
	}
}
