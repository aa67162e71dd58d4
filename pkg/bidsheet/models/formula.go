package models

// Formula kind tags assigned at import time.
const (
	KindLookup      = "lookup"
	KindConditional = "conditional"
	KindArithmetic  = "arithmetic"
	KindOther       = "other"
)

// FormulaDefinition is the persisted record of one translated workbook
// formula. It is created once per import and only replaced by a
// re-import of the source workbook.
type FormulaDefinition struct {
	// Name is the unique "Sheet!Ref" formula key.
	Name string `json:"name"`
	// Sheet is the source sheet name.
	Sheet string `json:"sheet"`
	// Ref is the source cell coordinate.
	Ref string `json:"ref"`
	// Formula is the raw formula text without the leading "=".
	Formula string `json:"formula"`
	// Kind classifies the formula: lookup, conditional, arithmetic, or
	// other.
	Kind string `json:"kind"`
	// Complexity is the audit score: +2 per function call, +3 times the
	// maximum nesting depth, +5 per conditional.
	Complexity int `json:"complexity"`
	// Hidden reports whether the formula came from a hidden sheet.
	Hidden bool `json:"hidden"`
	// NeedsReview is set when translation failed and the raw formula was
	// stored untranslated for manual review.
	NeedsReview bool `json:"needs_review,omitempty"`
	// Dependencies is the deduplicated, sorted set of "Sheet!Ref" keys
	// the formula reads.
	Dependencies []string `json:"dependencies,omitempty"`
}
