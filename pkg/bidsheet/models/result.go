package models

// TraceEntry records one sub-expression evaluation in evaluation order.
type TraceEntry struct {
	// Expr is the canonical text of the evaluated sub-expression.
	Expr string `json:"expr"`
	// Value is the evaluated result rendered as a string.
	Value string `json:"value"`
}

// CalculationResult is the outcome of evaluating one formula against a
// caller-supplied input snapshot. Failures are captured here rather
// than raised, so batch evaluations survive individual bad formulas.
type CalculationResult struct {
	// FormulaName is the "Sheet!Ref" key of the evaluated formula.
	FormulaName string `json:"formula_name"`
	// Inputs is the input snapshot the evaluation started from.
	Inputs map[string]interface{} `json:"inputs"`
	// Trace lists sub-expression evaluations in order.
	Trace []TraceEntry `json:"calculation_trace,omitempty"`
	// Intermediates maps dependency formula keys to their computed
	// values for this evaluation.
	Intermediates map[string]interface{} `json:"intermediate_values,omitempty"`
	// FinalResult is the final value, nil on failure.
	FinalResult interface{} `json:"final_result"`
	// Error holds the failure message when the evaluation failed.
	Error string `json:"error,omitempty"`
	// ElapsedMS is the wall-clock evaluation time in milliseconds.
	ElapsedMS float64 `json:"execution_time_ms"`
}

// Failed reports whether the evaluation ended in the failed state.
func (r *CalculationResult) Failed() bool {
	return r.Error != ""
}

// ImportSummary reports what an import produced, including per-item
// failures. Failed sheets and formulas are always listed, never
// silently dropped.
type ImportSummary struct {
	// SourceFile is the imported workbook path.
	SourceFile string `json:"source_file"`
	// SheetCount is the number of sheets in the workbook.
	SheetCount int `json:"sheet_count"`
	// FormulaCount is the number of formula definitions produced.
	FormulaCount int `json:"formula_count"`
	// LookupCount is the number of lookup tables registered.
	LookupCount int `json:"lookup_count"`
	// FieldCount is the number of input fields detected.
	FieldCount int `json:"field_count"`
	// SkippedSheets lists sheets that failed to parse and were skipped.
	SkippedSheets []string `json:"skipped_sheets,omitempty"`
	// UntranslatedFormulas lists formula keys stored raw for manual
	// review after a translation failure.
	UntranslatedFormulas []string `json:"untranslated_formulas,omitempty"`
}
