// Package formula translates workbook formula strings into executable
// expression trees and evaluates them with spreadsheet semantics.
package formula

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Value is a runtime formula value: decimal.Decimal, string, bool,
// []Value (a range), NotAvailable, or nil for an empty cell.
type Value = interface{}

// NotAvailable is the distinguished lookup-miss value, the analog of a
// spreadsheet #N/A. It flows through evaluation as a value, not an
// error, so a miss never aborts a whole calculation.
type NotAvailable struct{}

func (NotAvailable) String() string { return "#N/A" }

// IsNA reports whether v is the NotAvailable value.
func IsNA(v Value) bool {
	_, ok := v.(NotAvailable)
	return ok
}

// EvalError is a spreadsheet-style evaluation failure with an Excel
// error code.
type EvalError struct {
	// Code is the spreadsheet error code (e.g. "#DIV/0!").
	Code string
	// Msg describes the failure.
	Msg string
}

func (e *EvalError) Error() string {
	if e.Msg == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func errDiv0() error          { return &EvalError{Code: "#DIV/0!", Msg: "division by zero"} }
func errValue(m string) error { return &EvalError{Code: "#VALUE!", Msg: m} }
func errName(m string) error  { return &EvalError{Code: "#NAME?", Msg: m} }

// ToDecimal coerces a value to a fixed-precision decimal. Empty cells
// count as zero, booleans as 1/0.
func ToDecimal(v Value) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return x, nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case bool:
		if x {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero, errValue(fmt.Sprintf("not a number: %q", x))
		}
		return d, nil
	case NotAvailable:
		return decimal.Zero, &EvalError{Code: "#N/A", Msg: "value not available"}
	default:
		return decimal.Zero, errValue(fmt.Sprintf("cannot convert %T to number", v))
	}
}

// ToBool coerces a value to a condition result. Numbers are truthy
// when nonzero, strings when equal to "TRUE" ignoring case.
func ToBool(v Value) (bool, error) {
	switch x := v.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case string:
		switch strings.ToUpper(strings.TrimSpace(x)) {
		case "TRUE":
			return true, nil
		case "FALSE", "":
			return false, nil
		}
	case NotAvailable:
		return false, &EvalError{Code: "#N/A", Msg: "value not available"}
	}
	d, err := ToDecimal(v)
	if err != nil {
		return false, err
	}
	return !d.IsZero(), nil
}

// ToString renders a value the way the spreadsheet would display it in
// a concatenation: empty cells render empty, booleans as TRUE/FALSE,
// decimals without trailing zeros.
func ToString(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.String()
	case int64:
		return fmt.Sprintf("%d", x)
	case float64:
		return decimal.NewFromFloat(x).String()
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case NotAvailable:
		return "#N/A"
	default:
		return fmt.Sprint(x)
	}
}
