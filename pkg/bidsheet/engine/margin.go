package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidMargin rejects a margin fraction of 100% or more before
// any computation happens.
var ErrInvalidMargin = errors.New("invalid margin")

var one = decimal.NewFromInt(1)

// ApplyTwoTierMargin applies the workbook's two-tier margin formula:
//
//	final_price = base_cost / (1 - margin1) / (1 - margin2)
//
// rounded to 2 decimal places. Each margin must be strictly less
// than 1.
func ApplyTwoTierMargin(baseCost decimal.Decimal, margin1, margin2 float64) (decimal.Decimal, error) {
	if margin1 >= 1 || margin2 >= 1 {
		return decimal.Zero, fmt.Errorf("%w: margin cannot be 100%% or greater", ErrInvalidMargin)
	}
	price := baseCost.Div(one.Sub(decimal.NewFromFloat(margin1)))
	price = price.Div(one.Sub(decimal.NewFromFloat(margin2)))
	return price.Round(2), nil
}

// WithinTolerance reports whether actual matches expected within a
// relative tolerance fraction. An expected value of exactly zero
// requires the actual value to be exactly zero.
func WithinTolerance(expected, actual decimal.Decimal, tolerance float64) bool {
	if expected.IsZero() {
		return actual.IsZero()
	}
	diff := expected.Sub(actual).Abs()
	relative := diff.Div(expected.Abs())
	return relative.Cmp(decimal.NewFromFloat(tolerance)) <= 0
}

// DefaultTolerance is the default relative tolerance for validating
// computed results against workbook results.
const DefaultTolerance = 0.01
