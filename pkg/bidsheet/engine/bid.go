package engine

import (
	"github.com/shopspring/decimal"

	"github.com/quotewell/bidsheet-go/pkg/bidsheet/formula"
)

// Measurements are the field inputs for an exterior bid. Nil margins
// fall back to the configured defaults.
type Measurements struct {
	// BodySqft is the measured body surface in square feet.
	BodySqft float64 `json:"body_sqft"`
	// TrimLinearFt is the measured trim length in linear feet.
	TrimLinearFt float64 `json:"trim_linear_ft"`
	// VinylPositive marks vinyl siding, which takes the higher
	// coverage divisor.
	VinylPositive bool `json:"vinyl_positive"`
	// Margin1 is the first-tier margin fraction, nil for the default.
	Margin1 *float64 `json:"margin1,omitempty"`
	// Margin2 is the second-tier margin fraction, nil for the default.
	Margin2 *float64 `json:"margin2,omitempty"`
}

// BreakdownLine is one component of a bid cost breakdown.
type BreakdownLine struct {
	// Quantity is the measured input (sqft or linear ft).
	Quantity decimal.Decimal `json:"quantity"`
	// Gallons is the derived paint quantity, rounded to 1 place.
	Gallons decimal.Decimal `json:"gallons"`
	// Cost is the component material cost, rounded to 2 places.
	Cost decimal.Decimal `json:"cost"`
}

// BidResult is a complete exterior bid: headline numbers plus the
// per-component breakdown.
type BidResult struct {
	Measurements Measurements `json:"measurements"`
	// PaintGallons is total paint, rounded to 1 place.
	PaintGallons decimal.Decimal `json:"paint_gallons"`
	// LaborHours is total labor, rounded to 1 place.
	LaborHours decimal.Decimal `json:"labor_hours"`
	// MaterialCost, LaborCost, and Subtotal are rounded to 2 places.
	MaterialCost decimal.Decimal `json:"material_cost"`
	LaborCost    decimal.Decimal `json:"labor_cost"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	// Total is the subtotal with both margin tiers applied.
	Total decimal.Decimal `json:"total"`
	// Body and Trim break the material cost down by component.
	Body BreakdownLine `json:"body"`
	Trim BreakdownLine `json:"trim"`
}

// CalculateExteriorBid prices a complete exterior job from
// measurements, using the configured rates and the imported labor
// rate table when present.
func (e *Engine) CalculateExteriorBid(m Measurements) (*BidResult, error) {
	rc := e.rates

	coverage := rc.StandardCoverageSqft
	if m.VinylPositive {
		coverage = rc.VinylCoverageSqft
	}

	body := decimal.NewFromFloat(m.BodySqft)
	trim := decimal.NewFromFloat(m.TrimLinearFt)
	paintCost := decimal.NewFromFloat(rc.PaintCostPerGallon)

	bodyGallons := body.Div(decimal.NewFromFloat(coverage))
	trimGallons := trim.Div(decimal.NewFromFloat(rc.TrimFeetPerGallon))

	laborRate := e.laborRate()
	laborHours := body.Div(decimal.NewFromFloat(rc.SqftPerLaborHour))

	materialCost := bodyGallons.Add(trimGallons).Mul(paintCost)
	laborCost := laborHours.Mul(laborRate)
	subtotal := materialCost.Add(laborCost)

	margin1 := rc.DefaultMargin1
	if m.Margin1 != nil {
		margin1 = *m.Margin1
	}
	margin2 := rc.DefaultMargin2
	if m.Margin2 != nil {
		margin2 = *m.Margin2
	}
	total, err := ApplyTwoTierMargin(subtotal, margin1, margin2)
	if err != nil {
		return nil, err
	}

	return &BidResult{
		Measurements: m,
		PaintGallons: bodyGallons.Add(trimGallons).Round(1),
		LaborHours:   laborHours.Round(1),
		MaterialCost: materialCost.Round(2),
		LaborCost:    laborCost.Round(2),
		Subtotal:     subtotal.Round(2),
		Total:        total,
		Body: BreakdownLine{
			Quantity: body,
			Gallons:  bodyGallons.Round(1),
			Cost:     bodyGallons.Mul(paintCost).Round(2),
		},
		Trim: BreakdownLine{
			Quantity: trim,
			Gallons:  trimGallons.Round(1),
			Cost:     trimGallons.Mul(paintCost).Round(2),
		},
	}, nil
}

// laborRate consults the imported labor rate table, falling back to
// the configured default when the table or key is absent.
func (e *Engine) laborRate() decimal.Decimal {
	fallback := decimal.NewFromFloat(e.rates.DefaultLaborRate)
	t, ok := e.tables.Resolve(e.rates.LaborRateTable)
	if !ok {
		return fallback
	}
	v, ok := t.Match(e.rates.LaborRateKey, 2, true)
	if !ok {
		return fallback
	}
	d, err := formula.ToDecimal(v)
	if err != nil {
		return fallback
	}
	return d
}
