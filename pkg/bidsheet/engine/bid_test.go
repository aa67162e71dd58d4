package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotewell/bidsheet-go/pkg/bidsheet"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/lookup"
)

func bidEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	reg := lookup.NewRegistry()
	reg.Register(&lookup.Table{
		Name:    "labor_rates",
		Sheet:   "Labor Rates Sheet",
		Headers: []string{"Key", "Rate"},
		Rows:    [][]interface{}{{"exterior_labor", 55.0}},
	})
	return New(&bidsheet.ImportResult{Tables: reg}, opts...)
}

func TestCalculateExteriorBid(t *testing.T) {
	e := bidEngine(t)

	res, err := e.CalculateExteriorBid(Measurements{
		BodySqft:     1000,
		TrimLinearFt: 200,
	})
	require.NoError(t, err)

	// body: 1000/350 gal, trim: 200/100 gal, paint $45/gal
	assert.Equal(t, "4.9", res.PaintGallons.String())
	assert.Equal(t, "218.57", res.MaterialCost.StringFixed(2))
	// labor: 1000/200 hours at $55/hour
	assert.Equal(t, "5", res.LaborHours.String())
	assert.Equal(t, "275.00", res.LaborCost.StringFixed(2))
	assert.Equal(t, "493.57", res.Subtotal.StringFixed(2))
	// margins 25% then 15%: subtotal / 0.75 / 0.85
	assert.Equal(t, "774.23", res.Total.StringFixed(2))

	assert.Equal(t, "2.9", res.Body.Gallons.String())
	assert.Equal(t, "128.57", res.Body.Cost.StringFixed(2))
	assert.Equal(t, "2", res.Trim.Gallons.String())
	assert.Equal(t, "90.00", res.Trim.Cost.StringFixed(2))
}

func TestCalculateExteriorBidVinylCoverage(t *testing.T) {
	e := bidEngine(t)

	standard, err := e.CalculateExteriorBid(Measurements{BodySqft: 800})
	require.NoError(t, err)
	vinyl, err := e.CalculateExteriorBid(Measurements{BodySqft: 800, VinylPositive: true})
	require.NoError(t, err)

	// Vinyl covers 400 sqft per gallon against the standard 350, so it
	// needs less paint for the same body.
	assert.Equal(t, "2", vinyl.Body.Gallons.String())
	assert.Equal(t, "2.3", standard.Body.Gallons.String())
	assert.True(t, vinyl.MaterialCost.LessThan(standard.MaterialCost))
}

func TestCalculateExteriorBidMarginOverrides(t *testing.T) {
	e := bidEngine(t)
	zero := 0.0

	res, err := e.CalculateExteriorBid(Measurements{
		BodySqft:     1000,
		TrimLinearFt: 200,
		Margin1:      &zero,
		Margin2:      &zero,
	})
	require.NoError(t, err)
	assert.Equal(t, "493.57", res.Total.StringFixed(2))

	bad := 1.0
	_, err = e.CalculateExteriorBid(Measurements{
		BodySqft: 1000,
		Margin1:  &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidMargin)
}

func TestCalculateExteriorBidFallbackLaborRate(t *testing.T) {
	// No labor_rates table: the configured default applies.
	e := New(&bidsheet.ImportResult{})

	res, err := e.CalculateExteriorBid(Measurements{BodySqft: 200})
	require.NoError(t, err)
	assert.Equal(t, "55.00", res.LaborCost.StringFixed(2))
}

func TestLoadRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	content := []byte("paint_cost_per_gallon: 60\ndefault_margin1: 0.3\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	rc, err := LoadRates(path)
	require.NoError(t, err)

	// Named fields override, the rest keep their defaults.
	assert.Equal(t, 60.0, rc.PaintCostPerGallon)
	assert.Equal(t, 0.3, rc.DefaultMargin1)
	assert.Equal(t, 350.0, rc.StandardCoverageSqft)
	assert.Equal(t, "labor_rates", rc.LaborRateTable)
}

func TestLoadRatesMissingFile(t *testing.T) {
	rc, err := LoadRates(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	// Defaults still come back usable.
	assert.Equal(t, 45.0, rc.PaintCostPerGallon)
}

func TestWithRates(t *testing.T) {
	rc := DefaultRates()
	rc.PaintCostPerGallon = 50
	rc.TrimFeetPerGallon = 50
	e := bidEngine(t, WithRates(rc))

	res, err := e.CalculateExteriorBid(Measurements{TrimLinearFt: 100})
	require.NoError(t, err)
	assert.Equal(t, "2", res.Trim.Gallons.String())
	assert.Equal(t, "100.00", res.Trim.Cost.StringFixed(2))
}
