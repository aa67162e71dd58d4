package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RateConfig holds the bid business constants the workbook hard-codes
// in its hidden sheets. Values are overridable from a YAML file so
// pricing changes do not require a re-import.
type RateConfig struct {
	// PaintCostPerGallon is the material cost per gallon.
	PaintCostPerGallon float64 `yaml:"paint_cost_per_gallon"`
	// VinylCoverageSqft is the body coverage divisor for vinyl siding.
	VinylCoverageSqft float64 `yaml:"vinyl_coverage_sqft"`
	// StandardCoverageSqft is the default body coverage divisor.
	StandardCoverageSqft float64 `yaml:"standard_coverage_sqft"`
	// TrimFeetPerGallon is the trim coverage in linear feet per gallon.
	TrimFeetPerGallon float64 `yaml:"trim_feet_per_gallon"`
	// SqftPerLaborHour is labor productivity in square feet per hour.
	SqftPerLaborHour float64 `yaml:"sqft_per_labor_hour"`
	// LaborRateTable is the lookup table consulted for the hourly
	// labor rate.
	LaborRateTable string `yaml:"labor_rate_table"`
	// LaborRateKey is the lookup key within LaborRateTable.
	LaborRateKey string `yaml:"labor_rate_key"`
	// DefaultLaborRate is the hourly rate used when the lookup table
	// is absent.
	DefaultLaborRate float64 `yaml:"default_labor_rate"`
	// DefaultMargin1 is the first-tier margin fraction.
	DefaultMargin1 float64 `yaml:"default_margin1"`
	// DefaultMargin2 is the second-tier margin fraction.
	DefaultMargin2 float64 `yaml:"default_margin2"`
}

// DefaultRates returns the constants as they appear in the source
// workbook.
func DefaultRates() RateConfig {
	return RateConfig{
		PaintCostPerGallon:   45,
		VinylCoverageSqft:    400,
		StandardCoverageSqft: 350,
		TrimFeetPerGallon:    100,
		SqftPerLaborHour:     200,
		LaborRateTable:       "labor_rates",
		LaborRateKey:         "exterior_labor",
		DefaultLaborRate:     55,
		DefaultMargin1:       0.25,
		DefaultMargin2:       0.15,
	}
}

// LoadRates reads a YAML rate file over the compiled-in defaults, so
// a partial file only overrides what it names.
func LoadRates(path string) (RateConfig, error) {
	rc := DefaultRates()
	data, err := os.ReadFile(path)
	if err != nil {
		return rc, fmt.Errorf("read rates: %w", err)
	}
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return rc, fmt.Errorf("parse rates: %w", err)
	}
	return rc, nil
}
