package types

import (
	"math"
	"time"
)

// IrradiationSource identifies where a dataset came from.
type IrradiationSource string

const (
	// SourcePrimarySatellite is the satellite-derived solar atlas, our
	// preferred source when it is reachable.
	SourcePrimarySatellite IrradiationSource = "solar_atlas"
	// SourceGlobalReanalysis is the NASA POWER reanalysis climatology.
	SourceGlobalReanalysis IrradiationSource = "nasa_power"
	// SourceRegionalEstimate is the built-in latitude-band table. It never
	// fails and terminates every fallback chain.
	SourceRegionalEstimate IrradiationSource = "regional_table"
)

// IrradiationDataset holds normalized monthly irradiation for one
// coordinate/orientation. Monthly values are kWh/m² per month, January first.
type IrradiationDataset struct {
	Source          IrradiationSource `json:"source"`
	MonthlyKWHPerM2 [12]float64       `json:"monthlyKWHPerM2"`
	AnnualKWHPerM2  float64           `json:"annualKWHPerM2"`
	GeneratedAt     time.Time         `json:"generatedAt"`
}

// MonthlySum returns the sum of the monthly values. A mismatch against
// AnnualKWHPerM2 beyond 5% is a quality signal, not a hard error.
func (d IrradiationDataset) MonthlySum() float64 {
	var sum float64
	for _, m := range d.MonthlyKWHPerM2 {
		sum += m
	}
	return sum
}

// AnnualMismatch returns |sum(monthly)-annual|/annual, or 0 when annual is 0.
func (d IrradiationDataset) AnnualMismatch() float64 {
	if d.AnnualKWHPerM2 == 0 {
		return 0
	}
	return math.Abs(d.MonthlySum()-d.AnnualKWHPerM2) / d.AnnualKWHPerM2
}

// DataQuality is the derived assessment of a dataset. It is never persisted.
type DataQuality struct {
	IsValid         bool     `json:"isValid"`
	Warnings        []string `json:"warnings,omitempty"`
	ConfidenceScore int      `json:"confidenceScore"`
}
