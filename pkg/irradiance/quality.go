package irradiance

import (
	"fmt"

	"github.com/helioplan/helioplan/pkg/types"
)

// Confidence baselines by source. Satellite data beats reanalysis beats the
// coarse regional table.
var sourceConfidence = map[types.IrradiationSource]int{
	types.SourcePrimarySatellite: 95,
	types.SourceGlobalReanalysis: 85,
	types.SourceRegionalEstimate: 70,
}

// plausibleMonthlyMaxKWHPerM2 is above anything measured on earth
// (~290 kWh/m²/month in the Atacama).
const plausibleMonthlyMaxKWHPerM2 = 320

// minValidConfidence is the score below which a dataset is flagged invalid.
const minValidConfidence = 40

// AssessQuality scores a dataset. Warnings lower confidence but never
// reject the dataset outright; a low-confidence dataset may still be used,
// flagged, by the caller.
func AssessQuality(d types.IrradiationDataset) types.DataQuality {
	score, ok := sourceConfidence[d.Source]
	if !ok {
		score = 50
	}
	var warnings []string

	if mismatch := d.AnnualMismatch(); mismatch > 0.05 {
		warnings = append(warnings, fmt.Sprintf("monthly sum deviates %.1f%% from annual total", mismatch*100))
		score -= 20
	}

	var zeroMonths int
	var implausible bool
	for _, m := range d.MonthlyKWHPerM2 {
		if m == 0 {
			zeroMonths++
		}
		if m > plausibleMonthlyMaxKWHPerM2 {
			implausible = true
		}
	}
	switch {
	case zeroMonths == 12:
		warnings = append(warnings, "all monthly values are zero")
		score -= 40
	case zeroMonths > 0:
		warnings = append(warnings, fmt.Sprintf("%d months report zero irradiation", zeroMonths))
		score -= 5 * zeroMonths
	}
	if implausible {
		warnings = append(warnings, "monthly irradiation exceeds plausible maximum")
		score -= 30
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return types.DataQuality{
		IsValid:         score >= minValidConfidence,
		Warnings:        warnings,
		ConfidenceScore: score,
	}
}
