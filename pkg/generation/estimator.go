package generation

import (
	"math"

	"github.com/helioplan/helioplan/pkg/types"
)

// midMonthDay is the representative day of year per month for the solar
// declination.
var midMonthDay = [12]int{17, 47, 75, 105, 135, 162, 198, 228, 258, 288, 318, 344}

// declinationDeg returns the solar declination for a day of year.
func declinationDeg(dayOfYear int) float64 {
	return 23.45 * math.Sin(toRad(360.0/365.0*float64(284+dayOfYear)))
}

// orientationFactors returns the per-month seasonal modulation of a fixed
// tilt. Each month has an ideal tilt |latitude - declination|; months where
// the fixed tilt matches it produce slightly more, months where it doesn't
// slightly less. The factors are normalized to mean 1 so they redistribute
// energy across the year without changing the annual total; the static
// orientation penalty lives in LossBreakdown.Orientation instead.
func orientationFactors(tiltDeg, latitudeDeg float64) [12]float64 {
	var raw [12]float64
	var sum float64
	for m := 0; m < 12; m++ {
		opt := math.Abs(latitudeDeg - declinationDeg(midMonthDay[m]))
		f := math.Cos(toRad(tiltDeg - opt))
		if f < 0.3 {
			f = 0.3
		}
		raw[m] = f
		sum += f
	}
	mean := sum / 12
	for m := range raw {
		raw[m] /= mean
	}
	return raw
}

// EstimateMonthly converts irradiation into monthly energy yield (kWh).
// For each month m:
//
//	generation[m] = irradiation[m] * nominalPowerW/1000 * (1-totalLoss) * orientationFactor[m]
//
// Loss components compose multiplicatively (see LossBreakdown.Total), so no
// single term can drive the result negative. All-zero irradiation yields
// all-zero generation, not an error.
func EstimateMonthly(dataset types.IrradiationDataset, params types.SystemParameters, losses types.LossBreakdown, coords types.Coordinates) [12]float64 {
	totalLoss := losses.Total()
	factors := orientationFactors(params.TiltDeg, coords.LatitudeDeg)
	kwp := params.NominalPowerW / 1000

	var monthly [12]float64
	for m, irr := range dataset.MonthlyKWHPerM2 {
		if irr <= 0 {
			continue
		}
		monthly[m] = irr * kwp * (1 - totalLoss) * factors[m]
	}
	return monthly
}

// EstimateAnnual sums a monthly yield vector.
func EstimateAnnual(monthly [12]float64) float64 {
	var sum float64
	for _, m := range monthly {
		sum += m
	}
	return sum
}
