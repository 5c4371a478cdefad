package irradiance

import (
	"context"
	"math"
	"time"

	"github.com/helioplan/helioplan/pkg/types"
)

// regionalBand holds long-term-average daily horizontal irradiation
// (kWh/m²/day) per month for a latitude band, southern-hemisphere seasons.
// Northern-hemisphere lookups shift the profile by six months.
type regionalBand struct {
	maxAbsLatitude float64
	daily          [12]float64
}

// regionalBands are coarse climatological averages, ordered by |latitude|.
// The first matching band wins.
var regionalBands = []regionalBand{
	// equatorial: nearly flat seasonality
	{10, [12]float64{5.4, 5.3, 5.2, 5.0, 4.9, 4.8, 5.0, 5.4, 5.6, 5.6, 5.6, 5.5}},
	// tropical
	{20, [12]float64{5.9, 5.8, 5.4, 4.9, 4.3, 4.0, 4.2, 4.8, 5.2, 5.6, 5.9, 6.0}},
	// subtropical
	{30, [12]float64{6.3, 5.9, 5.2, 4.3, 3.5, 3.1, 3.3, 4.0, 4.8, 5.5, 6.1, 6.4}},
	// temperate
	{45, [12]float64{6.5, 5.8, 4.7, 3.5, 2.6, 2.2, 2.4, 3.2, 4.2, 5.3, 6.1, 6.6}},
	// high latitude
	{60, [12]float64{6.0, 5.0, 3.6, 2.3, 1.4, 1.0, 1.2, 1.9, 3.0, 4.3, 5.4, 6.1}},
	// polar
	{90, [12]float64{4.5, 3.3, 2.0, 0.9, 0.3, 0.1, 0.2, 0.6, 1.5, 2.8, 3.9, 4.6}},
}

// RegionalTable is the static fallback source. It never fails, so it
// terminates every fallback chain successfully.
type RegionalTable struct {
	now func() time.Time
}

// NewRegionalTable creates the static fallback provider.
func NewRegionalTable() *RegionalTable {
	return &RegionalTable{now: time.Now}
}

// Source implements Provider.
func (r *RegionalTable) Source() types.IrradiationSource {
	return types.SourceRegionalEstimate
}

// Fetch implements Provider. It always succeeds.
func (r *RegionalTable) Fetch(_ context.Context, coords types.Coordinates, tiltDeg, azimuthDeg float64) (types.IrradiationDataset, error) {
	absLat := math.Abs(coords.LatitudeDeg)
	band := regionalBands[len(regionalBands)-1]
	for _, b := range regionalBands {
		if absLat <= b.maxAbsLatitude {
			band = b
			break
		}
	}

	// the table is southern-hemisphere seasonal; shift northern lookups by
	// half a year
	shift := 0
	if coords.LatitudeDeg > 0 {
		shift = 6
	}

	factor := tiltFactor(coords.LatitudeDeg, tiltDeg, azimuthDeg)
	d := types.IrradiationDataset{
		Source:      types.SourceRegionalEstimate,
		GeneratedAt: r.now(),
	}
	for i := 0; i < 12; i++ {
		daily := band.daily[(i+shift)%12]
		d.MonthlyKWHPerM2[i] = daily * daysInMonth[i] * factor
	}
	d.AnnualKWHPerM2 = d.MonthlySum()
	return d, nil
}
