package tariff

import (
	"math"

	"github.com/helioplan/helioplan/pkg/types"
)

// groupBCost bills a low-voltage unit. Credits offset consumption 1:1; the
// wire-usage charge on compensated energy is not offsettable. The
// availability floor keeps the billed energy at the connection minimum.
func groupBCost(t *types.GroupBTariff, month int, generationKWH, fraction float64) float64 {
	consumption := t.MonthlyConsumptionKWH[month]
	compensated := math.Min(consumption, generationKWH)
	billed := consumption - compensated
	if t.AvailabilityFloorKWH > 0 && billed < t.AvailabilityFloorKWH {
		billed = t.AvailabilityFloorKWH
	}
	return billed*t.EnergyTariff + compensated*t.WireTariff*fraction
}

// groupAGreenCost bills a green-flag unit: per-band energy with credits
// applied separately within each band, plus the single contracted-demand
// charge, which credits never offset.
func groupAGreenCost(t *types.GroupAGreenTariff, month int, generationKWH, fraction float64) float64 {
	share := t.PeakGenerationShare
	if share == 0 {
		share = defaultPeakGenerationShare
	}
	peakGen := generationKWH * share
	offPeakGen := generationKWH - peakGen

	cost := bandCost(t.PeakConsumptionKWH[month], peakGen, t.PeakTariff, t.PeakWireTariff, fraction)
	cost += bandCost(t.OffPeakConsumptionKWH[month], offPeakGen, t.OffPeakTariff, t.OffPeakWireTariff, fraction)
	cost += t.ContractedDemandKW * t.DemandTariff
	return cost
}

// groupABlueCost bills a blue-flag unit. Identical band treatment to green,
// but demand is contracted and billed per band.
func groupABlueCost(t *types.GroupABlueTariff, month int, generationKWH, fraction float64) float64 {
	share := t.PeakGenerationShare
	if share == 0 {
		share = defaultPeakGenerationShare
	}
	peakGen := generationKWH * share
	offPeakGen := generationKWH - peakGen

	cost := bandCost(t.PeakConsumptionKWH[month], peakGen, t.PeakTariff, t.PeakWireTariff, fraction)
	cost += bandCost(t.OffPeakConsumptionKWH[month], offPeakGen, t.OffPeakTariff, t.OffPeakWireTariff, fraction)
	cost += t.ContractedDemandPeakKW * t.DemandTariffPeak
	cost += t.ContractedDemandOffPeakKW * t.DemandTariffOffPeak
	return cost
}
