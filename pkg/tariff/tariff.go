// Package tariff encodes the region's net-metering billing rules: the
// progressive wire-usage ("fio B") charge schedule, the consumer-group
// tariff shapes, and remote self-consumption allocation.
package tariff

import (
	"fmt"
	"math"

	"github.com/helioplan/helioplan/pkg/types"
)

// defaultPeakGenerationShare is the fraction of monthly generation credited
// to the peak band when a Group A config doesn't specify one. Fixed-tilt PV
// generates mostly outside the evening peak.
const defaultPeakGenerationShare = 0.15

// MonthlyCost computes the consumer's bill for one month (0-11 = Jan-Dec)
// of the given calendar year, with generationKWH of PV energy available for
// compensation. Consumption comes from the config's own monthly vectors.
// Passing generationKWH=0 yields the cost without the system.
//
// When a remote self-consumption sub-config is present, its share of the
// surplus generation is allocated to the remote unit before the primary
// meter's credit calculation, and the remote unit's own bill is included in
// the returned cost.
func MonthlyCost(cfg types.ConsumerGroupConfig, schedule types.FioBSchedule, month int, generationKWH float64, year int) (float64, error) {
	if month < 0 || month > 11 {
		return 0, fmt.Errorf("month %d out of [0,11]", month)
	}
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if generationKWH < 0 {
		generationKWH = 0
	}

	fraction := schedule.FractionFor(year)

	primaryGen := generationKWH
	var remoteGen float64
	if cfg.Remote != nil {
		surplus := generationKWH - variantConsumption(cfg.TariffVariant, month)
		if surplus > 0 {
			remoteGen = surplus * cfg.Remote.AllocationPct / 100
			primaryGen = generationKWH - remoteGen
		}
	}

	cost, err := variantCost(cfg.TariffVariant, month, primaryGen, fraction)
	if err != nil {
		return 0, err
	}
	if cfg.Remote != nil {
		remoteCost, err := variantCost(cfg.Remote.TariffVariant, month, remoteGen, fraction)
		if err != nil {
			return 0, fmt.Errorf("remote: %w", err)
		}
		cost += remoteCost
	}
	return cost, nil
}

// AnnualCost sums MonthlyCost over the twelve months of a calendar year.
// monthlyGeneration may be nil for the no-system baseline.
func AnnualCost(cfg types.ConsumerGroupConfig, schedule types.FioBSchedule, monthlyGeneration *[12]float64, year int) (float64, error) {
	var total float64
	for m := 0; m < 12; m++ {
		var gen float64
		if monthlyGeneration != nil {
			gen = monthlyGeneration[m]
		}
		cost, err := MonthlyCost(cfg, schedule, m, gen, year)
		if err != nil {
			return 0, err
		}
		total += cost
	}
	return total, nil
}

// variantConsumption returns the total consumption of a variant for a month.
func variantConsumption(v types.TariffVariant, month int) float64 {
	switch {
	case v.GroupB != nil:
		return v.GroupB.MonthlyConsumptionKWH[month]
	case v.GroupAGreen != nil:
		return v.GroupAGreen.PeakConsumptionKWH[month] + v.GroupAGreen.OffPeakConsumptionKWH[month]
	case v.GroupABlue != nil:
		return v.GroupABlue.PeakConsumptionKWH[month] + v.GroupABlue.OffPeakConsumptionKWH[month]
	}
	return 0
}

// variantCost dispatches on the tagged union. fraction is the chargeable
// share of the wire tariff on compensated energy for the year; the phase-in
// applies to every net-metered consumer group.
func variantCost(v types.TariffVariant, month int, generationKWH, fraction float64) (float64, error) {
	switch {
	case v.GroupB != nil:
		return groupBCost(v.GroupB, month, generationKWH, fraction), nil
	case v.GroupAGreen != nil:
		return groupAGreenCost(v.GroupAGreen, month, generationKWH, fraction), nil
	case v.GroupABlue != nil:
		return groupABlueCost(v.GroupABlue, month, generationKWH, fraction), nil
	}
	return 0, fmt.Errorf("%w: %q", types.ErrUnsupportedConsumerGroup, v.Group)
}

// bandCost bills one time band: credits offset consumption 1:1 within the
// band, compensated energy pays the wire tariff scaled by the schedule
// fraction.
func bandCost(consumptionKWH, generationKWH, energyTariff, wireTariff, fraction float64) float64 {
	compensated := math.Min(consumptionKWH, generationKWH)
	billed := consumptionKWH - compensated
	return billed*energyTariff + compensated*wireTariff*fraction
}

// ScaleTariffs returns a deep copy of the config with every energy, wire
// and demand tariff multiplied by factor. The simulator uses this to apply
// energy inflation; consumption vectors and shares are untouched.
func ScaleTariffs(cfg types.ConsumerGroupConfig, factor float64) types.ConsumerGroupConfig {
	cfg.TariffVariant = scaleVariant(cfg.TariffVariant, factor)
	if cfg.Remote != nil {
		remote := *cfg.Remote
		remote.TariffVariant = scaleVariant(remote.TariffVariant, factor)
		cfg.Remote = &remote
	}
	return cfg
}

func scaleVariant(v types.TariffVariant, factor float64) types.TariffVariant {
	switch {
	case v.GroupB != nil:
		b := *v.GroupB
		b.EnergyTariff *= factor
		b.WireTariff *= factor
		v.GroupB = &b
	case v.GroupAGreen != nil:
		g := *v.GroupAGreen
		g.PeakTariff *= factor
		g.OffPeakTariff *= factor
		g.PeakWireTariff *= factor
		g.OffPeakWireTariff *= factor
		g.DemandTariff *= factor
		v.GroupAGreen = &g
	case v.GroupABlue != nil:
		b := *v.GroupABlue
		b.PeakTariff *= factor
		b.OffPeakTariff *= factor
		b.PeakWireTariff *= factor
		b.OffPeakWireTariff *= factor
		b.DemandTariffPeak *= factor
		b.DemandTariffOffPeak *= factor
		v.GroupABlue = &b
	}
	return v
}
