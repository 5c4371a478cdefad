// Package finance runs the year-by-year cash-flow simulation of a PV
// system and derives NPV, IRR, payback, sensitivity curves and named
// scenarios.
package finance

import (
	"fmt"
	"math"

	"github.com/helioplan/helioplan/pkg/tariff"
	"github.com/helioplan/helioplan/pkg/types"
)

// Simulate runs the cash-flow state machine over years 1..UsefulLifeYears.
// Year 1 uses the input monthly generation; later years degrade it by
// (1-degradation)^(n-1). Tariffs inflate as tariff(1)*(1+inflation)^(n-1)
// and each year's energy cost with and without the system goes through the
// tariff engine.
//
// Degenerate cash flows are valid outcomes: zero generation still produces
// a well-formed result with a negative NPV, a nil IRR and nil paybacks.
func Simulate(cfg types.FinancialConfiguration, monthlyGeneration [12]float64) (*types.FinancialResult, error) {
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	years := cfg.UsefulLifeYears
	degradation := cfg.ModuleDegradationPctPerYear / 100
	inflation := cfg.EnergyInflationPct / 100
	oamInflation := cfg.OAndMInflationPct / 100
	discount := cfg.DiscountRatePct / 100

	var annualGen float64
	for _, m := range monthlyGeneration {
		annualGen += m
	}

	result := &types.FinancialResult{
		NPV:      -cfg.InitialInvestment,
		CashFlow: make([]types.CashFlowEntry, 0, years),
	}
	flows := make([]float64, 0, years+1)
	flows = append(flows, -cfg.InitialInvestment)

	cumulative := -cfg.InitialInvestment
	cumulativePV := -cfg.InitialInvestment
	var totalSavings, totalNet, discountedOAndM, discountedGen float64

	for year := 1; year <= years; year++ {
		degFactor := math.Pow(1-degradation, float64(year-1))
		var degraded [12]float64
		for m := range monthlyGeneration {
			degraded[m] = monthlyGeneration[m] * degFactor
		}

		inflFactor := math.Pow(1+inflation, float64(year-1))
		scaled := tariff.ScaleTariffs(cfg.ConsumerGroup, inflFactor)
		calendarYear := cfg.StartYear + year - 1

		costWithout, err := tariff.AnnualCost(scaled, cfg.FioBSchedule, nil, calendarYear)
		if err != nil {
			return nil, fmt.Errorf("year %d baseline cost: %w", year, err)
		}
		costWith, err := tariff.AnnualCost(scaled, cfg.FioBSchedule, &degraded, calendarYear)
		if err != nil {
			return nil, fmt.Errorf("year %d system cost: %w", year, err)
		}

		savings := costWithout - costWith
		oam := cfg.OAndMCostInitial * math.Pow(1+oamInflation, float64(year-1))
		net := savings - oam
		discountFactor := math.Pow(1+discount, float64(year))
		pv := net / discountFactor

		prevCumulative := cumulative
		cumulative += net
		prevCumulativePV := cumulativePV
		cumulativePV += pv

		result.NPV += pv
		flows = append(flows, net)
		totalSavings += savings
		totalNet += net
		discountedOAndM += oam / discountFactor
		discountedGen += annualGen * degFactor / discountFactor

		if result.PaybackSimpleYears == nil && cumulative >= 0 {
			p := float64(year)
			if net > 0 {
				p = float64(year-1) - prevCumulative/net
			}
			result.PaybackSimpleYears = &p
		}
		if result.PaybackDiscountedYears == nil && cumulativePV >= 0 {
			p := float64(year)
			if pv > 0 {
				p = float64(year-1) - prevCumulativePV/pv
			}
			result.PaybackDiscountedYears = &p
		}

		result.CashFlow = append(result.CashFlow, types.CashFlowEntry{
			Year:               year,
			GrossGenerationKWH: annualGen * degFactor,
			EnergySavings:      savings,
			OAndMCost:          oam,
			NetCashFlow:        net,
			CumulativeCashFlow: cumulative,
			PresentValue:       pv,
		})
	}

	if irr, err := InternalRateOfReturn(flows); err == nil {
		pct := irr * 100
		result.IRRPct = &pct
	}

	result.Indicators = types.Indicators{
		TotalLifetimeSavings: totalSavings,
		AverageAnnualSavings: totalSavings / float64(years),
	}
	if discountedGen > 0 {
		result.Indicators.LCOE = (cfg.InitialInvestment + discountedOAndM) / discountedGen
	}
	if cfg.InitialInvestment > 0 {
		result.Indicators.ROIPct = (totalNet - cfg.InitialInvestment) / cfg.InitialInvestment * 100
	}

	return result, nil
}
