package finance

import (
	"github.com/helioplan/helioplan/pkg/tariff"
	"github.com/helioplan/helioplan/pkg/types"
)

// sensitivityMultipliers are the fixed perturbation points of each sweep:
// ±10% and ±20% around the base value.
var sensitivityMultipliers = [5]float64{0.8, 0.9, 1.0, 1.1, 1.2}

// scenarioShift is a predefined multiplier set over tariff, inflation and
// degradation.
type scenarioShift struct {
	tariff      float64
	inflation   float64
	degradation float64
}

// Scenario multipliers are chosen so higher tariffs and inflation only help
// and faster degradation only hurts, keeping the NPV ordering
// optimistic ≥ base ≥ conservative ≥ pessimistic.
var scenarioShifts = map[string]scenarioShift{
	"base":         {1, 1, 1},
	"optimistic":   {1.10, 1.10, 0.80},
	"conservative": {0.95, 0.95, 1.10},
	"pessimistic":  {0.80, 0.80, 1.25},
}

func shifted(cfg types.FinancialConfiguration, s scenarioShift) types.FinancialConfiguration {
	cfg.ConsumerGroup = tariff.ScaleTariffs(cfg.ConsumerGroup, s.tariff)
	cfg.EnergyInflationPct *= s.inflation
	cfg.ModuleDegradationPctPerYear *= s.degradation
	return cfg
}

// Analyze perturbs the key parameters of the configuration and re-runs the
// simulator: a pure sweep per parameter for the sensitivity curves, plus
// the four named scenarios. The base configuration itself is not modified.
func Analyze(cfg types.FinancialConfiguration, monthlyGeneration [12]float64) (*types.SensitivityAnalysis, *types.ScenarioSet, error) {
	cfg = cfg.Normalized()

	sensitivity := &types.SensitivityAnalysis{}
	for _, mult := range sensitivityMultipliers {
		// tariff sweep: every tariff scaled by the multiplier; the
		// multiplier itself is the recorded parameter value since tariffs
		// are a vector, not a scalar
		tariffCfg := cfg
		tariffCfg.ConsumerGroup = tariff.ScaleTariffs(cfg.ConsumerGroup, mult)
		r, err := Simulate(tariffCfg, monthlyGeneration)
		if err != nil {
			return nil, nil, err
		}
		sensitivity.Tariff = append(sensitivity.Tariff, types.SensitivityPoint{ParameterValue: mult, NPV: r.NPV})

		inflationCfg := cfg
		inflationCfg.EnergyInflationPct = cfg.EnergyInflationPct * mult
		r, err = Simulate(inflationCfg, monthlyGeneration)
		if err != nil {
			return nil, nil, err
		}
		sensitivity.Inflation = append(sensitivity.Inflation, types.SensitivityPoint{ParameterValue: inflationCfg.EnergyInflationPct, NPV: r.NPV})

		discountCfg := cfg
		discountCfg.DiscountRatePct = cfg.DiscountRatePct * mult
		r, err = Simulate(discountCfg, monthlyGeneration)
		if err != nil {
			return nil, nil, err
		}
		sensitivity.DiscountRate = append(sensitivity.DiscountRate, types.SensitivityPoint{ParameterValue: discountCfg.DiscountRatePct, NPV: r.NPV})
	}

	scenarios := &types.ScenarioSet{}
	for name, shift := range scenarioShifts {
		r, err := Simulate(shifted(cfg, shift), monthlyGeneration)
		if err != nil {
			return nil, nil, err
		}
		summary := types.ScenarioResult{
			NPV:                r.NPV,
			IRRPct:             r.IRRPct,
			PaybackSimpleYears: r.PaybackSimpleYears,
		}
		switch name {
		case "base":
			scenarios.Base = summary
		case "optimistic":
			scenarios.Optimistic = summary
		case "conservative":
			scenarios.Conservative = summary
		case "pessimistic":
			scenarios.Pessimistic = summary
		}
	}

	return sensitivity, scenarios, nil
}
