package types

import "fmt"

// DefaultUsefulLifeYears is the simulated horizon when the configuration
// doesn't specify one.
const DefaultUsefulLifeYears = 25

// FinancialConfiguration drives the multi-year cash-flow simulation.
// All *Pct fields are percentages (8 means 8%).
type FinancialConfiguration struct {
	InitialInvestment           float64             `json:"initialInvestment" yaml:"initialInvestment"`
	UsefulLifeYears             int                 `json:"usefulLifeYears" yaml:"usefulLifeYears"`
	DiscountRatePct             float64             `json:"discountRatePct" yaml:"discountRatePct"`
	EnergyInflationPct          float64             `json:"energyInflationPct" yaml:"energyInflationPct"`
	ModuleDegradationPctPerYear float64             `json:"moduleDegradationPctPerYear" yaml:"moduleDegradationPctPerYear"`
	OAndMCostInitial            float64             `json:"oAndMCostInitial" yaml:"oAndMCostInitial"`
	OAndMInflationPct           float64             `json:"oAndMInflationPct" yaml:"oAndMInflationPct"`
	ConsumerGroup               ConsumerGroupConfig `json:"consumerGroup" yaml:"consumerGroup"`
	FioBSchedule                FioBSchedule        `json:"fioBSchedule" yaml:"fioBSchedule"`
	// StartYear anchors the fio B schedule lookup; simulation year n maps to
	// calendar year StartYear+n-1. Defaults to the first year of the
	// schedule when zero.
	StartYear int `json:"startYear" yaml:"startYear"`
}

// Normalized returns a copy with defaults applied.
func (c FinancialConfiguration) Normalized() FinancialConfiguration {
	if c.UsefulLifeYears <= 0 {
		c.UsefulLifeYears = DefaultUsefulLifeYears
	}
	if c.StartYear == 0 {
		for y := range c.FioBSchedule {
			if c.StartYear == 0 || y < c.StartYear {
				c.StartYear = y
			}
		}
	}
	return c
}

// Validate checks the configuration before simulation begins.
func (c FinancialConfiguration) Validate() error {
	if c.InitialInvestment < 0 {
		return fmt.Errorf("%w: initial investment must be non-negative", ErrInvalidSystemParameters)
	}
	if c.DiscountRatePct <= -100 {
		return fmt.Errorf("%w: discount rate must be above -100%%", ErrInvalidSystemParameters)
	}
	if c.ModuleDegradationPctPerYear < 0 || c.ModuleDegradationPctPerYear >= 100 {
		return fmt.Errorf("%w: degradation %f%% out of [0,100)", ErrInvalidSystemParameters, c.ModuleDegradationPctPerYear)
	}
	return c.ConsumerGroup.Validate()
}

// CashFlowEntry is one simulated year. Entries are immutable after creation
// and ordered 1..UsefulLifeYears.
type CashFlowEntry struct {
	Year               int     `json:"year"`
	GrossGenerationKWH float64 `json:"grossGenerationKWH"`
	EnergySavings      float64 `json:"energySavings"`
	OAndMCost          float64 `json:"oAndMCost"`
	NetCashFlow        float64 `json:"netCashFlow"`
	CumulativeCashFlow float64 `json:"cumulativeCashFlow"`
	PresentValue       float64 `json:"presentValue"`
}

// Indicators are derived summary metrics over the whole horizon.
type Indicators struct {
	TotalLifetimeSavings float64 `json:"totalLifetimeSavings"`
	AverageAnnualSavings float64 `json:"averageAnnualSavings"`
	// LCOE is the levelized cost of energy in currency/kWh: discounted
	// lifetime cost over discounted lifetime generation.
	LCOE float64 `json:"lcoe"`
	// ROIPct is total net cash flow over the initial investment, in percent.
	ROIPct float64 `json:"roiPct"`
}

// SensitivityPoint is one (parameter value, NPV) pair of a sweep.
type SensitivityPoint struct {
	ParameterValue float64 `json:"parameterValue"`
	NPV            float64 `json:"npv"`
}

// SensitivityAnalysis holds the per-parameter sweeps.
type SensitivityAnalysis struct {
	Tariff       []SensitivityPoint `json:"tariff"`
	Inflation    []SensitivityPoint `json:"inflation"`
	DiscountRate []SensitivityPoint `json:"discountRate"`
}

// ScenarioResult summarizes one named scenario run.
type ScenarioResult struct {
	NPV                float64  `json:"npv"`
	IRRPct             *float64 `json:"irrPct"`
	PaybackSimpleYears *float64 `json:"paybackSimpleYears"`
}

// ScenarioSet holds the four named scenario runs.
type ScenarioSet struct {
	Base         ScenarioResult `json:"base"`
	Optimistic   ScenarioResult `json:"optimistic"`
	Conservative ScenarioResult `json:"conservative"`
	Pessimistic  ScenarioResult `json:"pessimistic"`
}

// FinancialResult is the terminal artifact returned to callers; it is never
// mutated after construction. IRRPct and the paybacks are nil when no root
// exists in the solver range / payback is never reached within the horizon.
type FinancialResult struct {
	NPV                    float64              `json:"npv"`
	IRRPct                 *float64             `json:"irrPct"`
	PaybackSimpleYears     *float64             `json:"paybackSimpleYears"`
	PaybackDiscountedYears *float64             `json:"paybackDiscountedYears"`
	CashFlow               []CashFlowEntry      `json:"cashFlow"`
	Indicators             Indicators           `json:"indicators"`
	Sensitivity            *SensitivityAnalysis `json:"sensitivity,omitempty"`
	Scenarios              *ScenarioSet         `json:"scenarios,omitempty"`
}
