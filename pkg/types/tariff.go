package types

import "fmt"

// ConsumerGroup identifies the regulatory tariff group of the consumer unit.
type ConsumerGroup string

const (
	// ConsumerGroupB is low-voltage (residential/small commercial) with a
	// flat per-kWh tariff.
	ConsumerGroupB ConsumerGroup = "group_b"
	// ConsumerGroupAGreen is medium/high-voltage on the green flag tariff:
	// split peak/off-peak energy tariffs, single contracted demand.
	ConsumerGroupAGreen ConsumerGroup = "group_a_green"
	// ConsumerGroupABlue is medium/high-voltage on the blue flag tariff:
	// split peak/off-peak energy tariffs and per-band contracted demand.
	ConsumerGroupABlue ConsumerGroup = "group_a_blue"
)

// GroupBTariff is the flat residential/low-voltage tariff shape.
// Net-metering credits offset consumption 1:1 except for the wire-usage
// ("fio B") component, which is billed on compensated energy per the
// year-indexed schedule.
type GroupBTariff struct {
	// EnergyTariff is the full retail rate in currency/kWh.
	EnergyTariff float64 `json:"energyTariff" yaml:"energyTariff"`
	// WireTariff is the non-offsettable wire-usage component in currency/kWh.
	WireTariff float64 `json:"wireTariff" yaml:"wireTariff"`
	// MonthlyConsumptionKWH is the unit's consumption profile, January first.
	MonthlyConsumptionKWH [12]float64 `json:"monthlyConsumptionKWH" yaml:"monthlyConsumptionKWH"`
	// AvailabilityFloorKWH is the minimum billable energy (30/50/100 kWh by
	// connection phase). Zero disables the floor.
	AvailabilityFloorKWH float64 `json:"availabilityFloorKWH" yaml:"availabilityFloorKWH"`
}

// GroupAGreenTariff is the green-flag medium-voltage tariff shape with
// peak/off-peak bands. Credits apply separately within each band.
type GroupAGreenTariff struct {
	PeakTariff        float64 `json:"peakTariff" yaml:"peakTariff"`
	OffPeakTariff     float64 `json:"offPeakTariff" yaml:"offPeakTariff"`
	PeakWireTariff    float64 `json:"peakWireTariff" yaml:"peakWireTariff"`
	OffPeakWireTariff float64 `json:"offPeakWireTariff" yaml:"offPeakWireTariff"`

	PeakConsumptionKWH    [12]float64 `json:"peakConsumptionKWH" yaml:"peakConsumptionKWH"`
	OffPeakConsumptionKWH [12]float64 `json:"offPeakConsumptionKWH" yaml:"offPeakConsumptionKWH"`

	// PeakGenerationShare is the fraction of monthly generation credited to
	// the peak band. Defaults to 0.15 when zero, since fixed-tilt PV
	// produces mostly off-peak energy.
	PeakGenerationShare float64 `json:"peakGenerationShare" yaml:"peakGenerationShare"`

	// ContractedDemandKW and DemandTariff bill the single green-flag demand
	// charge; unaffected by energy credits.
	ContractedDemandKW float64 `json:"contractedDemandKW" yaml:"contractedDemandKW"`
	DemandTariff       float64 `json:"demandTariff" yaml:"demandTariff"`
}

// GroupABlueTariff is the blue-flag sibling of GroupAGreenTariff. The shape
// is deliberately duplicated rather than shared: blue bills contracted
// demand separately per band, which the green shape cannot represent.
type GroupABlueTariff struct {
	PeakTariff        float64 `json:"peakTariff" yaml:"peakTariff"`
	OffPeakTariff     float64 `json:"offPeakTariff" yaml:"offPeakTariff"`
	PeakWireTariff    float64 `json:"peakWireTariff" yaml:"peakWireTariff"`
	OffPeakWireTariff float64 `json:"offPeakWireTariff" yaml:"offPeakWireTariff"`

	PeakConsumptionKWH    [12]float64 `json:"peakConsumptionKWH" yaml:"peakConsumptionKWH"`
	OffPeakConsumptionKWH [12]float64 `json:"offPeakConsumptionKWH" yaml:"offPeakConsumptionKWH"`

	PeakGenerationShare float64 `json:"peakGenerationShare" yaml:"peakGenerationShare"`

	ContractedDemandPeakKW    float64 `json:"contractedDemandPeakKW" yaml:"contractedDemandPeakKW"`
	ContractedDemandOffPeakKW float64 `json:"contractedDemandOffPeakKW" yaml:"contractedDemandOffPeakKW"`
	DemandTariffPeak          float64 `json:"demandTariffPeak" yaml:"demandTariffPeak"`
	DemandTariffOffPeak       float64 `json:"demandTariffOffPeak" yaml:"demandTariffOffPeak"`
}

// TariffVariant is the tagged union over the three tariff shapes. Exactly
// one variant pointer must be set and it must match Group.
type TariffVariant struct {
	Group       ConsumerGroup      `json:"group" yaml:"group"`
	GroupB      *GroupBTariff      `json:"groupB,omitempty" yaml:"groupB,omitempty"`
	GroupAGreen *GroupAGreenTariff `json:"groupAGreen,omitempty" yaml:"groupAGreen,omitempty"`
	GroupABlue  *GroupABlueTariff  `json:"groupABlue,omitempty" yaml:"groupABlue,omitempty"`
}

// Validate checks that exactly one variant is set and matches the tag.
func (v TariffVariant) Validate() error {
	set := 0
	if v.GroupB != nil {
		set++
	}
	if v.GroupAGreen != nil {
		set++
	}
	if v.GroupABlue != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("%w: exactly one tariff variant must be set, got %d", ErrUnsupportedConsumerGroup, set)
	}
	switch v.Group {
	case ConsumerGroupB:
		if v.GroupB == nil {
			return fmt.Errorf("%w: group %q without groupB tariff", ErrUnsupportedConsumerGroup, v.Group)
		}
	case ConsumerGroupAGreen:
		if v.GroupAGreen == nil {
			return fmt.Errorf("%w: group %q without groupAGreen tariff", ErrUnsupportedConsumerGroup, v.Group)
		}
	case ConsumerGroupABlue:
		if v.GroupABlue == nil {
			return fmt.Errorf("%w: group %q without groupABlue tariff", ErrUnsupportedConsumerGroup, v.Group)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedConsumerGroup, v.Group)
	}
	return nil
}

// RemoteSelfConsumption allocates a share of surplus generation to a
// secondary consumption unit, possibly under a different tariff group.
// Allocation happens before the primary meter's credit calculation.
type RemoteSelfConsumption struct {
	// AllocationPct is the percentage (0-100) of generation diverted to the
	// remote unit.
	AllocationPct float64       `json:"allocationPct" yaml:"allocationPct"`
	TariffVariant `json:"tariff" yaml:"tariff"`
}

// ConsumerGroupConfig is the full tariff configuration of the consumer,
// including the optional remote self-consumption sub-config.
type ConsumerGroupConfig struct {
	TariffVariant `yaml:",inline"`
	Remote        *RemoteSelfConsumption `json:"remote,omitempty" yaml:"remote,omitempty"`
}

// Validate checks the primary variant and, when present, the remote one.
func (c ConsumerGroupConfig) Validate() error {
	if err := c.TariffVariant.Validate(); err != nil {
		return err
	}
	if c.Remote != nil {
		if c.Remote.AllocationPct < 0 || c.Remote.AllocationPct > 100 {
			return fmt.Errorf("%w: remote allocation %f out of [0,100]", ErrUnsupportedConsumerGroup, c.Remote.AllocationPct)
		}
		if err := c.Remote.TariffVariant.Validate(); err != nil {
			return fmt.Errorf("remote: %w", err)
		}
	}
	return nil
}

// FioBSchedule maps calendar year to the chargeable fraction of the
// wire-usage tariff, per the regulatory phase-in. The schedule is versioned
// configuration data owned outside the engine.
type FioBSchedule map[int]float64

// FractionFor looks up the chargeable fraction for a year, clamping to the
// nearest defined year when the requested year falls outside the table.
// An empty schedule charges nothing.
func (s FioBSchedule) FractionFor(year int) float64 {
	if len(s) == 0 {
		return 0
	}
	if f, ok := s[year]; ok {
		return f
	}
	minYear, maxYear := 0, 0
	for y := range s {
		if minYear == 0 || y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	if year < minYear {
		return s[minYear]
	}
	if year > maxYear {
		return s[maxYear]
	}
	// inside the defined range but the exact year is missing: use the
	// closest defined year below it
	for y := year; y >= minYear; y-- {
		if f, ok := s[y]; ok {
			return f
		}
	}
	return s[minYear]
}
