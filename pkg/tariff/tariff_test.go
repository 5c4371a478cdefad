package tariff

import (
	"testing"

	"github.com/helioplan/helioplan/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatConsumption(kwh float64) [12]float64 {
	var v [12]float64
	for i := range v {
		v[i] = kwh
	}
	return v
}

func groupBConfig(consumption float64) types.ConsumerGroupConfig {
	return types.ConsumerGroupConfig{
		TariffVariant: types.TariffVariant{
			Group: types.ConsumerGroupB,
			GroupB: &types.GroupBTariff{
				EnergyTariff:          1.00,
				WireTariff:            0.40,
				MonthlyConsumptionKWH: flatConsumption(consumption),
			},
		},
	}
}

var testSchedule = types.FioBSchedule{
	2023: 0.15, 2024: 0.30, 2025: 0.45, 2026: 0.60, 2027: 0.75, 2028: 0.90,
}

func TestGroupBMonthlyCost(t *testing.T) {
	cfg := groupBConfig(500)

	t.Run("without generation pays full retail", func(t *testing.T) {
		cost, err := MonthlyCost(cfg, testSchedule, 0, 0, 2024)
		require.NoError(t, err)
		assert.InDelta(t, 500*1.00, cost, 1e-9)
	})

	t.Run("credits offset 1:1 except the wire charge", func(t *testing.T) {
		cost, err := MonthlyCost(cfg, testSchedule, 0, 300, 2024)
		require.NoError(t, err)
		// 200 kWh billed at retail + 300 kWh compensated paying 0.40*0.30
		assert.InDelta(t, 200*1.00+300*0.40*0.30, cost, 1e-9)
	})

	t.Run("generation beyond consumption compensates only consumption", func(t *testing.T) {
		cost, err := MonthlyCost(cfg, testSchedule, 0, 900, 2024)
		require.NoError(t, err)
		assert.InDelta(t, 500*0.40*0.30, cost, 1e-9)
	})

	t.Run("schedule year ramps the wire charge", func(t *testing.T) {
		early, err := MonthlyCost(cfg, testSchedule, 0, 500, 2023)
		require.NoError(t, err)
		late, err := MonthlyCost(cfg, testSchedule, 0, 500, 2028)
		require.NoError(t, err)
		assert.Less(t, early, late)
	})

	t.Run("years past the schedule clamp to the last fraction", func(t *testing.T) {
		clamped, err := MonthlyCost(cfg, testSchedule, 0, 500, 2050)
		require.NoError(t, err)
		last, err := MonthlyCost(cfg, testSchedule, 0, 500, 2028)
		require.NoError(t, err)
		assert.Equal(t, last, clamped)
	})

	t.Run("availability floor keeps a minimum bill", func(t *testing.T) {
		floored := groupBConfig(500)
		floored.GroupB.AvailabilityFloorKWH = 50
		cost, err := MonthlyCost(floored, testSchedule, 0, 900, 2024)
		require.NoError(t, err)
		assert.InDelta(t, 50*1.00+500*0.40*0.30, cost, 1e-9)
	})

	t.Run("invalid month", func(t *testing.T) {
		_, err := MonthlyCost(cfg, testSchedule, 12, 0, 2024)
		assert.Error(t, err)
	})

	t.Run("invalid variant", func(t *testing.T) {
		_, err := MonthlyCost(types.ConsumerGroupConfig{
			TariffVariant: types.TariffVariant{Group: types.ConsumerGroupB},
		}, testSchedule, 0, 0, 2024)
		assert.ErrorIs(t, err, types.ErrUnsupportedConsumerGroup)
	})
}

func groupAGreenConfig() types.ConsumerGroupConfig {
	return types.ConsumerGroupConfig{
		TariffVariant: types.TariffVariant{
			Group: types.ConsumerGroupAGreen,
			GroupAGreen: &types.GroupAGreenTariff{
				PeakTariff:            2.20,
				OffPeakTariff:         0.55,
				PeakWireTariff:        0.80,
				OffPeakWireTariff:     0.25,
				PeakConsumptionKWH:    flatConsumption(200),
				OffPeakConsumptionKWH: flatConsumption(1800),
				PeakGenerationShare:   0.10,
				ContractedDemandKW:    100,
				DemandTariff:          12.0,
			},
		},
	}
}

func TestGroupAGreenMonthlyCost(t *testing.T) {
	cfg := groupAGreenConfig()

	t.Run("credits apply separately per band", func(t *testing.T) {
		cost, err := MonthlyCost(cfg, testSchedule, 0, 1000, 2024)
		require.NoError(t, err)
		// peak: 100 gen vs 200 cons -> 100 billed + 100 compensated
		peak := 100*2.20 + 100*0.80*0.30
		// off-peak: 900 gen vs 1800 cons -> 900 billed + 900 compensated
		offPeak := 900*0.55 + 900*0.25*0.30
		demand := 100 * 12.0
		assert.InDelta(t, peak+offPeak+demand, cost, 1e-9)
	})

	t.Run("demand charge is never offset by credits", func(t *testing.T) {
		cost, err := MonthlyCost(cfg, testSchedule, 0, 1e6, 2024)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, cost, 100*12.0)
	})
}

func TestGroupABlueMonthlyCost(t *testing.T) {
	cfg := types.ConsumerGroupConfig{
		TariffVariant: types.TariffVariant{
			Group: types.ConsumerGroupABlue,
			GroupABlue: &types.GroupABlueTariff{
				PeakTariff:                1.80,
				OffPeakTariff:             0.50,
				PeakWireTariff:            0.70,
				OffPeakWireTariff:         0.20,
				PeakConsumptionKWH:        flatConsumption(300),
				OffPeakConsumptionKWH:     flatConsumption(2000),
				PeakGenerationShare:       0.10,
				ContractedDemandPeakKW:    80,
				ContractedDemandOffPeakKW: 120,
				DemandTariffPeak:          30.0,
				DemandTariffOffPeak:       9.0,
			},
		},
	}

	cost, err := MonthlyCost(cfg, testSchedule, 0, 1000, 2024)
	require.NoError(t, err)
	peak := 200*1.80 + 100*0.70*0.30
	offPeak := 1100*0.50 + 900*0.20*0.30
	demand := 80*30.0 + 120*9.0
	assert.InDelta(t, peak+offPeak+demand, cost, 1e-9)
}

func TestRemoteSelfConsumption(t *testing.T) {
	primary := groupBConfig(300)
	primary.Remote = &types.RemoteSelfConsumption{
		AllocationPct: 100,
		TariffVariant: types.TariffVariant{
			Group: types.ConsumerGroupB,
			GroupB: &types.GroupBTariff{
				EnergyTariff:          0.90,
				WireTariff:            0.35,
				MonthlyConsumptionKWH: flatConsumption(400),
			},
		},
	}

	t.Run("surplus is allocated before the primary credit calculation", func(t *testing.T) {
		cost, err := MonthlyCost(primary, testSchedule, 0, 500, 2024)
		require.NoError(t, err)
		// primary: 300 consumed, surplus 200 fully diverted; 300 compensated
		primaryCost := 300 * 0.40 * 0.30
		// remote: 200 of 400 compensated, 200 billed
		remoteCost := 200*0.90 + 200*0.35*0.30
		assert.InDelta(t, primaryCost+remoteCost, cost, 1e-9)
	})

	t.Run("no surplus means no allocation", func(t *testing.T) {
		cost, err := MonthlyCost(primary, testSchedule, 0, 200, 2024)
		require.NoError(t, err)
		primaryCost := 100*1.00 + 200*0.40*0.30
		remoteCost := 400 * 0.90
		assert.InDelta(t, primaryCost+remoteCost, cost, 1e-9)
	})

	t.Run("baseline includes the remote unit's bill", func(t *testing.T) {
		cost, err := MonthlyCost(primary, testSchedule, 0, 0, 2024)
		require.NoError(t, err)
		assert.InDelta(t, 300*1.00+400*0.90, cost, 1e-9)
	})

	t.Run("partial allocation", func(t *testing.T) {
		half := primary
		remote := *primary.Remote
		remote.AllocationPct = 50
		half.Remote = &remote
		cost, err := MonthlyCost(half, testSchedule, 0, 500, 2024)
		require.NoError(t, err)
		// surplus 200, 100 diverted; primary keeps 400 of generation
		primaryCost := 300 * 0.40 * 0.30
		remoteCost := 300*0.90 + 100*0.35*0.30
		assert.InDelta(t, primaryCost+remoteCost, cost, 1e-9)
	})
}

func TestScaleTariffs(t *testing.T) {
	cfg := groupAGreenConfig()
	scaled := ScaleTariffs(cfg, 1.10)

	assert.InDelta(t, 2.42, scaled.GroupAGreen.PeakTariff, 1e-9)
	assert.InDelta(t, 13.2, scaled.GroupAGreen.DemandTariff, 1e-9)
	// consumption is untouched
	assert.Equal(t, cfg.GroupAGreen.PeakConsumptionKWH, scaled.GroupAGreen.PeakConsumptionKWH)
	// the original is not mutated
	assert.InDelta(t, 2.20, cfg.GroupAGreen.PeakTariff, 1e-9)

	t.Run("remote tariffs scale too", func(t *testing.T) {
		b := groupBConfig(100)
		b.Remote = &types.RemoteSelfConsumption{
			AllocationPct: 30,
			TariffVariant: types.TariffVariant{
				Group:  types.ConsumerGroupB,
				GroupB: &types.GroupBTariff{EnergyTariff: 1.0, WireTariff: 0.4},
			},
		}
		scaled := ScaleTariffs(b, 2)
		assert.InDelta(t, 2.0, scaled.Remote.GroupB.EnergyTariff, 1e-9)
		assert.InDelta(t, 1.0, b.Remote.GroupB.EnergyTariff, 1e-9)
	})
}

func TestAnnualCost(t *testing.T) {
	cfg := groupBConfig(500)
	gen := flatConsumption(300)

	baseline, err := AnnualCost(cfg, testSchedule, nil, 2024)
	require.NoError(t, err)
	assert.InDelta(t, 12*500*1.00, baseline, 1e-9)

	withSystem, err := AnnualCost(cfg, testSchedule, &gen, 2024)
	require.NoError(t, err)
	assert.Less(t, withSystem, baseline)
}
