package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTariffVariantValidate(t *testing.T) {
	t.Run("valid group b", func(t *testing.T) {
		v := TariffVariant{Group: ConsumerGroupB, GroupB: &GroupBTariff{EnergyTariff: 0.95}}
		assert.NoError(t, v.Validate())
	})

	t.Run("tag without variant", func(t *testing.T) {
		v := TariffVariant{Group: ConsumerGroupB, GroupAGreen: &GroupAGreenTariff{}}
		err := v.Validate()
		assert.ErrorIs(t, err, ErrUnsupportedConsumerGroup)
	})

	t.Run("two variants set", func(t *testing.T) {
		v := TariffVariant{
			Group:       ConsumerGroupB,
			GroupB:      &GroupBTariff{},
			GroupAGreen: &GroupAGreenTariff{},
		}
		assert.ErrorIs(t, v.Validate(), ErrUnsupportedConsumerGroup)
	})

	t.Run("no variant set", func(t *testing.T) {
		v := TariffVariant{Group: ConsumerGroupABlue}
		assert.ErrorIs(t, v.Validate(), ErrUnsupportedConsumerGroup)
	})

	t.Run("unknown group", func(t *testing.T) {
		v := TariffVariant{Group: "group_c", GroupB: &GroupBTariff{}}
		assert.ErrorIs(t, v.Validate(), ErrUnsupportedConsumerGroup)
	})
}

func TestConsumerGroupConfigValidateRemote(t *testing.T) {
	base := ConsumerGroupConfig{
		TariffVariant: TariffVariant{Group: ConsumerGroupB, GroupB: &GroupBTariff{}},
	}

	t.Run("remote allocation out of range", func(t *testing.T) {
		cfg := base
		cfg.Remote = &RemoteSelfConsumption{
			AllocationPct: 130,
			TariffVariant: TariffVariant{Group: ConsumerGroupB, GroupB: &GroupBTariff{}},
		}
		assert.ErrorIs(t, cfg.Validate(), ErrUnsupportedConsumerGroup)
	})

	t.Run("remote under different group", func(t *testing.T) {
		cfg := base
		cfg.Remote = &RemoteSelfConsumption{
			AllocationPct: 40,
			TariffVariant: TariffVariant{Group: ConsumerGroupAGreen, GroupAGreen: &GroupAGreenTariff{}},
		}
		assert.NoError(t, cfg.Validate())
	})
}

func TestFioBScheduleFractionFor(t *testing.T) {
	schedule := FioBSchedule{
		2023: 0.15,
		2024: 0.30,
		2025: 0.45,
	}

	t.Run("defined year", func(t *testing.T) {
		assert.Equal(t, 0.30, schedule.FractionFor(2024))
	})

	t.Run("clamps above the last entry", func(t *testing.T) {
		// year 30 of a schedule ending at 25 must use the last fraction,
		// never extrapolate
		assert.Equal(t, 0.45, schedule.FractionFor(2030))
	})

	t.Run("clamps below the first entry", func(t *testing.T) {
		assert.Equal(t, 0.15, schedule.FractionFor(2020))
	})

	t.Run("gap uses the closest year below", func(t *testing.T) {
		gappy := FioBSchedule{2023: 0.15, 2026: 0.60}
		assert.Equal(t, 0.15, gappy.FractionFor(2025))
	})

	t.Run("empty schedule charges nothing", func(t *testing.T) {
		assert.Equal(t, 0.0, FioBSchedule{}.FractionFor(2024))
	})
}
