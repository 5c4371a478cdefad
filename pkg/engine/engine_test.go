package engine

import (
	"context"
	"testing"
	"time"

	"github.com/helioplan/helioplan/pkg/irradiance"
	"github.com/helioplan/helioplan/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var saoPaulo = types.Coordinates{LatitudeDeg: -23.5505, LongitudeDeg: -46.6333}

func satelliteDataset() types.IrradiationDataset {
	d := types.IrradiationDataset{
		Source:      types.SourcePrimarySatellite,
		GeneratedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	for i := range d.MonthlyKWHPerM2 {
		d.MonthlyKWHPerM2[i] = 150
	}
	d.AnnualKWHPerM2 = d.MonthlySum()
	return d
}

func flatConsumption(kwh float64) [12]float64 {
	var v [12]float64
	for i := range v {
		v[i] = kwh
	}
	return v
}

func baseRequest() Request {
	return Request{
		Coordinates: saoPaulo,
		System: types.SystemParameters{
			NominalPowerW: 5000,
			TiltDeg:       23,
			AzimuthDeg:    0,
		},
		UseCache: true,
	}
}

// mockEngine wires a single always-succeeding satellite provider through a
// real cache so tests can observe cache behavior end to end.
func mockEngine(t *testing.T) (*Engine, *irradiance.MockProvider) {
	t.Helper()
	provider := irradiance.NewMockProvider(types.SourcePrimarySatellite)
	chain := irradiance.NewChain(provider)
	return New(chain, irradiance.NewCache(0, 0), nil), provider
}

func TestComputeViability(t *testing.T) {
	t.Run("full pipeline without optional sections", func(t *testing.T) {
		e, provider := mockEngine(t)
		provider.On("Fetch", mock.Anything, saoPaulo, 23.0, 0.0).
			Return(satelliteDataset(), nil).Once()

		result, err := e.ComputeViability(context.Background(), baseRequest())
		require.NoError(t, err)
		provider.AssertExpectations(t)

		assert.NotEmpty(t, result.RunID)
		assert.Equal(t, types.SourcePrimarySatellite, result.Irradiation.Source)
		assert.True(t, result.Quality.IsValid)
		assert.Greater(t, result.AnnualGenerationKWH, 0.0)
		assert.Nil(t, result.Sizing)
		assert.Nil(t, result.Financial)

		var sum float64
		for _, m := range result.MonthlyGenerationKWH {
			sum += m
		}
		assert.InDelta(t, result.AnnualGenerationKWH, sum, 1e-9)
	})

	t.Run("second request is served from the cache", func(t *testing.T) {
		e, provider := mockEngine(t)
		provider.On("Fetch", mock.Anything, saoPaulo, 23.0, 0.0).
			Return(satelliteDataset(), nil).Once()

		first, err := e.ComputeViability(context.Background(), baseRequest())
		require.NoError(t, err)
		second, err := e.ComputeViability(context.Background(), baseRequest())
		require.NoError(t, err)
		provider.AssertExpectations(t)

		assert.Equal(t, first.Irradiation, second.Irradiation)
		assert.NotEqual(t, first.RunID, second.RunID)
	})

	t.Run("useCache false always hits the provider", func(t *testing.T) {
		e, provider := mockEngine(t)
		provider.On("Fetch", mock.Anything, saoPaulo, 23.0, 0.0).
			Return(satelliteDataset(), nil).Twice()

		req := baseRequest()
		req.UseCache = false
		_, err := e.ComputeViability(context.Background(), req)
		require.NoError(t, err)
		_, err = e.ComputeViability(context.Background(), req)
		require.NoError(t, err)
		provider.AssertExpectations(t)
	})

	t.Run("invalid coordinates fail before any fetch", func(t *testing.T) {
		e, provider := mockEngine(t)

		req := baseRequest()
		req.Coordinates.LatitudeDeg = 95
		_, err := e.ComputeViability(context.Background(), req)
		assert.ErrorIs(t, err, types.ErrInvalidCoordinates)
		provider.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("exhausted chain surfaces the upstream error", func(t *testing.T) {
		e, provider := mockEngine(t)
		provider.On("Fetch", mock.Anything, saoPaulo, 23.0, 0.0).
			Return(types.IrradiationDataset{}, assert.AnError)

		_, err := e.ComputeViability(context.Background(), baseRequest())
		assert.ErrorIs(t, err, types.ErrUpstreamUnavailable)
	})

	t.Run("sizing section", func(t *testing.T) {
		e, provider := mockEngine(t)
		provider.On("Fetch", mock.Anything, saoPaulo, 23.0, 0.0).
			Return(satelliteDataset(), nil)

		req := baseRequest()
		req.Sizing = &types.SizingParameters{
			TargetPowerW:    5000,
			ModulePowerW:    550,
			AvailableAreaM2: 40,
			ModuleAreaM2:    2.6,
		}
		result, err := e.ComputeViability(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, result.Sizing)
		assert.Equal(t, 10, result.Sizing.ModuleCount)
		assert.Equal(t, types.LimitedByPower, result.Sizing.LimitingFactor)
		assert.InDelta(t, result.AnnualGenerationKWH*0.0817, result.Sizing.CO2OffsetKgPerYear, 1e-9)
	})

	t.Run("financial section includes sensitivity and scenarios", func(t *testing.T) {
		e, provider := mockEngine(t)
		provider.On("Fetch", mock.Anything, saoPaulo, 23.0, 0.0).
			Return(satelliteDataset(), nil)

		req := baseRequest()
		req.Financial = &types.FinancialConfiguration{
			InitialInvestment: 20000,
			DiscountRatePct:   8,
			FioBSchedule:      types.FioBSchedule{2024: 0.50},
			ConsumerGroup: types.ConsumerGroupConfig{
				TariffVariant: types.TariffVariant{
					Group: types.ConsumerGroupB,
					GroupB: &types.GroupBTariff{
						EnergyTariff:          1.00,
						WireTariff:            0.40,
						MonthlyConsumptionKWH: flatConsumption(500),
					},
				},
			},
		}
		result, err := e.ComputeViability(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, result.Financial)
		assert.Len(t, result.Financial.CashFlow, types.DefaultUsefulLifeYears)
		require.NotNil(t, result.Financial.Sensitivity)
		assert.Len(t, result.Financial.Sensitivity.Tariff, 5)
		require.NotNil(t, result.Financial.Scenarios)
		assert.InDelta(t, result.Financial.NPV, result.Financial.Scenarios.Base.NPV, 1e-9)
	})

	t.Run("loss override keeps the geometric orientation loss", func(t *testing.T) {
		e, provider := mockEngine(t)
		provider.On("Fetch", mock.Anything, saoPaulo, 23.0, 0.0).
			Return(satelliteDataset(), nil)

		req := baseRequest()
		req.Losses = &types.LossBreakdown{Shading: 0.25}
		result, err := e.ComputeViability(context.Background(), req)
		require.NoError(t, err)
		assert.InDelta(t, 0.25, result.Losses.Shading, 1e-9)
		assert.Greater(t, result.Losses.Orientation, 0.0, "tilt 23 at latitude -23.55 is slightly off optimal")
		assert.Zero(t, result.Losses.Temperature, "override replaces the defaulted components")
	})

	t.Run("determinism for a fixed dataset", func(t *testing.T) {
		e, provider := mockEngine(t)
		e.newRunID = func() string { return "fixed-run" }
		provider.On("Fetch", mock.Anything, saoPaulo, 23.0, 0.0).
			Return(satelliteDataset(), nil)

		first, err := e.ComputeViability(context.Background(), baseRequest())
		require.NoError(t, err)
		second, err := e.ComputeViability(context.Background(), baseRequest())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("run IDs are unique per invocation by default", func(t *testing.T) {
		e, provider := mockEngine(t)
		provider.On("Fetch", mock.Anything, saoPaulo, 23.0, 0.0).
			Return(satelliteDataset(), nil)

		first, err := e.ComputeViability(context.Background(), baseRequest())
		require.NoError(t, err)
		second, err := e.ComputeViability(context.Background(), baseRequest())
		require.NoError(t, err)
		assert.NotEqual(t, first.RunID, second.RunID)
	})
}
