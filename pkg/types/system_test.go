package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinatesValidate(t *testing.T) {
	assert.NoError(t, Coordinates{LatitudeDeg: -23.55, LongitudeDeg: -46.63}.Validate())
	assert.ErrorIs(t, Coordinates{LatitudeDeg: 91}.Validate(), ErrInvalidCoordinates)
	assert.ErrorIs(t, Coordinates{LongitudeDeg: -181}.Validate(), ErrInvalidCoordinates)
}

func TestSystemParametersValidate(t *testing.T) {
	valid := SystemParameters{
		NominalPowerW:      5000,
		ModuleAreaM2:       2.6,
		TiltDeg:            20,
		AzimuthDeg:         0,
		EfficiencyFraction: 0.21,
		SystemLossFraction: 0.14,
	}
	assert.NoError(t, valid.Validate())

	t.Run("tilt out of range", func(t *testing.T) {
		p := valid
		p.TiltDeg = 95
		assert.ErrorIs(t, p.Validate(), ErrInvalidSystemParameters)
	})

	t.Run("azimuth out of range", func(t *testing.T) {
		p := valid
		p.AzimuthDeg = 200
		assert.ErrorIs(t, p.Validate(), ErrInvalidSystemParameters)
	})

	t.Run("non-positive power", func(t *testing.T) {
		p := valid
		p.NominalPowerW = 0
		assert.ErrorIs(t, p.Validate(), ErrInvalidSystemParameters)
	})
}

func TestLossBreakdownTotal(t *testing.T) {
	t.Run("zero losses", func(t *testing.T) {
		assert.Equal(t, 0.0, LossBreakdown{}.Total())
	})

	t.Run("composes multiplicatively not additively", func(t *testing.T) {
		l := LossBreakdown{Shading: 0.5, Soiling: 0.5}
		// 1-(0.5*0.5) = 0.75, a plain sum would give 1.0
		assert.InDelta(t, 0.75, l.Total(), 1e-12)
	})

	t.Run("stays strictly below 1 even with all components at 1", func(t *testing.T) {
		l := LossBreakdown{
			Orientation: 1, Shading: 1, Temperature: 1,
			Soiling: 1, Mismatch: 1, Cabling: 1, Other: 1,
		}
		total := l.Total()
		assert.GreaterOrEqual(t, total, 0.0)
		assert.Less(t, total, 1.0)
	})

	t.Run("negative components are treated as zero", func(t *testing.T) {
		l := LossBreakdown{Shading: -0.3, Soiling: 0.1}
		assert.InDelta(t, 0.1, l.Total(), 1e-12)
	})
}

func TestIrradiationDatasetMismatch(t *testing.T) {
	d := IrradiationDataset{AnnualKWHPerM2: 1200}
	for i := range d.MonthlyKWHPerM2 {
		d.MonthlyKWHPerM2[i] = 100
	}
	assert.InDelta(t, 0, d.AnnualMismatch(), 1e-12)

	d.AnnualKWHPerM2 = 1000
	assert.InDelta(t, 0.2, d.AnnualMismatch(), 1e-12)

	t.Run("zero annual", func(t *testing.T) {
		assert.Equal(t, 0.0, IrradiationDataset{}.AnnualMismatch())
	})
}
