package types

import "fmt"

// SystemParameters describes the candidate PV installation.
type SystemParameters struct {
	NominalPowerW      float64 `json:"nominalPowerW" yaml:"nominalPowerW"`
	ModuleAreaM2       float64 `json:"moduleAreaM2" yaml:"moduleAreaM2"`
	TiltDeg            float64 `json:"tiltDeg" yaml:"tiltDeg"`
	AzimuthDeg         float64 `json:"azimuthDeg" yaml:"azimuthDeg"`
	EfficiencyFraction float64 `json:"efficiencyFraction" yaml:"efficiencyFraction"`
	SystemLossFraction float64 `json:"systemLossFraction" yaml:"systemLossFraction"`
}

// Validate checks ranges before any upstream call happens.
func (p SystemParameters) Validate() error {
	if p.NominalPowerW <= 0 {
		return fmt.Errorf("%w: nominal power %fW must be positive", ErrInvalidSystemParameters, p.NominalPowerW)
	}
	if p.TiltDeg < 0 || p.TiltDeg > 90 {
		return fmt.Errorf("%w: tilt %f out of [0,90]", ErrInvalidSystemParameters, p.TiltDeg)
	}
	if p.AzimuthDeg < -180 || p.AzimuthDeg > 180 {
		return fmt.Errorf("%w: azimuth %f out of [-180,180]", ErrInvalidSystemParameters, p.AzimuthDeg)
	}
	if p.EfficiencyFraction < 0 || p.EfficiencyFraction > 1 {
		return fmt.Errorf("%w: efficiency %f out of [0,1]", ErrInvalidSystemParameters, p.EfficiencyFraction)
	}
	if p.SystemLossFraction < 0 || p.SystemLossFraction > 1 {
		return fmt.Errorf("%w: system loss %f out of [0,1]", ErrInvalidSystemParameters, p.SystemLossFraction)
	}
	return nil
}

// SizingParameters are the inputs to module-count optimization.
type SizingParameters struct {
	TargetPowerW    float64 `json:"targetPowerW" yaml:"targetPowerW"`
	ModulePowerW    float64 `json:"modulePowerW" yaml:"modulePowerW"`
	AvailableAreaM2 float64 `json:"availableAreaM2" yaml:"availableAreaM2"`
	ModuleAreaM2    float64 `json:"moduleAreaM2" yaml:"moduleAreaM2"`
}

// Validate checks the sizing inputs.
func (p SizingParameters) Validate() error {
	if p.TargetPowerW <= 0 || p.ModulePowerW <= 0 {
		return fmt.Errorf("%w: target and module power must be positive", ErrInvalidSystemParameters)
	}
	if p.AvailableAreaM2 < 0 || p.ModuleAreaM2 <= 0 {
		return fmt.Errorf("%w: areas must be non-negative (module area positive)", ErrInvalidSystemParameters)
	}
	return nil
}

// LimitingFactor records which bound constrained the module count.
type LimitingFactor string

const (
	LimitedByPower LimitingFactor = "power"
	LimitedByArea  LimitingFactor = "area"
)

// SizingResult is the output of module-count optimization.
type SizingResult struct {
	ModuleCount        int            `json:"moduleCount"`
	LimitingFactor     LimitingFactor `json:"limitingFactor"`
	InstalledPowerW    float64        `json:"installedPowerW"`
	AreaUsedM2         float64        `json:"areaUsedM2"`
	CO2OffsetKgPerYear float64        `json:"co2OffsetKgPerYear"`
}

// LossBreakdown holds the individual loss components, each a fraction in
// [0,1]. Components compose multiplicatively, see Total.
type LossBreakdown struct {
	Orientation float64 `json:"orientation" yaml:"orientation"`
	Shading     float64 `json:"shading" yaml:"shading"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	Soiling     float64 `json:"soiling" yaml:"soiling"`
	Mismatch    float64 `json:"mismatch" yaml:"mismatch"`
	Cabling     float64 `json:"cabling" yaml:"cabling"`
	Other       float64 `json:"other" yaml:"other"`
}

// maxLossComponent caps a single loss term. A component of exactly 1 would
// mean zero output, which is unphysical since diffuse capture always remains.
const maxLossComponent = 0.99

// Total combines the components as 1-Π(1-cᵢ). Components are clamped to
// [0, 0.99] first so the total stays strictly below 1 and no single term
// can drive generation negative.
func (l LossBreakdown) Total() float64 {
	remaining := 1.0
	for _, c := range []float64{l.Orientation, l.Shading, l.Temperature, l.Soiling, l.Mismatch, l.Cabling, l.Other} {
		if c < 0 {
			c = 0
		}
		if c > maxLossComponent {
			c = maxLossComponent
		}
		remaining *= 1 - c
	}
	return 1 - remaining
}
