package generation

import (
	"fmt"
	"math"

	"github.com/helioplan/helioplan/pkg/types"
)

// GridCO2KgPerKWH is the grid emission factor used for the CO₂ offset
// estimate, in kg CO₂ per kWh displaced.
const GridCO2KgPerKWH = 0.0817

// OptimalModuleCount computes the module count from the target power and
// the available roof area. The tighter of the two bounds wins and is
// recorded as the limiting factor. It returns ErrInsufficientArea when not
// even one module fits.
func OptimalModuleCount(p types.SizingParameters) (types.SizingResult, error) {
	if err := p.Validate(); err != nil {
		return types.SizingResult{}, err
	}

	byPower := int(math.Ceil(p.TargetPowerW / p.ModulePowerW))
	byArea := int(math.Floor(p.AvailableAreaM2 / p.ModuleAreaM2))
	if byArea < 1 {
		return types.SizingResult{}, fmt.Errorf("%w: %.1fm² fits no %.1fm² module", types.ErrInsufficientArea, p.AvailableAreaM2, p.ModuleAreaM2)
	}

	result := types.SizingResult{}
	if byPower <= byArea {
		result.ModuleCount = byPower
		result.LimitingFactor = types.LimitedByPower
	} else {
		result.ModuleCount = byArea
		result.LimitingFactor = types.LimitedByArea
	}
	result.InstalledPowerW = float64(result.ModuleCount) * p.ModulePowerW
	result.AreaUsedM2 = float64(result.ModuleCount) * p.ModuleAreaM2
	return result, nil
}

// CO2OffsetKgPerYear estimates the yearly CO₂ displaced by the given annual
// generation.
func CO2OffsetKgPerYear(annualGenerationKWH float64) float64 {
	return annualGenerationKWH * GridCO2KgPerKWH
}
