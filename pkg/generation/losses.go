// Package generation converts irradiation and system parameters into
// monthly energy yield, models the loss stack, and sizes the module array.
package generation

import (
	"math"

	"github.com/helioplan/helioplan/pkg/types"
)

// maxOrientationLoss is the saturation ceiling of the geometric orientation
// loss. Even a panel facing the wrong way captures diffuse irradiation, so
// the loss never reaches 1.
const maxOrientationLoss = 0.60

// Default loss components when no measured values are supplied.
const (
	defaultTemperatureLoss = 0.07
	defaultSoilingLoss     = 0.03
	defaultMismatchLoss    = 0.02
	defaultCablingLoss     = 0.02
)

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

// OrientationLoss compares the panel normal against the idealized optimal
// orientation for the latitude (tilt ≈ |latitude|, facing the equator;
// azimuth is measured from equator-facing). The loss grows monotonically
// with the angular deviation and saturates at maxOrientationLoss.
func OrientationLoss(tiltDeg, azimuthDeg float64, coords types.Coordinates) float64 {
	optTilt := math.Abs(coords.LatitudeDeg)

	// unit normals in (east, equator, up) coordinates
	st, ct := math.Sincos(toRad(tiltDeg))
	sa, ca := math.Sincos(toRad(azimuthDeg))
	panel := [3]float64{st * sa, st * ca, ct}

	so, co := math.Sincos(toRad(optTilt))
	optimal := [3]float64{0, so, co}

	dot := panel[0]*optimal[0] + panel[1]*optimal[1] + panel[2]*optimal[2]
	if dot > 1 {
		dot = 1
	}
	if dot < -1 {
		dot = -1
	}

	// (1-cosθ)/2 maps the deviation angle onto [0,1]
	return maxOrientationLoss * (1 - dot) / 2
}

// DefaultLosses assembles the loss breakdown for a system: the geometric
// orientation loss plus defaulted shading-independent components. The
// system's own loss fraction lands in Other. Shading is a measured input
// and stays whatever the caller sets afterwards.
func DefaultLosses(params types.SystemParameters, coords types.Coordinates) types.LossBreakdown {
	return types.LossBreakdown{
		Orientation: OrientationLoss(params.TiltDeg, params.AzimuthDeg, coords),
		Temperature: defaultTemperatureLoss,
		Soiling:     defaultSoilingLoss,
		Mismatch:    defaultMismatchLoss,
		Cabling:     defaultCablingLoss,
		Other:       params.SystemLossFraction,
	}
}
