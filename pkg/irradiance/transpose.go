package irradiance

import "math"

// daysInMonth is used to convert daily-average irradiation to monthly
// totals. February uses 28; the engine models typical years, not leap
// years.
var daysInMonth = [12]float64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// tiltFactor approximates the plane-of-array gain of a fixed-tilt array
// over horizontal irradiation. Azimuth is measured from equator-facing
// (0 = facing the equator, positive toward west), so the optimal azimuth
// is 0 in both hemispheres; the optimal tilt tracks |latitude|.
//
// The factor peaks slightly above 1 near the optimal orientation and falls
// off with angular deviation, but never drops below the diffuse floor: even
// a badly oriented panel collects diffuse irradiation.
func tiltFactor(latitudeDeg, tiltDeg, azimuthDeg float64) float64 {
	optimalTilt := math.Abs(latitudeDeg)
	if optimalTilt > 60 {
		optimalTilt = 60
	}

	tiltDev := math.Abs(tiltDeg-optimalTilt) * math.Pi / 180
	azDev := math.Abs(azimuthDeg) * math.Pi / 180
	// azimuth matters less for flat panels
	azWeight := math.Sin(tiltDeg * math.Pi / 180)

	peak := 1 + 0.10*math.Sin(optimalTilt*math.Pi/180)
	f := peak * math.Cos(tiltDev/2) * (1 - azWeight*(1-math.Cos(azDev))/2)

	const diffuseFloor = 0.20
	if f < diffuseFloor {
		f = diffuseFloor
	}
	return f
}
