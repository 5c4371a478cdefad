package finance

import (
	"math"

	"github.com/helioplan/helioplan/pkg/types"
)

// IRR solver budget. Bisection over the bracket below converges to well
// under the 1e-4 absolute tolerance the callers need; 200 iterations is far
// more than the ~61 required to shrink the bracket to irrTolerance.
const (
	irrRateLow   = -0.99
	irrRateHigh  = 10.0
	irrMaxIter   = 200
	irrTolerance = 1e-7
)

// npvAtRate discounts the flow stream at the given rate. flows[0] is year
// zero (the investment, typically negative).
func npvAtRate(flows []float64, rate float64) float64 {
	var npv float64
	for year, f := range flows {
		npv += f / math.Pow(1+rate, float64(year))
	}
	return npv
}

// InternalRateOfReturn finds the discount rate that zeroes the NPV of the
// flow stream, by bisection over [-99%, 1000%]. It returns ErrIRRNotFound
// when the NPV has no sign change over the bracket (flat or monotonically
// negative cash flow).
func InternalRateOfReturn(flows []float64) (float64, error) {
	lo, hi := irrRateLow, irrRateHigh
	fLo := npvAtRate(flows, lo)
	fHi := npvAtRate(flows, hi)
	if fLo == 0 {
		return lo, nil
	}
	if fHi == 0 {
		return hi, nil
	}
	if (fLo > 0) == (fHi > 0) {
		return 0, types.ErrIRRNotFound
	}

	for i := 0; i < irrMaxIter && hi-lo > irrTolerance; i++ {
		mid := (lo + hi) / 2
		fMid := npvAtRate(flows, mid)
		if fMid == 0 {
			return mid, nil
		}
		if (fMid > 0) == (fLo > 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}
