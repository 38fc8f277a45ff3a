// util.go
package mixer

import "math"

// clamp restricts x to the interval bounded by a and b, in either order
// (several spec formulas write clamp(x, T1, mTime) where T1 may be
// larger or smaller than mTime depending on playback direction).
func clamp(x, a, b float64) float64 {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func isFiniteNonZero(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x != 0
}
