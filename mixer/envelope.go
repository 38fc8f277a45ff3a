// envelope.go
package mixer

import (
	"sort"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat"
)

// ConstantEnvelope is a BoundedEnvelope that never varies: speed is fixed
// at Speed for all time. AverageOfInverse degenerates to 1/Speed exactly,
// so WarpEvaluator's quadrature path is skipped in favor of stat.Mean over
// a single-sample series (kept for uniformity with PiecewiseEnvelope's
// reporting, not because the mean of one value needs a library call).
type ConstantEnvelope struct {
	Speed float64
}

func (c ConstantEnvelope) AverageOfInverse(t0, t1 float64) float64 {
	return stat.Mean([]float64{1.0 / c.Speed}, nil)
}

func (c ConstantEnvelope) RangeLower() float64 { return c.Speed }
func (c ConstantEnvelope) RangeUpper() float64 { return c.Speed }

// breakpoint is one (time, speed) knot of a PiecewiseEnvelope.
type breakpoint struct {
	t     float64
	speed float64
}

// PiecewiseEnvelope is a BoundedEnvelope defined by linearly-interpolated
// speed breakpoints, the concrete shape the teacher's timewarp_test.go
// exercises via its warpData []timeWarpFactor table (index-keyed there
// because it walks input frames; here keyed by time, which is what the
// engine's WarpEvaluator needs).
type PiecewiseEnvelope struct {
	points []breakpoint
	lower  float64
	upper  float64
}

// NewPiecewiseEnvelope builds an envelope from unordered (time, speed)
// pairs; speed values must be strictly positive. Points are sorted by
// time on construction.
func NewPiecewiseEnvelope(times, speeds []float64) *PiecewiseEnvelope {
	if len(times) != len(speeds) {
		panic("mixer: PiecewiseEnvelope times and speeds length mismatch")
	}
	pts := make([]breakpoint, len(times))
	lower, upper := speeds[0], speeds[0]
	for i := range times {
		if speeds[i] <= 0 {
			panic("mixer: PiecewiseEnvelope speed must be strictly positive")
		}
		pts[i] = breakpoint{t: times[i], speed: speeds[i]}
		if speeds[i] < lower {
			lower = speeds[i]
		}
		if speeds[i] > upper {
			upper = speeds[i]
		}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].t < pts[j].t })
	return &PiecewiseEnvelope{points: pts, lower: lower, upper: upper}
}

func (p *PiecewiseEnvelope) RangeLower() float64 { return p.lower }
func (p *PiecewiseEnvelope) RangeUpper() float64 { return p.upper }

// speedAt linearly interpolates speed at time t, holding the end values
// constant outside the breakpoint range.
func (p *PiecewiseEnvelope) speedAt(t float64) float64 {
	pts := p.points
	if len(pts) == 0 {
		return 1.0
	}
	if t <= pts[0].t {
		return pts[0].speed
	}
	if t >= pts[len(pts)-1].t {
		return pts[len(pts)-1].speed
	}
	// Find the bracketing segment; len(pts) is small (warp tables are
	// hand-authored breakpoint lists, not per-sample data), so a linear
	// scan matches the teacher's own style (e.g. the warpIndex walk in
	// timewarp_test.go) rather than a binary search.
	i := 0
	for i+1 < len(pts) && pts[i+1].t < t {
		i++
	}
	a, b := pts[i], pts[i+1]
	frac := (t - a.t) / (b.t - a.t)
	return a.speed + frac*(b.speed-a.speed)
}

const quadNodes = 16

// AverageOfInverse integrates 1/speed(t) over [t0,t1] with fixed-point
// Gauss-Legendre quadrature and divides by the interval length, giving
// the time-averaged relative length increase WarpEvaluator needs (spec
// §3, §4.4). t0 may be greater than t1 (the reverse-playback case in
// §4.4); the result is always the unsigned average over the interval.
func (p *PiecewiseEnvelope) AverageOfInverse(t0, t1 float64) float64 {
	lo, hi := t0, t1
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi <= lo {
		return 1.0 / p.speedAt(lo)
	}
	integral := quad.Fixed(func(t float64) float64 {
		return 1.0 / p.speedAt(t)
	}, lo, hi, quadNodes, nil, nil)
	return integral / (hi - lo)
}
