// warp.go
package mixer

import "math"

// WarpOptions selects between constant-rate and variable-rate playback
// (spec §3). Exactly one of Envelope or the (MinSpeed, MaxSpeed) pair may
// drive a variable rate; if neither is set, playback is constant-rate at
// InitialSpeed.
type WarpOptions struct {
	Envelope      BoundedEnvelope
	MinSpeed      float64
	MaxSpeed      float64
	HasSpeedRange bool
	InitialSpeed  float64
}

// isVariable reports whether this configuration requires per-slice
// warp-factor evaluation rather than a single constant ratio.
func (w WarpOptions) isVariable() bool {
	return w.Envelope != nil || w.HasSpeedRange
}

// rangeLowerUpper returns the (min,max) multiplier WarpEvaluator can ever
// report for AverageOfInverse, used to derive ResampleParameters.
func (w WarpOptions) rangeLowerUpper() (lower, upper float64) {
	switch {
	case w.Envelope != nil:
		return 1.0 / w.Envelope.RangeUpper(), 1.0 / w.Envelope.RangeLower()
	case w.HasSpeedRange:
		return 1.0 / w.MaxSpeed, 1.0 / w.MinSpeed
	default:
		return 1.0 / w.InitialSpeed, 1.0 / w.InitialSpeed
	}
}

// resampleParameters computes the per-track (minFactor, maxFactor) pair
// from spec §3: the nominal rate ratio divided by the effective speed
// range, bracketed so minFactor <= maxFactor and both stay finite and
// positive.
func resampleParameters(outputRate, trackRate int, warp WarpOptions) (minFactor, maxFactor float64) {
	nominal := float64(outputRate) / float64(trackRate)
	lower, upper := warp.rangeLowerUpper()
	a, b := nominal*lower, nominal*upper
	if a > b {
		a, b = b, a
	}
	if !(a > 0) || math.IsInf(a, 0) {
		a = nominal / srcMaxRatioBound
	}
	if !(b > 0) || math.IsInf(b, 0) {
		b = nominal * srcMaxRatioBound
	}
	return a, b
}

// srcMaxRatioBound mirrors the internal resample package's own
// srcMaxRatio (state.go): the resampler backing every TrackMixer can't
// honor a factor outside [1/256, 256] regardless of what the warp
// envelope asks for, so degenerate bounds fall back to that range rather
// than to zero or +Inf.
const srcMaxRatioBound = 256.0

// warpEvaluator evaluates the averaged-inverse-speed factor WarpEvaluator
// multiplies into the base rate factor per processed slice (spec §4.4).
type warpEvaluator struct {
	opts WarpOptions
}

func newWarpEvaluator(opts WarpOptions) warpEvaluator {
	return warpEvaluator{opts: opts}
}

// factorForSlice returns the warp multiplier for a slice of sliceLen
// samples about to be read from a track sampled at trackRate, starting
// at forward-time t and running backwards if backwards is true. For
// backwards playback the interval handed to AverageOfInverse is the
// slice's forward-time span equivalent, per spec §4.4:
// (t - delta + tstep, t + tstep) where delta = sliceLen/trackRate and
// tstep = 1/trackRate.
func (w warpEvaluator) factorForSlice(t float64, sliceLen int, trackRate int, backwards bool) float64 {
	if w.opts.Envelope == nil {
		return 1.0
	}
	tstep := 1.0 / float64(trackRate)
	if !backwards {
		return w.opts.Envelope.AverageOfInverse(t, t+float64(sliceLen)*tstep)
	}
	delta := float64(sliceLen) * tstep
	return w.opts.Envelope.AverageOfInverse(t-delta+tstep, t+tstep)
}
