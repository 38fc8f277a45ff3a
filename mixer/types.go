// types.go
package mixer

import "fmt"

// Channel identifies the nominal stereo role of an input track, used to
// derive a default RouteMap column selection when none is supplied.
// Corresponds to the "channel designation" field in the Track data model.
type Channel int

const (
	ChannelMono Channel = iota
	ChannelLeft
	ChannelRight
)

func (c Channel) String() string {
	switch c {
	case ChannelMono:
		return "mono"
	case ChannelLeft:
		return "left"
	case ChannelRight:
		return "right"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// SampleSource is the random-access, time-indexed interface the engine
// requires from every input track (spec §4.1). The clip/sequence storage
// backend and any GUI/effects layer sit behind this interface; the engine
// never sees them directly.
type SampleSource interface {
	// GetFloats reads count consecutive samples starting at integer sample
	// index startIndex. A nil slice (with a nil error) means "treat as
	// silence" — the engine zero-fills. If mayThrow is true, a genuine read
	// failure may be returned as a non-nil error instead.
	GetFloats(startIndex int64, count int, mayThrow bool) ([]float64, error)

	// GetEnvelopeValues fills out[0:len(out)) with the track's gain
	// envelope evaluated at startTimeSeconds + i/SampleRate() for each i.
	GetEnvelopeValues(out []float64, startTimeSeconds float64)

	// TimeToLongSamples maps a time in seconds to a signed 64-bit sample
	// index. Must be deterministic; ties round half-to-even.
	TimeToLongSamples(seconds float64) int64

	SampleRate() int
	Channel() Channel
	StartTime() float64
	EndTime() float64

	// ChannelGain returns the static per-output-channel gain for this
	// track's channel c (0-based), used when applyGains is set.
	ChannelGain(c int) float64
}

// BoundedEnvelope is a time-varying, range-bounded scalar signal (spec
// §3). The warp envelope driving variable-rate playback implements this;
// so does nothing else in the engine — it's the one place a caller-owned
// curve crosses into the mixdown core.
type BoundedEnvelope interface {
	// AverageOfInverse returns the time-average of 1/value(t) over
	// [t0,t1]: the relative length increase of the warped interval.
	AverageOfInverse(t0, t1 float64) float64
	RangeLower() float64
	RangeUpper() float64
}

// EngineError is the small internal error-code enum the engine's own
// validation paths use, mirroring the internal resample package's
// ErrorCode / mapError (see resampler.go's wrapResampleErr).
type EngineError int

const (
	errNone EngineError = iota
	errBadChannelCount
	errBadRouteMap
	errBadWarpOptions
	errBadSpeed
	errBadBufferSize
	errReadFailed
	errResample
)

func (e EngineError) Error() string {
	switch e {
	case errNone:
		return "no error"
	case errBadChannelCount:
		return "invalid output channel count"
	case errBadRouteMap:
		return "route map dimensions do not match engine configuration"
	case errBadWarpOptions:
		return "invalid warp options: min/max speed out of range"
	case errBadSpeed:
		return "speed must be finite and non-zero"
	case errBadBufferSize:
		return "buffer size must be positive"
	case errReadFailed:
		return "sample source read failed"
	case errResample:
		return "resampler backend failure"
	default:
		return fmt.Sprintf("engine error %d", int(e))
	}
}

func mapEngineError(code EngineError) error {
	if code == errNone {
		return nil
	}
	return code
}
