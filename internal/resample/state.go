// state.go
package resample

import (
	"math"
)

// SrcData describes one Process call: the input/output buffers, how many
// frames are available/wanted, the target ratio, and whether this is the
// final block for the stream. It is the same shape mixer.Resampler's
// adapter builds per call (see mixer/resampler.go's srcResampler.Process).
type SrcData struct {
	DataIn  []float32
	DataOut []float32

	InputFrames  int64
	OutputFrames int64

	InputFramesUsed int64
	OutputFramesGen int64

	EndOfInput bool
	SrcRatio   float64
}

// srcState holds the internal state for a converter instance. Unlike the
// upstream C library this backend only ever runs in one-shot/streaming
// Process mode; the callback-driven mode and its associated fields never
// existed here, since mixer.Resampler never drives a converter that way.
type srcState struct {
	vt *srcStateVT

	lastRatio    float64
	lastPosition float64

	errCode  ErrorCode
	channels int

	privateData interface{}
}

type srcStateVT struct {
	variProcess  func(state *srcState, data *SrcData) ErrorCode
	constProcess func(state *srcState, data *SrcData) ErrorCode
	reset        func(state *srcState)
	copy         func(state *srcState) *srcState
	close        func(state *srcState)
}

// ConverterType identifies the sample rate conversion algorithm. The
// backend still implements every quality tier the Sinc state machine
// shares code between (see sinc.go), but mixer.NewResampler only ever
// requests Linear or SincBestQuality (spec §4.2's highQuality knob).
type ConverterType int

const (
	SincBestQuality   ConverterType = 0
	SincMediumQuality ConverterType = 1
	SincFastest       ConverterType = 2
	Linear            ConverterType = 4
)

// ErrorCode enumerates the failures this backend can report. It is
// trimmed to the codes the retained Linear/Sinc converters and the
// Process/Reset/Clone dispatch can actually produce; ConverterError
// carries it across the mixer package boundary (see errors.go).
type ErrorCode int

const (
	ErrNoError ErrorCode = iota
	ErrMallocFailed
	ErrBadState
	ErrBadData
	ErrBadDataPtr
	ErrBadSrcRatio
	ErrBadProcPtr
	ErrBadConverter
	ErrBadChannelCount
	ErrSincPrepareDataBadLen
	ErrBadInternalState
)

const (
	srcMaxRatio     = 256.0
	srcMaxRatioStr  = "256"
	srcMinRatioDiff = 1e-20
)

func psfLrint(x float64) int {
	return int(math.Round(x + 0.0))
}

func psfLrintf(x float32) int {
	return int(math.Round(float64(x) + 0.0))
}

// fmodOne calculates x mod 1.0, ensuring the result is in [0.0, 1.0).
func fmodOne(x float64) float64 {
	res := math.Mod(x, 1.0)
	if res < 0.0 {
		res += 1.0
	}
	if res >= 1.0 {
		res = 0.0
	}
	return res
}

func isValidRatio(ratio float64) bool {
	return !(ratio < (1.0/srcMaxRatio) || ratio > srcMaxRatio)
}

func isBadSrcRatio(ratio float64) bool {
	return ratio < (1.0/srcMaxRatio) || ratio > srcMaxRatio
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minFloat64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
