// engine.go
package mixer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// MixerEngine orchestrates every input track's TrackMixer over a shared
// time interval, sums their contributions into per-channel accumulators
// under gain and routing, and converts the result to the output format
// with dither (spec §4.7, §4.8, §6). One engine is built per mixdown
// session; inputs are fixed for its lifetime (spec §3 "Lifecycles").
type MixerEngine struct {
	tracks []*TrackMixer
	sources []SampleSource

	numChannels int
	outputRate  int
	format      Format
	interleaved bool
	highQuality bool
	bufferSize  int

	t0, t1  float64
	mTime   float64
	speed   float64
	warp    WarpOptions
	route   *RouteMap
	applyGains bool
	mayThrow   bool

	accum   [][]float64
	scratch [2][]float64
	dith    *ditherer
}

// NewMixerEngine builds the engine for a fixed set of inputs (spec §6's
// constructor). routeMap is accepted only when its dimensions match
// (numChannels, len(inputs)); a mismatched or nil map means "derive
// routing from channel designation" per §4.7 step 3, never an error.
func NewMixerEngine(
	inputs []SampleSource,
	mayThrow bool,
	warp WarpOptions,
	t0, t1 float64,
	numChannels, bufferSize int,
	interleaved bool,
	outputRate int,
	format Format,
	highQuality bool,
	routeMap *RouteMap,
	applyGains bool,
) (*MixerEngine, error) {
	if numChannels <= 0 {
		return nil, mapEngineError(errBadChannelCount)
	}
	if bufferSize <= 0 {
		return nil, mapEngineError(errBadBufferSize)
	}
	speed := warp.InitialSpeed
	if speed == 0 {
		speed = 1
	}
	if !isFiniteNonZero(speed) {
		return nil, mapEngineError(errBadSpeed)
	}
	if warp.HasSpeedRange && (warp.MinSpeed <= 0 || warp.MaxSpeed < warp.MinSpeed) {
		return nil, mapEngineError(errBadWarpOptions)
	}

	if routeMap != nil && (routeMap.NumChannels() != numChannels || routeMap.NumTracks() != len(inputs)) {
		routeMap = nil
	}

	ditherMode := DitherLow
	if highQuality {
		ditherMode = DitherHigh
	}

	e := &MixerEngine{
		sources:     inputs,
		numChannels: numChannels,
		outputRate:  outputRate,
		format:      format,
		interleaved: interleaved,
		highQuality: highQuality,
		bufferSize:  bufferSize,
		t0:          t0,
		t1:          t1,
		mTime:       t0,
		speed:       math.Abs(speed),
		warp:        warp,
		route:       routeMap,
		applyGains:  applyGains,
		mayThrow:    mayThrow,
		dith:        newDitherer(ditherMode, numChannels),
	}

	e.accum = make([][]float64, numChannels)
	for c := range e.accum {
		e.accum[c] = make([]float64, bufferSize)
	}
	e.scratch[0] = make([]float64, bufferSize+1)
	e.scratch[1] = make([]float64, bufferSize+1)

	e.tracks = make([]*TrackMixer, len(inputs))
	for i, src := range inputs {
		tm, err := NewTrackMixer(src, outputRate, bufferSize, warp, highQuality)
		if err != nil {
			return nil, fmt.Errorf("mixer: building track %d: %w", i, err)
		}
		tm.pos = src.TimeToLongSamples(t0)
		e.tracks[i] = tm
	}

	return e, nil
}

// SetDitherMode selects low- or high-quality dither for subsequent
// GetBuffer/GetChannelBuffer calls, overriding the mode chosen from
// highQuality at construction (spec §4.7 step 5).
func (e *MixerEngine) SetDitherMode(mode DitherMode) {
	e.dith = newDitherer(mode, e.numChannels)
}

// BufferSize returns the engine's configured block size B.
func (e *MixerEngine) BufferSize() int { return e.bufferSize }

// MixGetCurrentTime returns the engine's current mix-position time.
func (e *MixerEngine) MixGetCurrentTime() float64 { return e.mTime }

// runLength determines the contiguous-run length nIn starting at leader
// index i: a Left track immediately followed by a Right track is treated
// as one logical two-channel source (spec §4.7 step 3, §9 "Leader
// track"); SampleSource exposes no direct channel-count field, so this
// adjacency on Channel() is the engine's only signal, matching the
// Left/Right pairing the default RouteMap derivation already assumes.
func (e *MixerEngine) runLength(i int) int {
	if i+1 < len(e.tracks) &&
		e.sources[i].Channel() == ChannelLeft &&
		e.sources[i+1].Channel() == ChannelRight {
		return 2
	}
	return 1
}

// Process implements spec §4.7: one mixdown block of up to maxToProcess
// samples. Panics if maxToProcess exceeds BufferSize(), matching the
// one caller-contract violation spec §7 calls out as an assertion.
func (e *MixerEngine) Process(maxToProcess int) (int, error) {
	if maxToProcess > e.bufferSize {
		panic("mixer: MixerEngine.Process: maxToProcess exceeds buffer size")
	}
	if maxToProcess == 0 {
		return 0, nil
	}

	for c := range e.accum {
		buf := e.accum[c][:maxToProcess]
		for k := range buf {
			buf[k] = 0
		}
	}

	backwards := e.t1 < e.t0
	maxOut := 0
	newTime := e.mTime

	for i := 0; i < len(e.tracks); {
		nIn := e.runLength(i)
		groupLen := nIn
		if groupLen > 2 {
			groupLen = 2
		}

		mixedLen := [2]int{}

		for j := 0; j < groupLen; j++ {
			ii := i + j
			tm := e.tracks[ii]
			scratch := e.scratch[j]

			var n int
			var err error
			if tm.UsesVariableRates() {
				n, err = tm.MixVariableRates(maxToProcess, scratch, e.t0, e.t1, e.speed, e.mayThrow)
			} else {
				n, err = tm.MixSameRate(maxToProcess, scratch, e.t0, e.t1, e.mayThrow)
			}
			if err != nil {
				return 0, fmt.Errorf("mixer: processing track %d: %w", ii, err)
			}
			mixedLen[j] = n
			if n > maxOut {
				maxOut = n
			}

			trackRateF := float64(tm.TrackRate())
			candidate := float64(tm.Position()) / trackRateF
			if backwards {
				newTime = math.Min(newTime, candidate)
			} else {
				newTime = math.Max(newTime, candidate)
			}
		}

		for j := 0; j < groupLen; j++ {
			ii := i + j
			src := e.sources[ii]
			n := mixedLen[j]
			if n == 0 {
				continue
			}
			scratch := e.scratch[j][:n]

			gains := make([]float64, e.numChannels)
			if e.applyGains {
				for c := range gains {
					gains[c] = src.ChannelGain(c)
				}
			} else {
				for c := range gains {
					gains[c] = 1
				}
			}

			var flags []bool
			if e.route != nil {
				flags = e.route.Row(ii)
			} else {
				flags = defaultRouteFlags(src.Channel(), e.numChannels)
			}

			for c := 0; c < e.numChannels; c++ {
				if !flags[c] {
					continue
				}
				floats.AddScaled(e.accum[c][:n], gains[c], scratch)
			}
		}

		i += groupLen
	}

	if backwards {
		e.mTime = clamp(newTime, e.t1, e.mTime)
	} else {
		e.mTime = clamp(newTime, e.mTime, e.t1)
	}

	return maxOut, nil
}

// GetBuffer converts the accumulated floats from the last Process call
// into the engine's configured output format, interleaved across all
// channels into one contiguous buffer (spec §6).
func (e *MixerEngine) GetBuffer(n int) []byte {
	bps := e.format.BytesPerSample()
	buf := make([]byte, n*e.numChannels*bps)
	writeOutput(e.format, e.dith, e.accum, n, true, buf, nil)
	return buf
}

// GetChannelBuffer converts channel c's accumulated floats from the
// last Process call into the engine's configured output format as a
// standalone (planar) buffer (spec §6's GetBuffer(channel)).
func (e *MixerEngine) GetChannelBuffer(channel, n int) []byte {
	bps := e.format.BytesPerSample()
	buf := make([]byte, n*bps)
	single := [][]float64{e.accum[channel]}
	writeOutputFrom(e.format, e.dith, single, channel, n, false, nil, [][]byte{buf})
	return buf
}

// Reposition implements spec §4.8: clamp t into the direction-corrected
// interval, reset every track's cursor and queue, and — if skipping —
// discard and recreate every resampler.
func (e *MixerEngine) Reposition(t float64, skipping bool) error {
	lo, hi := e.t0, e.t1
	if lo > hi {
		lo, hi = hi, lo
	}
	t = clamp(t, lo, hi)
	for i, tm := range e.tracks {
		if err := tm.ResetToTime(t, skipping); err != nil {
			return fmt.Errorf("mixer: repositioning track %d: %w", i, err)
		}
	}
	e.mTime = t
	return nil
}

// SetTimesAndSpeed implements spec §4.8: stores the new interval bounds,
// sets the current playback speed, then repositions to t0.
func (e *MixerEngine) SetTimesAndSpeed(t0, t1, speed float64, skipping bool) error {
	if !isFiniteNonZero(speed) {
		return mapEngineError(errBadSpeed)
	}
	e.t0, e.t1 = t0, t1
	e.speed = math.Abs(speed)
	return e.Reposition(t0, skipping)
}

// SetSpeedForKeyboardScrubbing implements spec §4.8: if speed's sign
// disagrees with the current playback direction, flips direction by
// driving the inactive bound to 0 and the active bound to the largest
// finite value, then repositions with skipping.
func (e *MixerEngine) SetSpeedForKeyboardScrubbing(speed, startTime float64) error {
	if !isFiniteNonZero(speed) {
		return mapEngineError(errBadSpeed)
	}
	currentlyBackwards := e.t1 < e.t0
	wantBackwards := speed < 0
	if wantBackwards != currentlyBackwards {
		if wantBackwards {
			e.t0 = math.MaxFloat64
			e.t1 = 0
		} else {
			e.t0 = 0
			e.t1 = math.MaxFloat64
		}
	}
	e.speed = math.Abs(speed)
	return e.Reposition(startTime, true)
}

// Close releases every per-input resampler (spec's supplemented
// Close/resource-release feature).
func (e *MixerEngine) Close() error {
	var firstErr error
	for _, tm := range e.tracks {
		if err := tm.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
