// trackmixer.go
package mixer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// TrackMixer is the per-input-track pipeline from spec §4.6: fetch from
// the SampleSource, multiply by the gain envelope, reverse (for
// backwards playback), optionally resample, and deliver float64 samples
// into a caller-provided scratch buffer. MixerEngine owns one TrackMixer
// per input and decides per-call whether MixSameRate or MixVariableRates
// applies.
type TrackMixer struct {
	source      SampleSource
	outputRate  int
	trackRate   int
	highQuality bool
	warp        WarpOptions
	evaluator   warpEvaluator

	useVariable bool
	resampler   Resampler
	queue       *sampleQueue
	envScratch  []float64

	pos       int64
	exhausted bool
}

// NewTrackMixer constructs the pipeline for one input track. bufferSize
// is the engine's B (spec §3), used only to size the envelope scratch
// buffer generously enough for both the queue refill path and the
// same-rate path.
func NewTrackMixer(source SampleSource, outputRate, bufferSize int, warp WarpOptions, highQuality bool) (*TrackMixer, error) {
	trackRate := source.SampleRate()
	tm := &TrackMixer{
		source:      source,
		outputRate:  outputRate,
		trackRate:   trackRate,
		highQuality: highQuality,
		warp:        warp,
		evaluator:   newWarpEvaluator(warp),
		useVariable: trackRate != outputRate || warp.isVariable(),
	}
	scratchLen := queueCapacity
	if bufferSize > scratchLen {
		scratchLen = bufferSize
	}
	tm.envScratch = make([]float64, scratchLen)

	if tm.useVariable {
		minFactor, maxFactor := resampleParameters(outputRate, trackRate, warp)
		r, err := NewResampler(highQuality, minFactor, maxFactor)
		if err != nil {
			return nil, fmt.Errorf("mixer: track mixer resampler: %w", err)
		}
		tm.resampler = r
		tm.queue = newSampleQueue()
	}
	return tm, nil
}

// Position returns the current integer sample index cursor.
func (tm *TrackMixer) Position() int64 { return tm.pos }

// TrackRate returns this track's native sample rate.
func (tm *TrackMixer) TrackRate() int { return tm.trackRate }

// UsesVariableRates reports whether this track mixer resamples, i.e.
// whether MixerEngine will call MixVariableRates rather than
// MixSameRate for it (spec §4.6).
func (tm *TrackMixer) UsesVariableRates() bool { return tm.useVariable }

// ResetToTime repositions the track mixer to time t (converted through
// the source's own TimeToLongSamples) and clears the pre-resample queue.
// When skipping is true the resampler itself is destroyed and recreated,
// working around the flushed-resampler-reuse hazard (spec §4.8, §9).
func (tm *TrackMixer) ResetToTime(t float64, skipping bool) error {
	tm.pos = tm.source.TimeToLongSamples(t)
	tm.exhausted = false
	if tm.queue != nil {
		tm.queue.reset()
	}
	if skipping && tm.useVariable {
		if closer, ok := tm.resampler.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
		minFactor, maxFactor := resampleParameters(tm.outputRate, tm.trackRate, tm.warp)
		r, err := NewResampler(tm.highQuality, minFactor, maxFactor)
		if err != nil {
			return fmt.Errorf("mixer: recreating resampler on reposition: %w", err)
		}
		tm.resampler = r
	}
	return nil
}

// Close releases the underlying resampler, if any.
func (tm *TrackMixer) Close() error {
	if closer, ok := tm.resampler.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func (tm *TrackMixer) endBoundary(t0, t1 float64) (tEnd float64, endPos int64, backwards bool) {
	backwards = t1 < t0
	if backwards {
		tEnd = math.Max(tm.source.StartTime(), t1)
	} else {
		tEnd = math.Min(tm.source.EndTime(), t1)
	}
	endPos = tm.source.TimeToLongSamples(tEnd)
	return
}

// MixSameRate implements spec §4.6's same-rate algorithm: a single block
// read, envelope multiply, optional reversal, no resampling.
func (tm *TrackMixer) MixSameRate(maxOut int, out []float64, t0, t1 float64, mayThrow bool) (int, error) {
	if maxOut == 0 {
		return 0, nil
	}
	rateF := float64(tm.trackRate)
	tEnd, _, backwards := tm.endBoundary(t0, t1)

	t := float64(tm.pos) / rateF
	if backwards {
		if t <= tEnd {
			return 0, nil
		}
	} else if t >= tEnd {
		return 0, nil
	}

	var span float64
	if backwards {
		span = t - tEnd
	} else {
		span = tEnd - t
	}
	slen := int(math.Round(span * rateF))
	if slen > maxOut {
		slen = maxOut
	}
	if slen <= 0 {
		return 0, nil
	}

	var readStart int64
	if backwards {
		readStart = tm.pos - int64(slen)
	} else {
		readStart = tm.pos
	}

	samples, err := tm.source.GetFloats(readStart, slen, mayThrow)
	if err != nil {
		return 0, fmt.Errorf("mixer: same-rate read: %w", err)
	}
	dst := out[:slen]
	if samples == nil {
		for i := range dst {
			dst[i] = 0
		}
	} else {
		copy(dst, samples)
	}

	env := tm.envScratch[:slen]
	tm.source.GetEnvelopeValues(env, float64(readStart)/rateF)
	floats.MulTo(dst, dst, env)

	if backwards {
		floats.Reverse(dst)
		tm.pos -= int64(slen)
	} else {
		tm.pos += int64(slen)
	}
	return slen, nil
}

// MixVariableRates implements spec §4.6's resampling algorithm: refill
// the pre-resample queue, size a processing slice, evaluate the warp
// factor for that slice, and hand it to the resampler, looping until
// maxOut samples have been produced or the track is exhausted.
func (tm *TrackMixer) MixVariableRates(maxOut int, out []float64, t0, t1, currentSpeed float64, mayThrow bool) (int, error) {
	if maxOut == 0 {
		return 0, nil
	}
	if len(out) < maxOut+1 {
		panic("mixer: TrackMixer.MixVariableRates requires len(out) >= maxOut+1")
	}
	if tm.exhausted {
		return 0, nil
	}

	rateF := float64(tm.trackRate)
	tEnd, endPos, backwards := tm.endBoundary(t0, t1)

	sign := 1.0
	if backwards {
		sign = -1.0
	}
	t := (float64(tm.pos) - sign*float64(tm.queue.length)) / rateF

	written := 0
	for written < maxOut {
		if tm.queue.length < queueProcessingSlice {
			var remaining int64
			if backwards {
				remaining = tm.pos - endPos
			} else {
				remaining = endPos - tm.pos
			}
			if remaining < 0 {
				remaining = 0
			}
			getLen := int(remaining)
			slots := tm.queue.appendSlots(getLen)
			if len(slots) > 0 {
				n := len(slots)
				var readStart int64
				if backwards {
					readStart = tm.pos - int64(n)
				} else {
					readStart = tm.pos
				}
				samples, err := tm.source.GetFloats(readStart, n, mayThrow)
				if err != nil {
					return written, fmt.Errorf("mixer: variable-rate read: %w", err)
				}
				if samples == nil {
					for i := range slots {
						slots[i] = 0
					}
				} else {
					copy(slots, samples)
				}
				env := tm.envScratch[:n]
				tm.source.GetEnvelopeValues(env, float64(readStart)/rateF)
				floats.MulTo(slots, slots, env)
				if backwards {
					floats.Reverse(slots)
					tm.pos -= int64(n)
				} else {
					tm.pos += int64(n)
				}
				tm.queue.commit(n)
			}
		}

		sliceLen := tm.queue.length
		if sliceLen > queueProcessingSlice {
			sliceLen = queueProcessingSlice
		}
		isLast := tm.queue.length < queueProcessingSlice

		factor := (float64(tm.outputRate) / currentSpeed) / rateF
		factor *= tm.evaluator.factorForSlice(t, sliceLen, tm.trackRate, backwards)

		outMax := maxOut - written
		used, produced, err := tm.resampler.Process(factor, tm.queue.window()[:sliceLen], sliceLen, isLast, out[written:written+outMax+1], outMax)
		if err != nil {
			return written, fmt.Errorf("mixer: resample: %w", err)
		}

		tm.queue.consume(used)
		written += produced
		t += (float64(used) / rateF) * sign

		if isLast {
			tm.exhausted = true
			break
		}
		if used == 0 && produced == 0 {
			// No progress possible without more input or output space.
			break
		}
	}
	return written, nil
}
