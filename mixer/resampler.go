// resampler.go
package mixer

import (
	"errors"
	"fmt"

	"github.com/achirizzi/go-audio-mixdown/internal/resample"
)

// Resampler is the narrow variable-factor rate-conversion interface the
// engine consumes (spec §4.2). factor is output/input, so factor > 1
// upsamples. isLast signals end-of-stream so an implementation may flush
// its tail. After a call with isLast set, the instance is exhausted;
// TrackMixer.ResetToTime (driven by MixerEngine.Reposition's skipping path)
// discards and recreates it rather than reusing it (spec §4.8, §9).
type Resampler interface {
	Process(factor float64, in []float64, inLen int, isLast bool, out []float64, outMax int) (inUsed, outProduced int, err error)
}

// NewResampler is the Resampler factory named in spec §6:
// (highQuality, minFactor, maxFactor). It is backed by the internal
// resample package: highQuality selects SincBestQuality, the fast path
// selects Linear, matching the quality knob MixerEngine already exposes
// for dither (spec §4.7 step 5).
func NewResampler(highQuality bool, minFactor, maxFactor float64) (Resampler, error) {
	converterType := resample.Linear
	if highQuality {
		converterType = resample.SincBestQuality
	}
	conv, err := resample.New(converterType, 1)
	if err != nil {
		return nil, wrapResampleErr("creating resampler", err)
	}
	return &srcResampler{
		conv:      conv,
		minFactor: minFactor,
		maxFactor: maxFactor,
	}, nil
}

// wrapResampleErr folds a *resample.ConverterError into the engine's own
// EngineError taxonomy (errResample) while keeping the backend's detail
// readable via %w/errors.Unwrap, instead of letting a second, unrelated
// error vocabulary leak out of mixer's public API.
func wrapResampleErr(context string, err error) error {
	if err == nil {
		return nil
	}
	var ce *resample.ConverterError
	if errors.As(err, &ce) {
		return fmt.Errorf("mixer: %s: %w: %v", context, mapEngineError(errResample), ce)
	}
	return fmt.Errorf("mixer: %s: %w", context, err)
}

// srcResampler adapts resample.Converter (float32 buffers, a single
// SrcData struct describing one call) to the engine's float64,
// positional Resampler contract.
type srcResampler struct {
	conv       resample.Converter
	minFactor  float64
	maxFactor  float64
	inScratch  []float32
	outScratch []float32
}

func (r *srcResampler) Process(factor float64, in []float64, inLen int, isLast bool, out []float64, outMax int) (int, int, error) {
	if factor < r.minFactor {
		factor = r.minFactor
	}
	if factor > r.maxFactor {
		factor = r.maxFactor
	}

	if cap(r.inScratch) < inLen {
		r.inScratch = make([]float32, inLen)
	}
	inBuf := r.inScratch[:inLen]
	for i := 0; i < inLen; i++ {
		inBuf[i] = float32(in[i])
	}

	if cap(r.outScratch) < outMax {
		r.outScratch = make([]float32, outMax)
	}
	outBuf := r.outScratch[:outMax]

	data := resample.SrcData{
		DataIn:       inBuf,
		InputFrames:  int64(inLen),
		DataOut:      outBuf,
		OutputFrames: int64(outMax),
		SrcRatio:     factor,
		EndOfInput:   isLast,
	}
	if err := r.conv.Process(&data); err != nil {
		return 0, 0, wrapResampleErr("resampler process", err)
	}

	produced := int(data.OutputFramesGen)
	for i := 0; i < produced && i < len(out); i++ {
		out[i] = float64(outBuf[i])
	}
	return int(data.InputFramesUsed), produced, nil
}

// Close releases the underlying converter.
func (r *srcResampler) Close() error {
	return r.conv.Close()
}
