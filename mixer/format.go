// format.go
package mixer

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// Format is the output numeric sample format (spec §3, §6).
type Format int

const (
	FormatFloat32 Format = iota
	FormatInt16
	FormatInt32
)

// BytesPerSample returns the on-the-wire size of one sample in this
// format.
func (f Format) BytesPerSample() int {
	switch f {
	case FormatFloat32:
		return 4
	case FormatInt32:
		return 4
	default:
		return 2
	}
}

// DitherMode selects the shaped-noise strength applied when converting
// to an integer format (spec §4.7 step 5, GLOSSARY "Dither"). Floating
// point output is never dithered.
type DitherMode int

const (
	DitherLow DitherMode = iota
	DitherHigh
)

// ditherer adds triangular-PDF noise (low quality) or first-order
// noise-shaped triangular-PDF noise (high quality) ahead of quantization,
// mirroring the teacher's own FloatToShortArray/FloatToIntArray rounding
// (psfLrint, round-half-away-from-zero) while adding the decorrelating
// noise those helpers never did (they were one-shot conversions with no
// dither parameter).
type ditherer struct {
	mode     DitherMode
	rng      *rand.Rand
	prevErr  []float64
}

func newDitherer(mode DitherMode, numChannels int) *ditherer {
	return &ditherer{
		mode:    mode,
		rng:     rand.New(rand.NewPCG(1, 2)),
		prevErr: make([]float64, numChannels),
	}
}

// triangularNoise returns noise in [-1,1) with a triangular distribution
// (sum of two independent uniforms), the standard TPDF dither shape.
func (d *ditherer) triangularNoise() float64 {
	return (d.rng.Float64() - d.rng.Float64())
}

// quantize converts one sample on channel c to an integer sample of
// fullScale amplitude, applying dither and, for DitherHigh, first-order
// noise shaping that feeds back the previous sample's quantization
// error.
func (d *ditherer) quantize(c int, x float64, fullScale float64) float64 {
	if d.mode == DitherHigh {
		x += d.prevErr[c]
	}
	dithered := x*fullScale + d.triangularNoise()
	rounded := math.Round(dithered)
	if d.mode == DitherHigh {
		d.prevErr[c] = (dithered - rounded) / fullScale
	}
	return rounded
}

// writeOutput converts the first n samples of each channel accumulator
// to the engine's configured format, laying them out interleaved
// (stride = numChannels) or planar (one destination slice per channel).
func writeOutput(format Format, dith *ditherer, accum [][]float64, n int, interleaved bool, dst []byte, planarDst [][]byte) {
	writeOutputFrom(format, dith, accum, 0, n, interleaved, dst, planarDst)
}

// writeOutputFrom is writeOutput generalized to accumulators that start
// at a non-zero real channel index, so a single-channel planar render
// (MixerEngine.GetChannelBuffer) still keys the noise-shaping dither
// state to the channel it actually belongs to instead of always 0.
func writeOutputFrom(format Format, dith *ditherer, accum [][]float64, chanOffset int, n int, interleaved bool, dst []byte, planarDst [][]byte) {
	numChannels := len(accum)
	bps := format.BytesPerSample()

	put := func(buf []byte, offset int, ch int, v float64) {
		switch format {
		case FormatFloat32:
			bits := math.Float32bits(float32(v))
			binary.LittleEndian.PutUint32(buf[offset:], bits)
		case FormatInt16:
			q := dith.quantize(ch, v, 32767.0)
			s := clampSample(q, -32768, 32767)
			binary.LittleEndian.PutUint16(buf[offset:], uint16(int16(s)))
		case FormatInt32:
			q := dith.quantize(ch, v, 2147483647.0)
			s := clampSample(q, math.MinInt32, math.MaxInt32)
			binary.LittleEndian.PutUint32(buf[offset:], uint32(int32(s)))
		}
	}

	if interleaved {
		for k := 0; k < n; k++ {
			base := k * numChannels * bps
			for c := 0; c < numChannels; c++ {
				put(dst, base+c*bps, chanOffset+c, accum[c][k])
			}
		}
		return
	}

	for c := 0; c < numChannels; c++ {
		buf := planarDst[c]
		for k := 0; k < n; k++ {
			put(buf, k*bps, chanOffset+c, accum[c][k])
		}
	}
}

func clampSample(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
