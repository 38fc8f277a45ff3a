// ulaw.go
package mixer

import "math"

// ulawExpLut is the G.711 decode segment table, carried over from the
// teacher's uLaw2PCM16.go byte-for-byte.
var ulawExpLut = [8]int16{0, 132, 396, 924, 1980, 4092, 8316, 16764}

// ulawToLinearInt16 decodes a single u-law byte to 16-bit linear PCM,
// grounded on uLaw2PCM16.go's ulawToLinearInt16Go.
func ulawToLinearInt16(ulawByte byte) int16 {
	ulaw := ^ulawByte
	sign := ulaw & 0x80
	exponent := (ulaw >> 4) & 0x07
	mantissa := ulaw & 0x0F

	linearVal := ulawExpLut[exponent] + (int16(mantissa) << (exponent + 3))
	if sign == 0 {
		linearVal = -linearVal
	}
	return linearVal
}

// linearToUlaw encodes a 16-bit linear PCM sample to G.711 u-law,
// grounded on audio_mixer.go's linearToUlawGo.
func linearToUlaw(pcmVal int16) byte {
	const (
		bias = 0x84
		clip = 32635
	)
	var sign int
	var mag int
	if pcmVal < 0 {
		sign = 0
		mag = int(-pcmVal)
	} else {
		sign = 0x80
		mag = int(pcmVal)
	}
	if mag > clip {
		mag = clip
	}
	mag += bias

	exponent := 7
	for mask := 0x4000; (mag&mask) == 0 && exponent > 0; exponent-- {
		mask >>= 1
	}
	mantissa := (mag >> (exponent + 3)) & 0x0F
	uVal := byte(sign | (exponent << 4) | mantissa)
	return ^uVal
}

// UlawByteSource is a SampleSource over a buffer of raw G.711 u-law
// bytes, the telephony-style 8kHz input audio_mixer.go's
// MixResampleUlaw*/ConvertUlawToPCM functions were hand-written to
// ingest. The resampling those functions used to do inline is now
// TrackMixer's job (spec §4.6); this source only decodes bytes to
// float.
type UlawByteSource struct {
	data    []byte
	rate    int
	channel Channel

	gainTimes    []float64
	gainValues   []float64
	channelGains []float64
}

// NewUlawByteSource wraps a u-law byte buffer sampled at rate (commonly
// 8000 Hz telephony audio).
func NewUlawByteSource(data []byte, rate int, channel Channel) *UlawByteSource {
	return &UlawByteSource{data: data, rate: rate, channel: channel}
}

func (u *UlawByteSource) SetEnvelope(times, values []float64) {
	u.gainTimes = times
	u.gainValues = values
}

func (u *UlawByteSource) SetChannelGain(c int, gain float64) {
	if c >= len(u.channelGains) {
		grown := make([]float64, c+1)
		copy(grown, u.channelGains)
		for i := len(u.channelGains); i < len(grown); i++ {
			grown[i] = 1.0
		}
		u.channelGains = grown
	}
	u.channelGains[c] = gain
}

// ulawScaleToFloat mirrors uLaw2PCM16.go's ConvertUlawToPCM scaling constant
// (1.0/32768.0) when turning a decoded int16 into a float sample.
const ulawScaleToFloat = 1.0 / 32768.0

func (u *UlawByteSource) GetFloats(startIndex int64, count int, mayThrow bool) ([]float64, error) {
	out := make([]float64, count)
	n := int64(len(u.data))
	wrote := false
	for i := 0; i < count; i++ {
		idx := startIndex + int64(i)
		if idx >= 0 && idx < n {
			s16 := ulawToLinearInt16(u.data[idx])
			out[i] = float64(s16) * ulawScaleToFloat
			wrote = true
		}
	}
	if !wrote {
		return nil, nil
	}
	return out, nil
}

func (u *UlawByteSource) GetEnvelopeValues(out []float64, startTimeSeconds float64) {
	if len(u.gainTimes) == 0 {
		for i := range out {
			out[i] = 1.0
		}
		return
	}
	rateF := float64(u.rate)
	for i := range out {
		t := startTimeSeconds + float64(i)/rateF
		out[i] = envelopeValueAt(u.gainTimes, u.gainValues, t)
	}
}

func (u *UlawByteSource) TimeToLongSamples(seconds float64) int64 {
	return int64(math.RoundToEven(seconds * float64(u.rate)))
}

func (u *UlawByteSource) SampleRate() int    { return u.rate }
func (u *UlawByteSource) Channel() Channel   { return u.channel }
func (u *UlawByteSource) StartTime() float64 { return 0 }
func (u *UlawByteSource) EndTime() float64   { return float64(len(u.data)) / float64(u.rate) }

func (u *UlawByteSource) ChannelGain(c int) float64 {
	if c < 0 || c >= len(u.channelGains) {
		return 1.0
	}
	return u.channelGains[c]
}

// EncodeUlaw converts linear float samples in [-1,1] to G.711 u-law
// bytes, grounded on audio_mixer.go's appendPCMFloatToUlawBytes inner
// loop (clamp to int16 range, then linearToUlaw).
func EncodeUlaw(samples []float64) []byte {
	out := make([]byte, len(samples))
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		}
		if s < -1.0 {
			s = -1.0
		}
		s16 := int16(s * 32767.0)
		out[i] = linearToUlaw(s16)
	}
	return out
}
