// source.go
package mixer

import "math"

// MemorySource is a concrete, in-memory SampleSource: a fixed float
// buffer at a native sample rate with a flat or piecewise gain envelope
// and a per-output-channel static gain vector. It exercises the real
// mixdown pipeline end to end without a clip/sequence storage backend,
// which spec.md puts out of scope (§1).
type MemorySource struct {
	samples []float64
	rate    int
	channel Channel

	gainTimes  []float64
	gainValues []float64
	channelGains []float64
}

// NewMemorySource builds a source from samples at the given native
// rate and channel designation. The gain envelope defaults to a
// constant 1.0; SetEnvelope overrides it. ChannelGain defaults to 1.0
// for every output channel queried; SetChannelGain overrides a single
// entry (the supplemented ChannelGain/SetChannelGain feature).
func NewMemorySource(samples []float64, rate int, channel Channel) *MemorySource {
	return &MemorySource{
		samples: samples,
		rate:    rate,
		channel: channel,
	}
}

// SetEnvelope installs a piecewise-linear gain envelope in seconds;
// times must be non-decreasing.
func (m *MemorySource) SetEnvelope(times, values []float64) {
	m.gainTimes = times
	m.gainValues = values
}

// SetChannelGain sets the static per-output-channel gain returned by
// ChannelGain(c). Growing the backing slice on demand mirrors the
// teacher's Converter.SetRatio mutating converter state after
// construction, the analogue cited in SPEC_FULL's supplemented
// features section.
func (m *MemorySource) SetChannelGain(c int, gain float64) {
	if c >= len(m.channelGains) {
		grown := make([]float64, c+1)
		copy(grown, m.channelGains)
		for i := len(m.channelGains); i < len(grown); i++ {
			grown[i] = 1.0
		}
		m.channelGains = grown
	}
	m.channelGains[c] = gain
}

func (m *MemorySource) GetFloats(startIndex int64, count int, mayThrow bool) ([]float64, error) {
	out := make([]float64, count)
	n := int64(len(m.samples))
	wrote := false
	for i := 0; i < count; i++ {
		idx := startIndex + int64(i)
		if idx >= 0 && idx < n {
			out[i] = m.samples[idx]
			wrote = true
		}
	}
	if !wrote {
		return nil, nil
	}
	return out, nil
}

func (m *MemorySource) GetEnvelopeValues(out []float64, startTimeSeconds float64) {
	if len(m.gainTimes) == 0 {
		for i := range out {
			out[i] = 1.0
		}
		return
	}
	rateF := float64(m.rate)
	for i := range out {
		t := startTimeSeconds + float64(i)/rateF
		out[i] = envelopeValueAt(m.gainTimes, m.gainValues, t)
	}
}

func envelopeValueAt(times, values []float64, t float64) float64 {
	if t <= times[0] {
		return values[0]
	}
	last := len(times) - 1
	if t >= times[last] {
		return values[last]
	}
	i := 0
	for i+1 <= last && times[i+1] < t {
		i++
	}
	t0, t1 := times[i], times[i+1]
	v0, v1 := values[i], values[i+1]
	if t1 == t0 {
		return v1
	}
	frac := (t - t0) / (t1 - t0)
	return v0 + frac*(v1-v0)
}

func (m *MemorySource) TimeToLongSamples(seconds float64) int64 {
	return int64(math.RoundToEven(seconds * float64(m.rate)))
}

func (m *MemorySource) SampleRate() int   { return m.rate }
func (m *MemorySource) Channel() Channel  { return m.channel }
func (m *MemorySource) StartTime() float64 { return 0 }
func (m *MemorySource) EndTime() float64   { return float64(len(m.samples)) / float64(m.rate) }

func (m *MemorySource) ChannelGain(c int) float64 {
	if c < 0 || c >= len(m.channelGains) {
		return 1.0
	}
	return m.channelGains[c]
}
