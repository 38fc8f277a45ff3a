package mixer

import (
	"math"
	"testing"
)

func rampSource(n int, rate int) *MemorySource {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = float64(i) / 10.0
	}
	return NewMemorySource(samples, rate, ChannelMono)
}

func TestTrackMixerMixSameRatePassThrough(t *testing.T) {
	src := rampSource(10, 44100)
	tm, err := NewTrackMixer(src, 44100, 16, WarpOptions{InitialSpeed: 1}, false)
	if err != nil {
		t.Fatalf("NewTrackMixer error: %v", err)
	}
	if tm.UsesVariableRates() {
		t.Fatalf("same-rate, constant warp track mixer reported UsesVariableRates() = true")
	}

	out := make([]float64, 4)
	n, err := tm.MixSameRate(4, out, 0, float64(10)/44100, false)
	if err != nil {
		t.Fatalf("MixSameRate error: %v", err)
	}
	if n != 4 {
		t.Fatalf("MixSameRate returned %d, want 4", n)
	}
	want := []float64{0, 0.1, 0.2, 0.3}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestTrackMixerMixSameRateEndOfInterval(t *testing.T) {
	src := rampSource(10, 44100)
	tm, err := NewTrackMixer(src, 44100, 16, WarpOptions{InitialSpeed: 1}, false)
	if err != nil {
		t.Fatalf("NewTrackMixer error: %v", err)
	}
	out := make([]float64, 16)
	total := 0
	for i := 0; i < 3; i++ {
		n, err := tm.MixSameRate(4, out, 0, float64(10)/44100, false)
		if err != nil {
			t.Fatalf("MixSameRate error: %v", err)
		}
		total += n
	}
	if total != 10 {
		t.Fatalf("total samples produced = %d, want 10", total)
	}
	// A further call returns 0: the track is exhausted at tEnd.
	n, err := tm.MixSameRate(4, out, 0, float64(10)/44100, false)
	if err != nil {
		t.Fatalf("MixSameRate error: %v", err)
	}
	if n != 0 {
		t.Fatalf("MixSameRate past end returned %d, want 0", n)
	}
}

func TestTrackMixerMixSameRateBackwards(t *testing.T) {
	n := 10
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = float64(i)
	}
	src := NewMemorySource(samples, 44100, ChannelMono)
	tm, err := NewTrackMixer(src, 44100, 16, WarpOptions{InitialSpeed: 1}, false)
	if err != nil {
		t.Fatalf("NewTrackMixer error: %v", err)
	}
	tm.pos = src.TimeToLongSamples(float64(n) / 44100)

	out := make([]float64, 16)
	got, err := tm.MixSameRate(n, out, float64(n)/44100, 0, false)
	if err != nil {
		t.Fatalf("MixSameRate error: %v", err)
	}
	if got != n {
		t.Fatalf("MixSameRate backwards returned %d, want %d", got, n)
	}
	for i := 0; i < n; i++ {
		want := float64(n - 1 - i)
		if math.Abs(out[i]-want) > 1e-9 {
			t.Fatalf("out[%d] = %v, want %v (reversed ramp)", i, out[i], want)
		}
	}
}

func TestTrackMixerMixVariableRatesResampleDownByHalf(t *testing.T) {
	src := rampSource(2048, 44100)
	tm, err := NewTrackMixer(src, 22050, 256, WarpOptions{InitialSpeed: 1}, false)
	if err != nil {
		t.Fatalf("NewTrackMixer error: %v", err)
	}
	if !tm.UsesVariableRates() {
		t.Fatalf("different rates should force variable-rate mixing")
	}

	out := make([]float64, 257)
	produced, err := tm.MixVariableRates(256, out, 0, float64(2048)/44100, 1.0, false)
	if err != nil {
		t.Fatalf("MixVariableRates error: %v", err)
	}
	if produced == 0 {
		t.Fatalf("MixVariableRates produced 0 samples")
	}
	if produced > 256 {
		t.Fatalf("MixVariableRates produced %d, exceeds maxOut 256", produced)
	}
}

func TestTrackMixerResetToTimeClearsQueueAndPosition(t *testing.T) {
	src := rampSource(2048, 44100)
	tm, err := NewTrackMixer(src, 22050, 256, WarpOptions{InitialSpeed: 1}, false)
	if err != nil {
		t.Fatalf("NewTrackMixer error: %v", err)
	}
	out := make([]float64, 257)
	if _, err := tm.MixVariableRates(100, out, 0, float64(2048)/44100, 1.0, false); err != nil {
		t.Fatalf("MixVariableRates error: %v", err)
	}

	if err := tm.ResetToTime(0, true); err != nil {
		t.Fatalf("ResetToTime error: %v", err)
	}
	if tm.Position() != 0 {
		t.Fatalf("Position() after ResetToTime(0,...) = %d, want 0", tm.Position())
	}
	if tm.queue.length != 0 {
		t.Fatalf("queue length after ResetToTime = %d, want 0", tm.queue.length)
	}
}
