package mixer

import (
	"math"
	"testing"
)

func TestMemorySourceGetFloatsWithinAndOutsideRange(t *testing.T) {
	src := NewMemorySource([]float64{1, 2, 3}, 1000, ChannelMono)

	got, err := src.GetFloats(0, 3, false)
	if err != nil {
		t.Fatalf("GetFloats error: %v", err)
	}
	if got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("GetFloats(0,3) = %v, want [1 2 3]", got)
	}

	got, err = src.GetFloats(10, 3, false)
	if err != nil {
		t.Fatalf("GetFloats error: %v", err)
	}
	if got != nil {
		t.Fatalf("GetFloats fully out of range = %v, want nil", got)
	}
}

func TestMemorySourceGetFloatsPartialOverlapZeroFills(t *testing.T) {
	src := NewMemorySource([]float64{1, 2, 3}, 1000, ChannelMono)
	got, err := src.GetFloats(-1, 3, false)
	if err != nil {
		t.Fatalf("GetFloats error: %v", err)
	}
	if got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("GetFloats(-1,3) = %v, want [0 1 2]", got)
	}
}

func TestMemorySourceDefaultEnvelopeFlat(t *testing.T) {
	src := NewMemorySource([]float64{1, 1, 1}, 1000, ChannelMono)
	out := make([]float64, 3)
	src.GetEnvelopeValues(out, 0)
	for i, v := range out {
		if v != 1.0 {
			t.Fatalf("default envelope[%d] = %v, want 1.0", i, v)
		}
	}
}

func TestMemorySourceEnvelopeInterpolation(t *testing.T) {
	src := NewMemorySource(make([]float64, 100), 1000, ChannelMono)
	src.SetEnvelope([]float64{0, 1}, []float64{0, 1})
	out := make([]float64, 1)
	src.GetEnvelopeValues(out, 0.5)
	if math.Abs(out[0]-0.5) > 1e-9 {
		t.Fatalf("envelope at t=0.5 = %v, want 0.5", out[0])
	}
}

func TestMemorySourceChannelGainDefaultAndOverride(t *testing.T) {
	src := NewMemorySource([]float64{1}, 1000, ChannelMono)
	if src.ChannelGain(0) != 1.0 {
		t.Fatalf("default ChannelGain(0) = %v, want 1.0", src.ChannelGain(0))
	}
	src.SetChannelGain(2, 0.5)
	if src.ChannelGain(2) != 0.5 {
		t.Fatalf("ChannelGain(2) after SetChannelGain = %v, want 0.5", src.ChannelGain(2))
	}
	if src.ChannelGain(1) != 1.0 {
		t.Fatalf("ChannelGain(1) after growing for index 2 = %v, want default 1.0", src.ChannelGain(1))
	}
}

func TestMemorySourceTimeToLongSamples(t *testing.T) {
	src := NewMemorySource(make([]float64, 10), 1000, ChannelMono)
	if got := src.TimeToLongSamples(0.5); got != 500 {
		t.Fatalf("TimeToLongSamples(0.5) at 1000Hz = %d, want 500", got)
	}
}

func TestMemorySourceStartEndTime(t *testing.T) {
	src := NewMemorySource(make([]float64, 1000), 1000, ChannelMono)
	if src.StartTime() != 0 {
		t.Fatalf("StartTime() = %v, want 0", src.StartTime())
	}
	if src.EndTime() != 1.0 {
		t.Fatalf("EndTime() = %v, want 1.0", src.EndTime())
	}
}
