package mixer

import (
	"math"
	"testing"
)

func TestNewResamplerLowAndHighQuality(t *testing.T) {
	for _, hq := range []bool{false, true} {
		r, err := NewResampler(hq, 0.5, 2.0)
		if err != nil {
			t.Fatalf("NewResampler(highQuality=%v) error: %v", hq, err)
		}
		if closer, ok := r.(interface{ Close() error }); ok {
			defer closer.Close()
		}
	}
}

func TestSrcResamplerProcessUnityRatio(t *testing.T) {
	r, err := NewResampler(false, 1.0, 1.0)
	if err != nil {
		t.Fatalf("NewResampler error: %v", err)
	}
	defer r.(*srcResampler).Close()

	in := make([]float64, 256)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * float64(i) / 32)
	}
	out := make([]float64, 512)
	used, produced, err := r.Process(1.0, in, len(in), true, out, len(out))
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if used == 0 {
		t.Fatalf("Process used 0 input samples")
	}
	if produced == 0 {
		t.Fatalf("Process produced 0 output samples")
	}
}

func TestSrcResamplerProcessFactorClamp(t *testing.T) {
	r, err := NewResampler(false, 0.5, 2.0)
	if err != nil {
		t.Fatalf("NewResampler error: %v", err)
	}
	sr := r.(*srcResampler)
	defer sr.Close()

	in := make([]float64, 64)
	out := make([]float64, 256)
	// factor 10.0 is outside [0.5,2.0]; Process should clamp rather than
	// error, per spec §4.2 "must tolerate factor varying... resampler
	// implementations must tolerate clamp".
	_, _, err = sr.Process(10.0, in, len(in), true, out, len(out))
	if err != nil {
		t.Fatalf("Process with out-of-range factor errored: %v", err)
	}
}
