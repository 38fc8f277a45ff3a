package mixer

import (
	"math"
	"testing"
)

func TestWarpOptionsIsVariable(t *testing.T) {
	cases := []struct {
		name string
		opts WarpOptions
		want bool
	}{
		{"none", WarpOptions{InitialSpeed: 1}, false},
		{"envelope", WarpOptions{Envelope: ConstantEnvelope{Speed: 1}}, true},
		{"speed range", WarpOptions{HasSpeedRange: true, MinSpeed: 0.5, MaxSpeed: 2}, true},
	}
	for _, c := range cases {
		if got := c.opts.isVariable(); got != c.want {
			t.Fatalf("%s: isVariable() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestResampleParametersConstantRate(t *testing.T) {
	opts := WarpOptions{InitialSpeed: 1}
	minF, maxF := resampleParameters(44100, 22050, opts)
	want := 2.0
	const eps = 1e-9
	if math.Abs(minF-want) > eps || math.Abs(maxF-want) > eps {
		t.Fatalf("resampleParameters constant-rate = [%v,%v], want [%v,%v]", minF, maxF, want, want)
	}
}

func TestResampleParametersSpeedRange(t *testing.T) {
	opts := WarpOptions{HasSpeedRange: true, MinSpeed: 0.5, MaxSpeed: 2.0}
	minF, maxF := resampleParameters(44100, 44100, opts)
	// nominal = 1; speed in [0.5,2] -> inverse speed range [0.5,2] -> factor range [0.5,2].
	const eps = 1e-9
	if math.Abs(minF-0.5) > eps || math.Abs(maxF-2.0) > eps {
		t.Fatalf("resampleParameters speed-range = [%v,%v], want [0.5,2.0]", minF, maxF)
	}
	if minF > maxF {
		t.Fatalf("minFactor %v > maxFactor %v", minF, maxF)
	}
}

func TestWarpEvaluatorFactorForSliceNoEnvelope(t *testing.T) {
	w := newWarpEvaluator(WarpOptions{InitialSpeed: 1})
	got := w.factorForSlice(0, 1024, 44100, false)
	if got != 1.0 {
		t.Fatalf("factorForSlice with no envelope = %v, want 1.0", got)
	}
}

func TestWarpEvaluatorFactorForSliceFlatEnvelope(t *testing.T) {
	w := newWarpEvaluator(WarpOptions{Envelope: ConstantEnvelope{Speed: 2.0}})
	got := w.factorForSlice(0, 1024, 44100, false)
	want := 0.5
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("factorForSlice flat envelope = %v, want %v", got, want)
	}
	// Backwards evaluation over the same flat envelope yields the same
	// scalar, since AverageOfInverse is direction-symmetric for a
	// constant speed.
	backGot := w.factorForSlice(1.0, 1024, 44100, true)
	if math.Abs(backGot-want) > 1e-6 {
		t.Fatalf("factorForSlice backwards flat envelope = %v, want %v", backGot, want)
	}
}
