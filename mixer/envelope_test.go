package mixer

import (
	"math"
	"testing"
)

const envEpsilon = 1e-6

func TestConstantEnvelopeAverageOfInverse(t *testing.T) {
	e := ConstantEnvelope{Speed: 2.0}
	got := e.AverageOfInverse(0, 1)
	want := 0.5
	if math.Abs(got-want) > envEpsilon {
		t.Fatalf("AverageOfInverse = %v, want %v", got, want)
	}
	if e.RangeLower() != 2.0 || e.RangeUpper() != 2.0 {
		t.Fatalf("range bounds = [%v,%v], want [2,2]", e.RangeLower(), e.RangeUpper())
	}
}

func TestPiecewiseEnvelopeSpeedAtInterpolates(t *testing.T) {
	env := NewPiecewiseEnvelope([]float64{0, 1, 2}, []float64{1, 2, 1})
	if got := env.speedAt(0.5); math.Abs(got-1.5) > envEpsilon {
		t.Fatalf("speedAt(0.5) = %v, want 1.5", got)
	}
	if got := env.speedAt(-1); got != 1 {
		t.Fatalf("speedAt before range = %v, want clamp to first point (1)", got)
	}
	if got := env.speedAt(10); got != 1 {
		t.Fatalf("speedAt after range = %v, want clamp to last point (1)", got)
	}
}

func TestPiecewiseEnvelopeRangeBounds(t *testing.T) {
	env := NewPiecewiseEnvelope([]float64{0, 1, 2}, []float64{1, 3, 2})
	if env.RangeLower() != 1 {
		t.Fatalf("RangeLower() = %v, want 1", env.RangeLower())
	}
	if env.RangeUpper() != 3 {
		t.Fatalf("RangeUpper() = %v, want 3", env.RangeUpper())
	}
}

func TestPiecewiseEnvelopeAverageOfInverseConstantSegment(t *testing.T) {
	// Flat speed=1 envelope: average of 1/speed over any interval is 1.
	env := NewPiecewiseEnvelope([]float64{0, 10}, []float64{1, 1})
	got := env.AverageOfInverse(2, 5)
	if math.Abs(got-1.0) > envEpsilon {
		t.Fatalf("AverageOfInverse on flat envelope = %v, want 1.0", got)
	}
}

func TestPiecewiseEnvelopeAverageOfInverseSymmetric(t *testing.T) {
	env := NewPiecewiseEnvelope([]float64{0, 1, 2}, []float64{1, 2, 3})
	forward := env.AverageOfInverse(0.2, 1.3)
	reverse := env.AverageOfInverse(1.3, 0.2)
	if math.Abs(forward-reverse) > envEpsilon {
		t.Fatalf("AverageOfInverse not direction-symmetric: forward=%v reverse=%v", forward, reverse)
	}
}

func TestPiecewiseEnvelopeAverageOfInverseDegenerateInterval(t *testing.T) {
	env := NewPiecewiseEnvelope([]float64{0, 1}, []float64{1, 4})
	got := env.AverageOfInverse(0.5, 0.5)
	want := 1.0 / env.speedAt(0.5)
	if math.Abs(got-want) > envEpsilon {
		t.Fatalf("AverageOfInverse on zero-length interval = %v, want %v", got, want)
	}
}
