// resample_test.go
package resample

import (
	"errors"
	"math"
	"testing"
)

func sineTone(freq float64, n, channels int) []float32 {
	out := make([]float32, n*channels)
	for i := 0; i < n; i++ {
		v := float32(math.Sin(2 * math.Pi * freq * float64(i)))
		for c := 0; c < channels; c++ {
			out[i*channels+c] = v
		}
	}
	return out
}

func runConverter(t *testing.T, converterType ConverterType, channels int, ratio float64, in []float32) []float32 {
	t.Helper()
	conv, err := New(converterType, channels)
	if err != nil {
		t.Fatalf("New(%v, %d) error: %v", converterType, channels, err)
	}
	defer conv.Close()

	out := make([]float32, int(float64(len(in))*ratio)+channels*16)
	data := SrcData{
		DataIn:       in,
		InputFrames:  int64(len(in) / channels),
		DataOut:      out,
		OutputFrames: int64(len(out) / channels),
		SrcRatio:     ratio,
		EndOfInput:   true,
	}
	if err := conv.Process(&data); err != nil {
		t.Fatalf("Process error: %v", err)
	}
	return out[:int(data.OutputFramesGen)*channels]
}

func TestLinearDownsampleProducesExpectedFrameCount(t *testing.T) {
	const inFrames = 1000
	ratio := 1.0 / 4.0
	in := sineTone(0.01, inFrames, 1)

	out := runConverter(t, Linear, 1, ratio, in)
	wantMin, wantMax := inFrames/4-4, inFrames/4+4
	if len(out) < wantMin || len(out) > wantMax {
		t.Fatalf("Linear downsample by %v produced %d frames, want near %d", ratio, len(out), inFrames/4)
	}
}

func TestSincUpsampleProducesExpectedFrameCount(t *testing.T) {
	const inFrames = 500
	ratio := 2.0
	in := sineTone(0.01, inFrames, 1)

	out := runConverter(t, SincBestQuality, 1, ratio, in)
	wantMin, wantMax := inFrames*2-8, inFrames*2+8
	if len(out) < wantMin || len(out) > wantMax {
		t.Fatalf("Sinc upsample by %v produced %d frames, want near %d", ratio, len(out), inFrames*2)
	}
}

func TestLinearStereoKeepsChannelsIndependent(t *testing.T) {
	const inFrames = 200
	in := make([]float32, inFrames*2)
	for i := 0; i < inFrames; i++ {
		in[i*2] = float32(i) / inFrames     // left: ramp up
		in[i*2+1] = -float32(i) / inFrames // right: ramp down
	}

	out := runConverter(t, Linear, 2, 1.0, in)
	if len(out) < 4 {
		t.Fatalf("too few output samples: %d", len(out))
	}
	frames := len(out) / 2
	for i := 1; i < frames; i++ {
		if out[i*2] < out[(i-1)*2] {
			t.Fatalf("left channel not monotonically increasing at frame %d", i)
		}
		if out[i*2+1] > out[(i-1)*2+1] {
			t.Fatalf("right channel not monotonically decreasing at frame %d", i)
		}
	}
}

func TestProcessRejectsRatioOutOfRange(t *testing.T) {
	conv, err := New(Linear, 1)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer conv.Close()

	data := SrcData{
		DataIn:       []float32{0, 0, 0, 0},
		InputFrames:  4,
		DataOut:      make([]float32, 16),
		OutputFrames: 16,
		SrcRatio:     1000.0,
	}
	err = conv.Process(&data)
	if err == nil {
		t.Fatalf("Process with out-of-range ratio: want error, got nil")
	}
	var ce *ConverterError
	if !errors.As(err, &ce) {
		t.Fatalf("Process error %v is not a *ConverterError", err)
	}
	if ce.Code != ErrBadSrcRatio {
		t.Fatalf("Process error code = %v, want ErrBadSrcRatio", ce.Code)
	}
}

func TestResetClearsConverterHistory(t *testing.T) {
	conv, err := New(Linear, 1)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer conv.Close()

	in := sineTone(0.05, 64, 1)
	out := make([]float32, 128)
	data := SrcData{DataIn: in, InputFrames: 64, DataOut: out, OutputFrames: 128, SrcRatio: 1.0, EndOfInput: true}
	if err := conv.Process(&data); err != nil {
		t.Fatalf("first Process error: %v", err)
	}
	if err := conv.Reset(); err != nil {
		t.Fatalf("Reset error: %v", err)
	}
	// after Reset, the converter should behave as freshly created: a
	// second call with the same input should produce the same frame
	// count it did on the very first call.
	data2 := SrcData{DataIn: in, InputFrames: 64, DataOut: out, OutputFrames: 128, SrcRatio: 1.0, EndOfInput: true}
	if err := conv.Process(&data2); err != nil {
		t.Fatalf("post-reset Process error: %v", err)
	}
	if data2.OutputFramesGen != data.OutputFramesGen {
		t.Fatalf("post-reset OutputFramesGen = %d, want %d (matching pre-reset run)", data2.OutputFramesGen, data.OutputFramesGen)
	}
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	conv, err := New(Linear, 1)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer conv.Close()

	in := sineTone(0.02, 32, 1)
	out := make([]float32, 64)
	data := SrcData{DataIn: in, InputFrames: 32, DataOut: out, OutputFrames: 64, SrcRatio: 1.0, EndOfInput: false}
	if err := conv.Process(&data); err != nil {
		t.Fatalf("Process error: %v", err)
	}

	clone, err := conv.Clone()
	if err != nil {
		t.Fatalf("Clone error: %v", err)
	}
	defer clone.Close()

	if err := conv.SetRatio(2.0); err != nil {
		t.Fatalf("SetRatio on original error: %v", err)
	}
	// cloned converter's ratio must be unaffected by changes to the
	// original made after Clone was called.
	if got := clone.(*srcState).lastRatio; got != 1.0 {
		t.Fatalf("clone ratio after SetRatio(2.0) on original = %v, want 1.0", got)
	}
	out2 := make([]float32, 64)
	data2 := SrcData{DataIn: in, InputFrames: 32, DataOut: out2, OutputFrames: 64, SrcRatio: 1.0, EndOfInput: true}
	if err := clone.Process(&data2); err != nil {
		t.Fatalf("Process on clone error: %v", err)
	}
}
