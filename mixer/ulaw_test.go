package mixer

import "testing"

func TestUlawRoundTripApproximate(t *testing.T) {
	// G.711 u-law is lossy (8-bit logarithmic encoding of a 14-bit
	// range); round-tripping a mid-scale sample should land close to,
	// not exactly at, the original value.
	original := int16(10000)
	encoded := linearToUlaw(original)
	decoded := ulawToLinearInt16(encoded)

	diff := int(decoded) - int(original)
	if diff < 0 {
		diff = -diff
	}
	if diff > 500 {
		t.Fatalf("u-law round trip error too large: original=%d decoded=%d diff=%d", original, decoded, diff)
	}
}

func TestUlawZeroRoundTrips(t *testing.T) {
	encoded := linearToUlaw(0)
	decoded := ulawToLinearInt16(encoded)
	if decoded != 0 {
		t.Fatalf("u-law round trip of 0 = %d, want 0", decoded)
	}
}

func TestUlawByteSourceDecodesToFloatRange(t *testing.T) {
	data := []byte{linearToUlaw(16000), linearToUlaw(-16000)}
	src := NewUlawByteSource(data, 8000, ChannelMono)

	floats, err := src.GetFloats(0, 2, false)
	if err != nil {
		t.Fatalf("GetFloats error: %v", err)
	}
	if floats[0] <= 0 {
		t.Fatalf("decoded positive sample should be > 0, got %v", floats[0])
	}
	if floats[1] >= 0 {
		t.Fatalf("decoded negative sample should be < 0, got %v", floats[1])
	}
	for _, f := range floats {
		if f < -1.0 || f > 1.0 {
			t.Fatalf("decoded sample %v out of [-1,1] range", f)
		}
	}
}

func TestUlawByteSourceSilenceOutOfRange(t *testing.T) {
	data := []byte{linearToUlaw(5000)}
	src := NewUlawByteSource(data, 8000, ChannelMono)

	floats, err := src.GetFloats(10, 4, false)
	if err != nil {
		t.Fatalf("GetFloats error: %v", err)
	}
	if floats != nil {
		t.Fatalf("GetFloats entirely out of range = %v, want nil (silence)", floats)
	}
}

func TestEncodeUlawClampsRange(t *testing.T) {
	out := EncodeUlaw([]float64{2.0, -2.0})
	if len(out) != 2 {
		t.Fatalf("EncodeUlaw returned %d bytes, want 2", len(out))
	}
	if want := linearToUlaw(32767); out[0] != want {
		t.Fatalf("EncodeUlaw(2.0) = %#x, want %#x (clamped to full scale)", out[0], want)
	}
	if want := linearToUlaw(-32767); out[1] != want {
		t.Fatalf("EncodeUlaw(-2.0) = %#x, want %#x (clamped to negative full scale)", out[1], want)
	}
}
