package mixer

import "testing"

func TestNewRouteMapDefaultIdentity(t *testing.T) {
	rm := NewRouteMap(3, 4, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := i == j
			if got := rm.Get(i, j); got != want {
				t.Fatalf("Get(%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestRouteMapSetNumChannelsGrowShrink(t *testing.T) {
	rm := NewRouteMap(2, 4, 2)
	if !rm.SetNumChannels(1) {
		t.Fatalf("SetNumChannels(1) returned false")
	}
	if rm.NumChannels() != 1 {
		t.Fatalf("NumChannels() = %d, want 1", rm.NumChannels())
	}
	// Shrinking doesn't touch flags outside the new active range; column
	// 0 (still active) keeps its identity assignment.
	if !rm.Get(0, 0) {
		t.Fatalf("Get(0,0) = false after shrink, want true")
	}

	if !rm.SetNumChannels(3) {
		t.Fatalf("SetNumChannels(3) returned false")
	}
	if rm.NumChannels() != 3 {
		t.Fatalf("NumChannels() = %d, want 3", rm.NumChannels())
	}
	// Columns [1,3) are newly brought into range by this grow and are
	// zeroed, per spec §4.5, even though column 1 held a true identity
	// flag before the earlier shrink.
	if rm.Get(1, 1) {
		t.Fatalf("Get(1,1) = true after regrowth, want false (newly in-range column is zeroed)")
	}
	if rm.Get(0, 2) {
		t.Fatalf("Get(0,2) = true after regrowth, want false (newly in-range column is zeroed)")
	}
}

func TestRouteMapSetNumChannelsExceedsMax(t *testing.T) {
	rm := NewRouteMap(2, 2, 2)
	if rm.SetNumChannels(5) {
		t.Fatalf("SetNumChannels(5) succeeded, want false (exceeds maxChannels=2)")
	}
	if rm.NumChannels() != 2 {
		t.Fatalf("NumChannels() changed after failed SetNumChannels, got %d", rm.NumChannels())
	}
}

func TestRouteMapClone(t *testing.T) {
	rm := NewRouteMap(2, 2, 2)
	rm.Set(0, 1, true)
	clone := rm.Clone()
	clone.Set(0, 1, false)
	if !rm.Get(0, 1) {
		t.Fatalf("original mutated by clone mutation")
	}
	if clone.Get(0, 1) {
		t.Fatalf("clone retained true after Set(false)")
	}
}

func TestDefaultRouteFlags(t *testing.T) {
	cases := []struct {
		ch       Channel
		numCh    int
		expected []bool
	}{
		{ChannelMono, 2, []bool{true, true}},
		{ChannelLeft, 2, []bool{true, false}},
		{ChannelRight, 2, []bool{false, true}},
		{ChannelRight, 1, []bool{true}},
	}
	for _, c := range cases {
		got := defaultRouteFlags(c.ch, c.numCh)
		if len(got) != len(c.expected) {
			t.Fatalf("defaultRouteFlags(%v,%d) length = %d, want %d", c.ch, c.numCh, len(got), len(c.expected))
		}
		for i := range got {
			if got[i] != c.expected[i] {
				t.Fatalf("defaultRouteFlags(%v,%d)[%d] = %v, want %v", c.ch, c.numCh, i, got[i], c.expected[i])
			}
		}
	}
}
