// routemap.go
package mixer

// RouteMap (Downmix) is the input-track x output-channel boolean routing
// matrix from spec §4.5. A nil *RouteMap passed to NewMixerEngine (or one
// whose dimensions don't match) is treated as "derive routing from
// channel designation" (spec §4.7, §6) rather than an error.
type RouteMap struct {
	flags       [][]bool
	numTracks   int
	maxChannels int
	numChannels int
}

// NewRouteMap builds a RouteMap for numTracks inputs and maxChannels
// possible output channels, with numChannels initially active. The
// default construction sets flags[i][j] = (i == j), matching spec §3.
func NewRouteMap(numTracks, maxChannels, numChannels int) *RouteMap {
	rm := &RouteMap{
		flags:       make([][]bool, numTracks),
		numTracks:   numTracks,
		maxChannels: maxChannels,
	}
	for i := range rm.flags {
		rm.flags[i] = make([]bool, maxChannels)
	}
	rm.SetNumChannels(numChannels)
	for i := range rm.flags {
		if i < maxChannels {
			rm.flags[i][i] = true
		}
	}
	return rm
}

// Get reports whether input track i is routed to output channel j.
func (rm *RouteMap) Get(i, j int) bool {
	if i < 0 || i >= rm.numTracks || j < 0 || j >= rm.numChannels {
		return false
	}
	return rm.flags[i][j]
}

// Set assigns whether input track i is routed to output channel j.
func (rm *RouteMap) Set(i, j int, routed bool) {
	if i < 0 || i >= rm.numTracks || j < 0 || j >= rm.maxChannels {
		return
	}
	rm.flags[i][j] = routed
}

// NumTracks returns the number of input tracks this map was sized for.
func (rm *RouteMap) NumTracks() int { return rm.numTracks }

// NumChannels returns the currently active output channel count.
func (rm *RouteMap) NumChannels() int { return rm.numChannels }

// MaxChannels returns the maximum output channel count this map was
// allocated for.
func (rm *RouteMap) MaxChannels() int { return rm.maxChannels }

// SetNumChannels resizes the active channel count. Columns newly brought
// into range are zeroed; columns that go out of range keep their stored
// values but are zeroed again if a later grow brings them back, so only
// columns active both before and after the call keep their assignment.
// Returns false (no-op) if n exceeds maxChannels.
func (rm *RouteMap) SetNumChannels(n int) bool {
	if n > rm.maxChannels {
		return false
	}
	if n < 0 {
		n = 0
	}
	for i := range rm.flags {
		for j := rm.numChannels; j < n; j++ {
			rm.flags[i][j] = false
		}
	}
	rm.numChannels = n
	return true
}

// Row returns a copy of track i's routing flags over the active channels.
func (rm *RouteMap) Row(i int) []bool {
	out := make([]bool, rm.numChannels)
	if i >= 0 && i < rm.numTracks {
		copy(out, rm.flags[i][:rm.numChannels])
	}
	return out
}

// Clone deep-copies the route map.
func (rm *RouteMap) Clone() *RouteMap {
	out := &RouteMap{
		flags:       make([][]bool, rm.numTracks),
		numTracks:   rm.numTracks,
		maxChannels: rm.maxChannels,
		numChannels: rm.numChannels,
	}
	for i := range rm.flags {
		out.flags[i] = make([]bool, rm.maxChannels)
		copy(out.flags[i], rm.flags[i])
	}
	return out
}

// defaultRouteFlags derives per-channel routing from a track's channel
// designation when no RouteMap is present (spec §4.7 step 3): Mono routes
// to every output channel, Left/Right route to channel 0/1 (falling back
// to channel 0 when there's only one output channel), anything else
// routes to every channel.
func defaultRouteFlags(ch Channel, numChannels int) []bool {
	flags := make([]bool, numChannels)
	switch ch {
	case ChannelLeft:
		flags[0] = true
	case ChannelRight:
		if numChannels > 1 {
			flags[1] = true
		} else {
			flags[0] = true
		}
	default: // ChannelMono and anything unrecognized
		for i := range flags {
			flags[i] = true
		}
	}
	return flags
}
