// queue.go
package mixer

// Suggested constants from spec §4.3: Pslice < Qmax, Qmax >= 4*Pslice.
const (
	queueProcessingSlice = 1024
	queueCapacity        = 4 * queueProcessingSlice
)

// sampleQueue is the fixed-capacity pre-resample staging buffer for one
// input track (spec §4.3). It holds already envelope-multiplied, already
// direction-corrected (reversed, for backwards playback) samples so that
// TrackMixer.MixVariableRates can hand the resampler contiguous slices
// without touching the source again mid-slice.
type sampleQueue struct {
	buf    []float64
	start  int
	length int
}

func newSampleQueue() *sampleQueue {
	return &sampleQueue{buf: make([]float64, queueCapacity)}
}

func (q *sampleQueue) reset() {
	q.start = 0
	q.length = 0
}

// compact moves the live window [start, start+length) to offset 0.
// appendSlots calls it whenever fewer than a processing slice of samples
// remain queued, whatever the room left at the end of the buffer.
func (q *sampleQueue) compact() {
	if q.start == 0 {
		return
	}
	copy(q.buf[0:q.length], q.buf[q.start:q.start+q.length])
	q.start = 0
}

// appendSlots returns the writable region at the end of the live window,
// after compacting if necessary, sized to at most n elements.
func (q *sampleQueue) appendSlots(n int) []float64 {
	if q.length < queueProcessingSlice {
		q.compact()
	}
	room := len(q.buf) - (q.start + q.length)
	if n > room {
		n = room
	}
	if n <= 0 {
		return nil
	}
	base := q.start + q.length
	return q.buf[base : base+n]
}

// commit marks n freshly-written trailing slots (from the slice returned
// by appendSlots) as part of the live window.
func (q *sampleQueue) commit(n int) {
	q.length += n
}

// consume drops n samples from the front of the live window, as the
// resampler reports them used.
func (q *sampleQueue) consume(n int) {
	q.start += n
	q.length -= n
}

// window returns the live, readable region of the queue.
func (q *sampleQueue) window() []float64 {
	return q.buf[q.start : q.start+q.length]
}
