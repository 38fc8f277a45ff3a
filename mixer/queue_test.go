package mixer

import "testing"

func TestSampleQueueAppendCommitConsume(t *testing.T) {
	q := newSampleQueue()

	slots := q.appendSlots(10)
	if len(slots) != 10 {
		t.Fatalf("appendSlots(10) returned %d slots, want 10", len(slots))
	}
	for i := range slots {
		slots[i] = float64(i)
	}
	q.commit(10)

	if q.length != 10 {
		t.Fatalf("length after commit = %d, want 10", q.length)
	}

	w := q.window()
	for i, v := range w {
		if v != float64(i) {
			t.Fatalf("window()[%d] = %v, want %v", i, v, float64(i))
		}
	}

	q.consume(4)
	if q.length != 6 {
		t.Fatalf("length after consume(4) = %d, want 6", q.length)
	}
	w = q.window()
	if w[0] != 4 {
		t.Fatalf("window()[0] after consume(4) = %v, want 4", w[0])
	}
}

func TestSampleQueueCompactOnRefill(t *testing.T) {
	q := newSampleQueue()
	slots := q.appendSlots(queueProcessingSlice)
	q.commit(len(slots))
	q.consume(len(slots) - 10) // 10 samples remain, start advanced

	if q.start == 0 {
		t.Fatalf("expected start to have advanced before compaction")
	}

	// Below Pslice: appendSlots should compact (reset start to 0) before
	// returning room.
	more := q.appendSlots(queueProcessingSlice)
	if q.start != 0 {
		t.Fatalf("start after compacting appendSlots = %d, want 0", q.start)
	}
	if len(more) == 0 {
		t.Fatalf("expected room after compaction, got none")
	}
}

func TestSampleQueueResetClears(t *testing.T) {
	q := newSampleQueue()
	slots := q.appendSlots(100)
	q.commit(len(slots))
	q.consume(50)
	q.reset()
	if q.start != 0 || q.length != 0 {
		t.Fatalf("reset left start=%d length=%d, want 0,0", q.start, q.length)
	}
}

func TestSampleQueueCapacityBounds(t *testing.T) {
	q := newSampleQueue()
	slots := q.appendSlots(queueCapacity + 1000)
	if len(slots) > queueCapacity {
		t.Fatalf("appendSlots gave %d slots, exceeds capacity %d", len(slots), queueCapacity)
	}
}
