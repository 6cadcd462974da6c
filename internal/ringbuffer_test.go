package quarkts_internal

import "testing"

func TestNewRingBufferRejectsZeroCapacity(t *testing.T) {
	if _, err := NewRingBuffer[int](0); err != ErrRingBufferZeroCapacity {
		t.Fatalf("want ErrRingBufferZeroCapacity, got %v", err)
	}
}

func TestNewRingBufferRoundsCapacityDownToPowerOfTwo(t *testing.T) {
	rb, err := NewRingBuffer[int](5)
	if err != nil {
		t.Fatalf("NewRingBuffer: %v", err)
	}
	if rb.Capacity() != 4 {
		t.Fatalf("want capacity rounded down to 4, got %d", rb.Capacity())
	}
}

func TestRingBufferPushPopFIFO(t *testing.T) {
	rb, _ := NewRingBuffer[string](4)
	for _, s := range []string{"a", "b", "c"} {
		if !rb.Push(s) {
			t.Fatalf("want Push(%q) to succeed", s)
		}
	}
	for _, want := range []string{"a", "b", "c"} {
		got, ok := rb.PopFront()
		if !ok || got != want {
			t.Fatalf("want PopFront()=%q, got %q ok=%v", want, got, ok)
		}
	}
	if !rb.Empty() {
		t.Fatalf("want buffer empty after draining")
	}
}

func TestRingBufferFullRejectsPush(t *testing.T) {
	rb, _ := NewRingBuffer[int](2)
	if !rb.Push(1) || !rb.Push(2) {
		t.Fatalf("want first two pushes to succeed")
	}
	if rb.Push(3) {
		t.Fatalf("want Push to fail once buffer is full")
	}
	if !rb.Full() {
		t.Fatalf("want Full() true")
	}
}

func TestRingBufferPeekFrontDoesNotRemove(t *testing.T) {
	rb, _ := NewRingBuffer[int](2)
	rb.Push(7)
	if front := rb.PeekFront(); front == nil || *front != 7 {
		t.Fatalf("want PeekFront()==7")
	}
	if rb.Count() != 1 {
		t.Fatalf("want PeekFront to leave Count unchanged, got %d", rb.Count())
	}
}

func TestRingBufferTolerateWraparound(t *testing.T) {
	rb, _ := NewRingBuffer[int](2)
	for i := 0; i < 1000; i++ {
		rb.Push(i)
		if got, ok := rb.PopFront(); !ok || got != i {
			t.Fatalf("iteration %d: want %d, got %d ok=%v", i, i, got, ok)
		}
	}
}

func TestRingBufferAdvanceTailAnyMatchesPeekFrontAny(t *testing.T) {
	rb, _ := NewRingBuffer[int](2)
	rb.Push(42)
	if got := rb.peekFrontAny(); got != 42 {
		t.Fatalf("want peekFrontAny()==42, got %v", got)
	}
	rb.advanceTailAny()
	if !rb.Empty() {
		t.Fatalf("want buffer empty after advanceTailAny")
	}
}
