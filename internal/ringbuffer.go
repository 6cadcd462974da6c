// Ring Buffer (C1): a fixed-capacity, single-producer/single-consumer
// circular queue whose occupancy events can drive a task's firing.
//
// Grounded on QuarkTS.c's qRBufferInit/qRBufferPush/qRBufferPopFront/
// qRBufferGetFront/_qRBufferValidPowerOfTwo/_qRBufferCount/_qRBufferFull. The
// original stores element bytes in a `void*` data block indexed by
// `pos % Elementcount`; in Go the natural analogue is a generic slice, which
// keeps the power-of-two masking idea (capacity is always a power of two) but
// drops the element-size/byte-copy plumbing that only exists in C because it
// has no type-safe generic container.

package quarkts_internal

import "errors"

var ErrRingBufferZeroCapacity = errors.New("ring buffer requested capacity must be > 0")

// RingBuffer is a fixed-capacity circular buffer of elements of type T.
// head and tail only ever increase; count = head - tail (unsigned), so the
// buffer tolerates one full wraparound of the index space, same as the
// original's qClock_t-sized head/tail.
type RingBuffer[T any] struct {
	data     []T
	capacity uint32
	head     uint32
	tail     uint32
}

// NewRingBuffer allocates a ring buffer whose capacity is rounded down to the
// largest power of two <= requestedCapacity (so that `pos % capacity` can be
// implemented as a mask in Count/slot math). requestedCapacity must be > 0.
func NewRingBuffer[T any](requestedCapacity int) (*RingBuffer[T], error) {
	if requestedCapacity <= 0 {
		return nil, ErrRingBufferZeroCapacity
	}
	capacity := NextPowerOfTwo(uint32(requestedCapacity))
	if capacity == 0 {
		capacity = 1
	}
	return &RingBuffer[T]{
		data:     make([]T, capacity),
		capacity: capacity,
	}, nil
}

// Capacity returns the (power-of-two) element capacity.
func (rb *RingBuffer[T]) Capacity() uint32 {
	return rb.capacity
}

// Count returns the number of elements currently stored.
func (rb *RingBuffer[T]) Count() uint32 {
	return rb.head - rb.tail
}

// Empty reports whether the buffer holds no elements.
func (rb *RingBuffer[T]) Empty() bool {
	return rb.Count() == 0
}

// Full reports whether the buffer holds Capacity() elements.
func (rb *RingBuffer[T]) Full() bool {
	return rb.Count() == rb.capacity
}

func (rb *RingBuffer[T]) slot(pos uint32) uint32 {
	return pos & (rb.capacity - 1)
}

// Push appends elem at the head of the buffer. It returns false without
// modifying the buffer if it is full.
func (rb *RingBuffer[T]) Push(elem T) bool {
	if rb.Full() {
		return false
	}
	rb.data[rb.slot(rb.head)] = elem
	rb.head++
	return true
}

// PeekFront returns a pointer to the element at the tail (the oldest
// unconsumed element) without removing it, or nil if the buffer is empty.
// The returned pointer aliases the buffer's backing storage and is only
// valid until the next Push/PopFront call.
func (rb *RingBuffer[T]) PeekFront() *T {
	if rb.Empty() {
		return nil
	}
	return &rb.data[rb.slot(rb.tail)]
}

// PopFront removes and returns the element at the tail, or the zero value and
// false if the buffer is empty.
func (rb *RingBuffer[T]) PopFront() (T, bool) {
	var zero T
	if rb.Empty() {
		return zero, false
	}
	elem := rb.data[rb.slot(rb.tail)]
	rb.tail++
	return elem, true
}

// advanceTail drops the front element without returning it. Used by the
// scheduler to implement the autopop trigger's "advance after the callback
// returns" semantics (spec.md §4.1), where the element was already delivered
// to the callback via PeekFront.
func (rb *RingBuffer[T]) advanceTail() {
	if !rb.Empty() {
		rb.tail++
	}
}

// peekFrontAny and advanceTailAny satisfy the unexported ringBufferHandle
// interface in task.go, letting a Task hold a reference to a RingBuffer[T]
// for any T without the Task itself becoming generic.
func (rb *RingBuffer[T]) peekFrontAny() any {
	if front := rb.PeekFront(); front != nil {
		return *front
	}
	return nil
}

func (rb *RingBuffer[T]) advanceTailAny() {
	rb.advanceTail()
}
