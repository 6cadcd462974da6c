// Priority Event Queue (C3): a bounded FIFO-within-priority queue of
// (task, payload) pairs, safe to enqueue from an ISR-equivalent goroutine.
//
// Grounded on QuarkTS.c's qTaskQueueEvent/_qPrioQueueExtract. The original
// scans the backing array for the highest-priority occupied slot and shifts
// the tail down by one to remove it; that's preserved here verbatim (a heap
// would break the FIFO-within-priority tie-break spec.md requires, since a
// binary heap is not stable).

package quarkts_internal

import "errors"

var ErrQueueFull = errors.New("event queue is full")

type queueEntry struct {
	task    *Task
	payload any
}

// EventQueue is the bounded priority queue described in spec.md §4.3.
// Extract and Enqueue are wrapped in the scheduler's CriticalSection, since
// Enqueue is the one entry point meant to be called from an ISR-equivalent
// goroutine.
type EventQueue struct {
	entries  []queueEntry
	writeIdx int
}

// NewEventQueue allocates a queue with the given fixed capacity.
func NewEventQueue(capacity int) *EventQueue {
	return &EventQueue{
		entries: make([]queueEntry, capacity),
	}
}

// Len returns the number of entries currently queued.
func (q *EventQueue) Len() int {
	return q.writeIdx
}

// Cap returns the fixed capacity of the queue.
func (q *EventQueue) Cap() int {
	return len(q.entries)
}

// Enqueue appends (task, payload) to the queue. It fails with ErrQueueFull
// once Cap() entries are pending. Caller must hold the critical section.
func (q *EventQueue) Enqueue(task *Task, payload any) error {
	if task == nil {
		return ErrBadTask
	}
	if q.writeIdx >= len(q.entries) {
		return ErrQueueFull
	}
	q.entries[q.writeIdx] = queueEntry{task: task, payload: payload}
	q.writeIdx++
	return nil
}

// Extract removes and returns the first occurrence of the highest-priority
// queued task (ties broken by lowest index, i.e. FIFO within priority), or
// (nil, nil, false) if the queue is empty. Caller must hold the critical
// section.
func (q *EventQueue) Extract() (*Task, any, bool) {
	if q.writeIdx == 0 {
		return nil, nil, false
	}

	best := 0
	bestPriority := q.entries[0].task.Priority()
	for i := 1; i < q.writeIdx; i++ {
		if p := q.entries[i].task.Priority(); p > bestPriority {
			bestPriority = p
			best = i
		}
	}

	entry := q.entries[best]
	for i := best; i < q.writeIdx-1; i++ {
		q.entries[i] = q.entries[i+1]
	}
	q.writeIdx--
	q.entries[q.writeIdx] = queueEntry{}

	return entry.task, entry.payload, true
}
