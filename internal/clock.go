// Epoch tick source: the monotonic counter the scheduler's deadlines are
// measured against. One increment == one elapsed tick period.
//
// Grounded on QuarkTS.c's `_qSysTick_Epochs_` and `_Q_TASK_DEADLINE_REACHED`.
// The original is a plain global incremented from an ISR; here it is an
// atomic counter so that the Go stand-in for the ISR (whatever goroutine is
// driving ticks) can run concurrently with the scheduler's own goroutine
// without a data race.

package quarkts_internal

import "sync/atomic"

// Epoch is a tick count. Only unsigned differences are meaningful, so that a
// wraparound of the counter (which will happen, eventually, on a system that
// runs long enough) does not produce a spurious negative deadline.
type Epoch uint64

// Clock holds the epoch counter advanced by the tick source.
type Clock struct {
	epoch atomic.Uint64
}

// NewClock returns a Clock starting at epoch 0.
func NewClock() *Clock {
	return &Clock{}
}

// Tick advances the epoch by one. This is the Go analogue of the system
// timer ISR calling qSchedulerSysTick() — it is the only mutation safe to
// call concurrently with the scheduler's own goroutine, since it is a single
// atomic add.
func (c *Clock) Tick() {
	c.epoch.Add(1)
}

// Now returns the current epoch.
func (c *Clock) Now() Epoch {
	return Epoch(c.epoch.Load())
}

// Reset sets the epoch back to 0. Intended for test fixtures only; a running
// scheduler should never have its clock rewound.
func (c *Clock) Reset() {
	c.epoch.Store(0)
}

// DeadlineReached reports whether at least interval epochs have elapsed
// since start, given the current epoch now. The subtraction is unsigned so
// it is correct across exactly one wraparound of the counter, per spec.
func DeadlineReached(now, start Epoch, interval uint32) bool {
	if interval == Immediate {
		return true
	}
	return uint64(now-start) >= uint64(interval)
}
