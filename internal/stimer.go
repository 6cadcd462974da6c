// Software timer: out of scope per spec.md §1 ("Non-goals: ... software
// timers are an external collaborator, not part of the scheduler core"),
// carried forward as a companion utility per SPEC_FULL.md §4.6.
//
// Grounded on QuarkTS.c's qSTimerSet/qSTimerFreeRun/qSTimerExpired/
// qSTimerElapsed/qSTimerRemaining/qSTimerDisarm. Unlike the scheduler's own
// Epoch-returning Clock, an STimer in the original reads a global
// (_qSysTick_Epochs_); here it holds a reference to the Clock it was
// created against, same epoch arithmetic, same "armed" bookkeeping.

package quarkts_internal

// STimer is a one-shot or free-running countdown measured in a Clock's tick
// units rather than wall-clock time.
type STimer struct {
	clock *Clock
	armed bool
	start Epoch
	ticks uint32
}

// NewSTimer builds a disarmed timer bound to clock.
func NewSTimer(clock *Clock) *STimer {
	return &STimer{clock: clock}
}

// Set arms the timer to expire after ticks clock ticks from now, matching
// qSTimerSet. A caller that wants to specify a duration rather than a raw
// tick count should convert it to ticks against its own tick period first
// (spec.md deliberately has no notion of wall-clock seconds).
func (st *STimer) Set(ticks uint32) {
	st.ticks = ticks
	st.start = st.clock.Now()
	st.armed = true
}

// Expired reports whether the timer is armed and its interval has elapsed.
// A disarmed timer always reports false, matching qSTimerExpired's note
// that "a disarmed STimer also returns false".
func (st *STimer) Expired() bool {
	if !st.armed {
		return false
	}
	return DeadlineReached(st.clock.Now(), st.start, st.ticks)
}

// FreeRun checks-and-rearms: if armed and expired, it disarms and returns
// true (the caller is expected to Set it again, or call FreeRun again with
// the same ticks to re-arm unconditionally); if armed and not yet expired it
// returns false; if disarmed it arms with ticks and returns false. This
// mirrors qSTimerFreeRun's "call me every sweep with the same interval"
// self-rearming contract.
func (st *STimer) FreeRun(ticks uint32) bool {
	if st.armed {
		if st.Expired() {
			st.Disarm()
			return true
		}
		return false
	}
	st.Set(ticks)
	return false
}

// Elapsed returns ticks since the timer was last armed (0 if disarmed).
func (st *STimer) Elapsed() uint32 {
	if !st.armed {
		return 0
	}
	return uint32(st.clock.Now() - st.start)
}

// Remaining returns ticks left until expiration, or 0 if already expired or
// disarmed.
func (st *STimer) Remaining() uint32 {
	if !st.armed {
		return 0
	}
	elapsed := st.Elapsed()
	if elapsed >= st.ticks {
		return 0
	}
	return st.ticks - elapsed
}

// Disarm stops the timer without rearming it.
func (st *STimer) Disarm() {
	st.armed = false
	st.start = 0
}

// Armed reports whether the timer currently has an active interval.
func (st *STimer) Armed() bool {
	return st.armed
}
