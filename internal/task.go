// Task Record (C4): per-task configuration and runtime state.
//
// Grounded on QuarkTS.c's qTask_t and its qTaskSet*/qTaskSendEvent/
// qTaskLinkRBuffer setters. The chain `Next` pointer from the original is
// gone — the scheduler owns an explicit []*Task chain (see scheduler.go) per
// the "arena + indices" design note in spec.md §9 — but everything else
// about the record is a direct, field-for-field port.

package quarkts_internal

import (
	"errors"
	"sync"
)

var (
	ErrBadTask     = errors.New("nil task handle")
	ErrBadCallback = errors.New("task callback must not be nil")
	ErrBadInterval = errors.New("task interval must be 0 (Immediate) or >= 2x the scheduler tick")
	ErrBadFSM      = errors.New("task fsm/init state must not be nil")
)

// CallbackKind tags whether a Task runs a plain user callback or a bound
// FSM. This replaces QuarkTS's `Callback == (qTaskFcn_t)1` sentinel with an
// explicit enum, per spec.md §9's "explicit tag" design note.
type CallbackKind int

const (
	UserCallback CallbackKind = iota
	FSMCallback
)

// TaskCallback is the shape of a plain (non-FSM) task callback.
type TaskCallback func(ev *EventInfo)

// RBLinkMode tags how (or whether) a ring buffer is linked to a task,
// replacing the four independent rb_autopop/rb_full/rb_count/rb_empty flags
// in qTask_t.Flag with a single tagged variant, per spec.md §9.
type RBLinkMode int

const (
	RBLinkNone RBLinkMode = iota
	RBLinkAutoPop
	RBLinkFull
	RBLinkCount
	RBLinkEmpty
)

// ringBufferHandle is the narrow interface the scheduler needs from a linked
// ring buffer, independent of its element type.
type ringBufferHandle interface {
	Full() bool
	Empty() bool
	Count() uint32
	peekFrontAny() any
	advanceTailAny()
}

// Task is the central scheduling entity. A Task is always supplied by the
// integrator as a stable pointer (spec.md invariant: "the scheduler never
// copies task records") and is addressed only through that pointer.
type Task struct {
	mu sync.Mutex

	// identity
	kind     CallbackKind
	callback TaskCallback
	fsm      *FSM
	userData any

	// schedule
	interval   uint32
	iterations int32
	clockStart Epoch
	cycles     uint64

	// flags
	enabled    bool
	timeDriven bool
	asyncRun   bool
	asyncData  any
	initDone   bool
	priority   uint8

	// ring-buffer linkage
	rbMode      RBLinkMode
	rbThreshold uint32
	rb          ringBufferHandle
}

// newTask builds a Task with the given identity/schedule/state. Shared by
// AddTask/AddEventTask/AddFSMTask in scheduler.go.
func newTask(now Epoch, kind CallbackKind, cb TaskCallback, fsm *FSM, priority uint8, interval uint32, iterations int32, enabled, timeDriven bool, userData any) *Task {
	return &Task{
		kind:       kind,
		callback:   cb,
		fsm:        fsm,
		userData:   userData,
		priority:   priority,
		interval:   interval,
		iterations: iterations,
		enabled:    enabled,
		timeDriven: timeDriven,
		clockStart: now,
	}
}

// Enabled reports whether the task currently participates in time-elapsed
// firing. A disabled task still participates in ring-buffer, async and queue
// triggers, per spec.md §4.1.
func (t *Task) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// Priority returns the task's current priority.
func (t *Task) Priority() uint8 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.priority
}

// Cycles returns the number of times the task has fired.
func (t *Task) Cycles() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cycles
}

// Data returns the task's opaque user data.
func (t *Task) Data() any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.userData
}

// SetInterval changes the firing interval (Immediate fires every sweep).
func (t *Task) SetInterval(interval uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interval = interval
}

// SetIterations changes the remaining iteration count (Periodic never
// decrements or auto-disables). Tasks do not remember their original
// iteration count once it reaches 0; set it again to resume.
func (t *Task) SetIterations(iterations int32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.iterations = iterations
}

// SetCallback changes the plain user callback. Has no effect on an
// FSM-backed task's identity; it only matters if the task is later switched
// back to UserCallback kind, which this library doesn't expose, so calling
// it on an FSM task is a no-op by construction (the scheduler only consults
// callback when kind == UserCallback).
func (t *Task) SetCallback(cb TaskCallback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callback = cb
}

// SetData changes the task's opaque user data.
func (t *Task) SetData(data any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.userData = data
}

// SetEnabled sets the enabled flag. Enabling a previously-disabled task
// resets ClockStart to now (matching qTaskSetState: "if(State &&
// Task->Flag.Enabled) return" — re-enabling an already-enabled task is a
// no-op, but disabled->enabled always resets the clock).
func (t *Task) SetEnabled(now Epoch, enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if enabled && t.enabled {
		return
	}
	t.enabled = enabled
	t.clockStart = now
}

// ClearElapsed resets ClockStart to now, restarting the task's internal
// deadline window without touching the enabled flag.
func (t *Task) ClearElapsed(now Epoch) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clockStart = now
}

// SendAsync marks the task ready for an async firing on the next sweep, with
// data available as EventInfo.EventData. Last-writer-wins: if the task is
// sent two async events before the next sweep consumes the first, the first
// is lost, per spec.md §5's documented shared-mutable-state tradeoff.
func (t *Task) SendAsync(data any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.asyncData = data
	t.asyncRun = true
}

// setPriority is called only by the scheduler (which must also mark its
// chain dirty), hence unexported; the public surface is Scheduler.SetTaskPriority.
func (t *Task) setPriority(p uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.priority = p
}

func (t *Task) hasPendingIterations() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.iterations > 0 || t.iterations == Periodic
}

// tryFireOnDeadline resolves the "time elapsed" trigger check+mutation
// atomically against concurrent SetEnabled/SetInterval/SetIterations calls,
// mirroring the read-then-mutate block inline in qSchedulerRun.
func (t *Task) tryFireOnDeadline(now Epoch) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.timeDriven || !t.enabled {
		return false
	}
	if !(t.iterations > 0 || t.iterations == Periodic) {
		return false
	}
	if !DeadlineReached(now, t.clockStart, t.interval) {
		return false
	}
	t.clockStart = now
	if t.iterations != Periodic {
		t.iterations--
		if t.iterations == 0 {
			t.enabled = false
		}
	}
	return true
}

func (t *Task) takeAsync() (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.asyncRun {
		return nil, false
	}
	data := t.asyncData
	t.asyncRun = false
	t.asyncData = nil
	return data, true
}

func (t *Task) linkRingBuffer(rb ringBufferHandle, mode RBLinkMode, arg uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if arg == 0 {
		t.rb = nil
		t.rbMode = RBLinkNone
		t.rbThreshold = 0
		return
	}
	t.rb = rb
	t.rbMode = mode
	if mode == RBLinkCount {
		t.rbThreshold = arg
	}
}

// checkRingBufferEvent checks the condition of the task's linked mode. A task
// holds one RBLinkMode at a time, so of RB_FULL -> RB_COUNT -> RB_AUTOPOP ->
// RB_EMPTY only the linked mode's condition is ever evaluated. It returns
// NoTrigger if no linked ring buffer or the condition does not hold.
// eventData is the peeked (not yet popped) front element when the trigger is
// RBAutoPop, per the "tail advances after the callback returns" rule, and the
// ring buffer itself otherwise.
func (t *Task) checkRingBufferEvent() (trigger Trigger, eventData any) {
	t.mu.Lock()
	rb, mode, threshold := t.rb, t.rbMode, t.rbThreshold
	t.mu.Unlock()

	if rb == nil || mode == RBLinkNone {
		return NoTrigger, nil
	}

	switch mode {
	case RBLinkFull:
		if rb.Full() {
			return RBFull, rb
		}
	case RBLinkCount:
		if threshold > 0 && threshold >= rb.Count() {
			return RBCount, rb
		}
	case RBLinkAutoPop:
		if front := rb.peekFrontAny(); front != nil {
			return RBAutoPop, front
		}
	case RBLinkEmpty:
		if rb.Empty() {
			return RBEmpty, rb
		}
	}
	return NoTrigger, nil
}

// advanceLinkedRingBuffer pops the front element the autopop trigger peeked.
// Called by the scheduler strictly after the callback returns.
func (t *Task) advanceLinkedRingBuffer() {
	t.mu.Lock()
	rb := t.rb
	t.mu.Unlock()
	if rb != nil {
		rb.advanceTailAny()
	}
}

// firstCall reports whether this would be the task's first firing since it
// was added (or since it was last reset). It does not mutate initDone: the
// caller only knows whether a trigger actually fired after evaluating the
// whole precedence chain, and initDone must flip only on an actual firing
// (see fire), not on a sweep where no trigger matched.
func (t *Task) firstCall() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.initDone
}

// fire dispatches one callback invocation: a plain user callback or, for an
// FSM-backed task, one FSM transition with ev stashed as fsm.Data. It also
// bumps the cycle counter, matching qTaskSelf()->State.Cycles in the
// original.
func (t *Task) fire(ev *EventInfo) {
	t.mu.Lock()
	t.cycles++
	t.initDone = true
	kind, cb, fsm := t.kind, t.callback, t.fsm
	t.mu.Unlock()

	switch kind {
	case FSMCallback:
		if fsm != nil {
			fsm.Run(ev)
		}
	default:
		if cb != nil {
			cb(ev)
		}
	}
}
