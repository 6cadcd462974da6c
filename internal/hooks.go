// Integrator hooks: the critical-section guard, event-info record, trigger
// enumeration, and the handful of sentinel constants an integrator needs.
//
// Grounded on QuarkTS.c's QuarkTSCoreData_t flags/hooks and qEvent_t. The
// "scoped guard" replacing the disable()/restore() pair is exactly the
// design note from spec.md §9: a CriticalSection.Enter() returns the release
// function, so `defer cs.Enter()()` guarantees the release runs on every
// exit path from the guarded block, including a panic unwind.

package quarkts_internal

const (
	// Immediate is the Interval sentinel meaning "fire every sweep".
	Immediate uint32 = 0
	// Periodic is the Iterations sentinel meaning "never decrement, never
	// auto-disable".
	Periodic int32 = -1
	// Singleshot is the conventional Iterations value for "fire exactly once".
	Singleshot int32 = 1

	// PriorityMin and PriorityMax bound the task priority range.
	PriorityMin uint8 = 0
	PriorityMax uint8 = 255
)

// Trigger identifies the cause of a task firing.
type Trigger int

const (
	// NoTrigger is the zero value meaning "no trigger matched"; it is never
	// delivered to a callback.
	NoTrigger Trigger = iota
	TimeElapsed
	Async
	QueueExtraction
	RBFull
	RBCount
	RBAutoPop
	RBEmpty
	// Priority is the trigger delivered to the idle callback.
	Priority
)

var triggerNames = map[Trigger]string{
	NoTrigger:       "NoTrigger",
	TimeElapsed:     "TimeElapsed",
	Async:           "Async",
	QueueExtraction: "QueueExtraction",
	RBFull:          "RBFull",
	RBCount:         "RBCount",
	RBAutoPop:       "RBAutoPop",
	RBEmpty:         "RBEmpty",
	Priority:        "Priority",
}

func (t Trigger) String() string {
	if name, ok := triggerNames[t]; ok {
		return name
	}
	return "Unknown"
}

// EventInfo is built afresh for every callback invocation and passed by
// pointer: to the user task callback, the FSM (as its Data field), the idle
// callback, and the release callback. It is never shared across concurrent
// firings since at most one callback runs at a time (spec.md §5).
type EventInfo struct {
	Trigger   Trigger
	FirstCall bool
	TaskData  any
	EventData any
}

// CriticalSection is the scoped-guard replacement for QuarkTS's
// disable()/restore() hook pair. Enter returns a function that ends the
// guarded section; callers use it as `defer cs.Enter()()`. A nil
// CriticalSection means "no guard installed" and the scheduler falls back to
// its own mutex (see scheduler.go), which keeps the module race-free on a
// host OS even when the integrator supplies nothing — unlike bare-metal
// QuarkTS, a Go program always has more than one goroutine able to touch
// scheduler state.
type CriticalSection interface {
	Enter() (release func())
}

// CriticalSectionFunc adapts a pair of plain functions to CriticalSection.
type CriticalSectionFunc struct {
	DisableFn func()
	RestoreFn func()
}

func (cs *CriticalSectionFunc) Enter() (release func()) {
	if cs.DisableFn != nil {
		cs.DisableFn()
	}
	return func() {
		if cs.RestoreFn != nil {
			cs.RestoreFn()
		}
	}
}
