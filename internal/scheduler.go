// Scheduler Core (C5): cooperative, single-pass priority dispatch over a
// chain of tasks.
//
// Grounded on QuarkTS.c's qSchedulerRun/_qTaskChainbyPriority/
// _qCheckRBufferEvents/_qTriggerEvent/_qTriggerIdleTask/
// _qTriggerReleaseSchedEvent and qSchedulerAddxTask/AddeTask/AddSMTask. The
// goroutine/heap/worker-pool dispatch style used elsewhere in this
// repository's ambient code does not apply here: spec.md requires a single
// cooperative pass with a fixed trigger precedence per task, so Run below is
// a direct, faithful port of qSchedulerRun's sweep, not the teacher's
// concurrent scheduler loop. What IS carried from the teacher is its logging
// cadence, state-enum idiom, and lock discipline (see logger.go).

package quarkts_internal

import (
	"errors"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	ErrBadPriority   = errors.New("task priority exceeds PriorityMax")
	ErrQueueDisabled = errors.New("scheduler has no event queue configured")
)

// SchedulerState mirrors the small lifecycle state machine a scheduler moves
// through, in the same spirit as the teacher's SchedulerState enum: a
// handful of named states plus a String() method, logged at each transition.
type SchedulerState int

const (
	SchedulerStateIdle SchedulerState = iota
	SchedulerStateRunning
	SchedulerStateReleased
)

var schedulerStateNames = map[SchedulerState]string{
	SchedulerStateIdle:     "Idle",
	SchedulerStateRunning:  "Running",
	SchedulerStateReleased: "Released",
}

func (s SchedulerState) String() string {
	if name, ok := schedulerStateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Scheduler owns the task chain, the priority event queue, and the clock,
// and runs the cooperative sweep described in spec.md §4.4/§4.5.
type Scheduler struct {
	log *logrus.Entry

	clock *Clock
	queue *EventQueue

	cs       CriticalSection
	fallback sync.Mutex

	chainMu    sync.Mutex
	tasks      []*Task
	chainDirty bool

	state SchedulerState

	idleCallback    TaskCallback
	releaseCallback TaskCallback
	idleFirstCall   bool
	releaseFired    bool
}

// NewScheduler builds a Scheduler with its own Clock and an event queue of
// the given capacity (0 disables the queue: Enqueue always fails with
// ErrQueueDisabled).
func NewScheduler(queueCapacity int) *Scheduler {
	var q *EventQueue
	if queueCapacity > 0 {
		q = NewEventQueue(queueCapacity)
	}
	return &Scheduler{
		log:           NewCompLogger("scheduler"),
		clock:         NewClock(),
		queue:         q,
		state:         SchedulerStateIdle,
		idleFirstCall: true,
	}
}

// Clock exposes the scheduler's internal tick clock, e.g. for a tick driver
// to call Tick() on, or for tests to read Now().
func (s *Scheduler) Clock() *Clock { return s.clock }

// SetCriticalSection installs the integrator's ISR-disable/restore pair. A
// nil CriticalSection (the default) makes the scheduler fall back to its own
// mutex, per the design note in hooks.go.
func (s *Scheduler) SetCriticalSection(cs CriticalSection) {
	s.chainMu.Lock()
	defer s.chainMu.Unlock()
	s.cs = cs
}

func (s *Scheduler) enter() func() {
	s.chainMu.Lock()
	cs := s.cs
	s.chainMu.Unlock()
	if cs != nil {
		return cs.Enter()
	}
	s.fallback.Lock()
	return s.fallback.Unlock
}

// SetIdleCallback installs the callback fired once per sweep once every task
// in the chain has been checked and none fired, per spec.md §4.4's idle
// trigger.
func (s *Scheduler) SetIdleCallback(cb TaskCallback) {
	s.chainMu.Lock()
	defer s.chainMu.Unlock()
	s.idleCallback = cb
}

// SetReleaseCallback installs the callback fired exactly once, on the sweep
// after Release is called, after which Run stops scheduling further task
// firings.
func (s *Scheduler) SetReleaseCallback(cb TaskCallback) {
	s.chainMu.Lock()
	defer s.chainMu.Unlock()
	s.releaseCallback = cb
}

func (s *Scheduler) setState(state SchedulerState) {
	s.state = state
	s.log.WithField("state", state.String()).Debug("scheduler state change")
}

// State returns the scheduler's current lifecycle state.
func (s *Scheduler) State() SchedulerState {
	s.chainMu.Lock()
	defer s.chainMu.Unlock()
	return s.state
}

func (s *Scheduler) validateAdmission(priority uint8) error {
	if priority > PriorityMax {
		return ErrBadPriority
	}
	return nil
}

func (s *Scheduler) addTask(t *Task) {
	s.chainMu.Lock()
	defer s.chainMu.Unlock()
	s.tasks = append(s.tasks, t)
	s.chainDirty = true
	s.log.WithFields(logrus.Fields{
		"priority": t.Priority(),
	}).Debug("task added to chain")
}

// AddTask registers a plain-callback task. cb must not be nil. interval is
// the minimum tick count between firings (Immediate fires every sweep);
// iterations is the fire budget (Periodic never decrements).
func (s *Scheduler) AddTask(priority uint8, interval uint32, iterations int32, enabled bool, cb TaskCallback, userData any) (*Task, error) {
	if cb == nil {
		return nil, ErrBadCallback
	}
	if err := s.validateAdmission(priority); err != nil {
		return nil, err
	}
	t := newTask(s.clock.Now(), UserCallback, cb, nil, priority, interval, iterations, enabled, true, userData)
	s.addTask(t)
	return t, nil
}

// AddEventTask registers a task with no time-elapsed trigger of its own: it
// fires only from a linked ring buffer, a queued event, or SendAsync. It is
// created enabled (the enabled flag only gates the time-elapsed trigger, so
// this only matters if the task is later switched to time-driven, which this
// package does not expose).
func (s *Scheduler) AddEventTask(priority uint8, cb TaskCallback, userData any) (*Task, error) {
	if cb == nil {
		return nil, ErrBadCallback
	}
	if err := s.validateAdmission(priority); err != nil {
		return nil, err
	}
	t := newTask(s.clock.Now(), UserCallback, cb, nil, priority, Immediate, Singleshot, true, false, userData)
	s.addTask(t)
	return t, nil
}

// AddFSMTask registers a task driven by fsm instead of a plain callback.
// Every trigger that would otherwise invoke cb instead calls fsm.Run(ev),
// with ev available to states as fsm.Data.
func (s *Scheduler) AddFSMTask(priority uint8, interval uint32, iterations int32, enabled bool, fsm *FSM, userData any) (*Task, error) {
	if fsm == nil {
		return nil, ErrBadFSM
	}
	if err := s.validateAdmission(priority); err != nil {
		return nil, err
	}
	t := newTask(s.clock.Now(), FSMCallback, nil, fsm, priority, interval, iterations, enabled, true, userData)
	s.addTask(t)
	return t, nil
}

// SetTaskPriority changes a task's priority and marks the chain dirty so the
// next sweep re-sorts it, matching qTaskSetPriority's disable/restore
// bracket around the mutation.
func (s *Scheduler) SetTaskPriority(t *Task, priority uint8) error {
	if t == nil {
		return ErrBadTask
	}
	if priority > PriorityMax {
		return ErrBadPriority
	}
	release := s.enter()
	defer release()
	t.setPriority(priority)
	s.chainMu.Lock()
	s.chainDirty = true
	s.chainMu.Unlock()
	return nil
}

// LinkRingBuffer attaches rb to t under the given mode. arg is the RB_COUNT
// threshold when mode is RBLinkCount, ignored otherwise; passing arg == 0
// unlinks any previously-linked buffer.
func LinkRingBuffer[T any](t *Task, rb *RingBuffer[T], mode RBLinkMode, arg uint32) error {
	if t == nil {
		return ErrBadTask
	}
	t.linkRingBuffer(rb, mode, arg)
	return nil
}

// Enqueue places (task, payload) on the priority event queue for extraction
// on the scheduler's next sweep. Safe to call from any goroutine; internally
// guarded by the scheduler's critical section.
func (s *Scheduler) Enqueue(t *Task, payload any) error {
	if s.queue == nil {
		return ErrQueueDisabled
	}
	release := s.enter()
	defer release()
	return s.queue.Enqueue(t, payload)
}

// sortChainIfDirty performs the stable descending-priority sort described in
// spec.md §4.5: ties keep insertion order. sort.SliceStable gives exactly
// that without hand-rolling the original's bubble pass, while preserving the
// same observable ordering. The sort runs inside the critical section.
func (s *Scheduler) sortChainIfDirty() {
	release := s.enter()
	defer release()
	s.chainMu.Lock()
	defer s.chainMu.Unlock()
	if !s.chainDirty {
		return
	}
	sort.SliceStable(s.tasks, func(i, j int) bool {
		return s.tasks[i].Priority() > s.tasks[j].Priority()
	})
	s.chainDirty = false
}

func (s *Scheduler) snapshotChain() []*Task {
	s.chainMu.Lock()
	defer s.chainMu.Unlock()
	out := make([]*Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// stepTask evaluates exactly one task's trigger precedence for the current
// sweep: queue drain -> time elapsed -> ring-buffer (full -> count -> autopop
// -> empty) -> async. It fires at most one trigger per task per sweep, per
// spec.md §4.1's fixed precedence.
func (s *Scheduler) stepTask(t *Task, now Epoch, queuedPayload any, queuedHit bool) {
	first := t.firstCall()

	if queuedHit {
		s.dispatch(t, EventInfo{Trigger: QueueExtraction, FirstCall: first, TaskData: t.Data(), EventData: queuedPayload})
		return
	}

	if t.tryFireOnDeadline(now) {
		s.dispatch(t, EventInfo{Trigger: TimeElapsed, FirstCall: first, TaskData: t.Data()})
		return
	}

	if trig, data := t.checkRingBufferEvent(); trig != NoTrigger {
		s.dispatch(t, EventInfo{Trigger: trig, FirstCall: first, TaskData: t.Data(), EventData: data})
		if trig == RBAutoPop {
			t.advanceLinkedRingBuffer()
		}
		return
	}

	if data, ok := t.takeAsync(); ok {
		s.dispatch(t, EventInfo{Trigger: Async, FirstCall: first, TaskData: t.Data(), EventData: data})
		return
	}
}

func (s *Scheduler) dispatch(t *Task, ev EventInfo) {
	t.fire(&ev)
}

// Run executes exactly one cooperative sweep over the task chain: it
// extracts at most one queued event per call to Run (the highest-priority
// one pending), then walks the priority-sorted chain once, stepping each
// task per stepTask's precedence. If no task fired this sweep, the idle
// callback (if any) runs once with Trigger == Priority. If Release has been
// called and the release callback has not yet fired, it fires now and Run
// becomes a no-op on every subsequent call.
//
// Run is meant to be called repeatedly from a single driving loop (see
// cmd/quarkdemo), matching qSchedulerRun's "call me forever from main"
// contract; it is not itself a blocking loop.
func (s *Scheduler) Run() {
	s.chainMu.Lock()
	if s.state == SchedulerStateReleased {
		if s.releaseFired {
			s.chainMu.Unlock()
			return
		}
		s.releaseFired = true
		releaseCb := s.releaseCallback
		s.chainMu.Unlock()
		if releaseCb != nil {
			releaseCb(&EventInfo{Trigger: Async, FirstCall: true})
		}
		s.log.Info("scheduler released, no further sweeps")
		return
	}
	if s.state == SchedulerStateIdle {
		s.setState(SchedulerStateRunning)
	}
	s.chainMu.Unlock()

	s.sortChainIfDirty()
	now := s.clock.Now()

	var qTask *Task
	var qPayload any
	var qHit bool
	if s.queue != nil {
		release := s.enter()
		qTask, qPayload, qHit = s.queue.Extract()
		release()
	}

	fired := false
	for _, t := range s.snapshotChain() {
		if qHit && t == qTask {
			s.stepTask(t, now, qPayload, true)
			fired = true
			qHit = false
			continue
		}
		before := t.Cycles()
		s.stepTask(t, now, nil, false)
		if t.Cycles() != before {
			fired = true
		}
	}

	if !fired {
		s.chainMu.Lock()
		idleCb := s.idleCallback
		first := s.idleFirstCall
		s.idleFirstCall = false
		s.chainMu.Unlock()
		if idleCb != nil {
			idleCb(&EventInfo{Trigger: Priority, FirstCall: first})
		}
	}
}

// Release requests an orderly stop: the next call to Run fires the release
// callback (if any) exactly once and every subsequent Run call becomes a
// no-op, matching qSchedulerRelease's one-shot semantics.
func (s *Scheduler) Release() {
	s.chainMu.Lock()
	defer s.chainMu.Unlock()
	s.state = SchedulerStateReleased
	s.log.Info("scheduler release requested")
}

// Tick advances the scheduler's internal epoch by one unit. An integrator's
// tick driver (timer interrupt, ClockNanosleep loop, whatever the host
// provides) calls this at a fixed period; DeadlineReached compares against
// this epoch, not wall-clock time, so the scheduler's notion of "elapsed" is
// entirely in units of Tick calls.
func (s *Scheduler) Tick() {
	release := s.enter()
	defer release()
	s.clock.Tick()
}
