// Finite State Machine executor (C2): one transition per call to Run.
//
// Grounded on QuarkTS.c's qStateMachine_Init/qStateMachine_Run and
// src/os/include/qfsm.h's qSM_t. The C struct's `callback == 1` task
// attachment and raw function-pointer states become an explicit State type
// and a FSM struct whose sub-handlers are plain Go funcs, per the
// "explicit tag" design note in spec.md §9.

package quarkts_internal

import "reflect"

// StateStatus is the value a State function returns. Success and Failure are
// reserved sentinels; any other value in [StatusMin, StatusMax] is routed to
// the "unexpected" sub-handler.
type StateStatus int32

const (
	StatusSuccess StateStatus = -32768
	StatusFailure StateStatus = -32767
	StatusMin     StateStatus = -32766
	StatusMax     StateStatus = 32767
)

// State is one node of the state machine. It receives the FSM so it can read
// fsm.Data and can change the flow by overwriting fsm.NextState before
// returning.
type State func(fsm *FSM) StateStatus

// SubState is a sub-handler (before-any, on-success, on-failure,
// on-unexpected): it observes the outcome of a transition but does not
// itself return a status or change NextState.
type SubState func(fsm *FSM)

// FSM is a finite state machine bound either standalone or to a Task (via
// AddFSMTask). One transition == one call to Run.
type FSM struct {
	// NextState is the state that will run on the next transition. A state
	// function changes the flow by assigning to this field before returning.
	NextState State
	// PreviousState is the state that ran on the last transition.
	PreviousState State
	// LastReturn is the StateStatus returned by PreviousState.
	LastReturn StateStatus
	// Data holds whatever was passed to Run — for an FSM driving a task, this
	// is the task's *EventInfo for the firing that triggered this transition.
	Data any
	// JustChanged is true when PreviousState != the state that is about to
	// run, computed fresh on every transition before it runs.
	JustChanged bool

	beforeAny    SubState
	onSuccess    SubState
	onFailure    SubState
	onUnexpected SubState
}

// NewFSM builds an FSM whose first transition will run initState.
func NewFSM(initState State) *FSM {
	return &FSM{NextState: initState}
}

// OnSuccess/OnFailure/OnUnexpected/BeforeAny register the optional
// sub-handlers. A nil handler is a no-op, matching QuarkTS's NULL checks.
func (fsm *FSM) OnSuccess(h SubState) *FSM    { fsm.onSuccess = h; return fsm }
func (fsm *FSM) OnFailure(h SubState) *FSM    { fsm.onFailure = h; return fsm }
func (fsm *FSM) OnUnexpected(h SubState) *FSM { fsm.onUnexpected = h; return fsm }
func (fsm *FSM) BeforeAny(h SubState) *FSM    { fsm.beforeAny = h; return fsm }

// Run executes exactly one transition:
//  1. fsm.Data = data
//  2. BeforeAny, if set
//  3. If NextState is set: compute JustChanged, run it, record LastReturn,
//     set PreviousState to the state that just ran.
//     If NextState is nil: LastReturn = StatusFailure (no state to run).
//  4. Dispatch to OnSuccess/OnFailure/OnUnexpected based on LastReturn.
func (fsm *FSM) Run(data any) {
	fsm.Data = data

	if fsm.beforeAny != nil {
		fsm.beforeAny(fsm)
	}

	if fsm.NextState != nil {
		fsm.JustChanged = !sameState(fsm.PreviousState, fsm.NextState)
		ran := fsm.NextState
		fsm.LastReturn = ran(fsm)
		fsm.PreviousState = ran
	} else {
		fsm.LastReturn = StatusFailure
	}

	switch fsm.LastReturn {
	case StatusFailure:
		if fsm.onFailure != nil {
			fsm.onFailure(fsm)
		}
	case StatusSuccess:
		if fsm.onSuccess != nil {
			fsm.onSuccess(fsm)
		}
	default:
		if fsm.onUnexpected != nil {
			fsm.onUnexpected(fsm)
		}
	}
}

// sameState compares two State values for identity. Go forbids comparing
// func values with ==, so reflection is needed to detect "this is the same
// underlying state function" across transitions.
func sameState(a, b State) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
