package quarkts_internal

import "testing"

func TestFSMRunsInitialStateOnFirstCall(t *testing.T) {
	var ran bool
	init := func(fsm *FSM) StateStatus {
		ran = true
		return StatusSuccess
	}
	fsm := NewFSM(init)
	fsm.Run(nil)
	if !ran {
		t.Fatalf("want initial state to run")
	}
	if !fsm.JustChanged {
		t.Fatalf("want JustChanged true entering the very first state")
	}
}

func TestFSMTransitionsAndSubHandlers(t *testing.T) {
	var successCount, failureCount int
	var stateB State

	stateA := func(fsm *FSM) StateStatus {
		fsm.NextState = stateB
		return StatusSuccess
	}
	stateB = func(fsm *FSM) StateStatus {
		return StatusFailure
	}

	fsm := NewFSM(stateA).
		OnSuccess(func(fsm *FSM) { successCount++ }).
		OnFailure(func(fsm *FSM) { failureCount++ })

	fsm.Run(nil)
	if successCount != 1 || failureCount != 0 {
		t.Fatalf("want 1 success 0 failure after stateA, got %d/%d", successCount, failureCount)
	}

	fsm.Run(nil)
	if successCount != 1 || failureCount != 1 {
		t.Fatalf("want 1 success 1 failure after stateB, got %d/%d", successCount, failureCount)
	}
}

func TestFSMJustChangedOnlyOnTransitionBoundary(t *testing.T) {
	var flags []bool
	var self State
	self = func(fsm *FSM) StateStatus {
		flags = append(flags, fsm.JustChanged)
		fsm.NextState = self
		return StatusSuccess
	}
	fsm := NewFSM(self)
	fsm.Run(nil)
	fsm.Run(nil)
	fsm.Run(nil)

	if !flags[0] {
		t.Fatalf("want JustChanged true on first entry")
	}
	if flags[1] || flags[2] {
		t.Fatalf("want JustChanged false on repeated self-transitions, got %v", flags)
	}
}

func TestFSMBeforeAnyRunsEveryTransition(t *testing.T) {
	var beforeCount int
	state := func(fsm *FSM) StateStatus { return StatusSuccess }
	fsm := NewFSM(state).BeforeAny(func(fsm *FSM) { beforeCount++ })
	fsm.Run(nil)
	fsm.Run(nil)
	if beforeCount != 2 {
		t.Fatalf("want BeforeAny called on every Run, got %d", beforeCount)
	}
}

func TestFSMNilNextStateIsFailure(t *testing.T) {
	var failureCount int
	fsm := &FSM{}
	fsm.OnFailure(func(fsm *FSM) { failureCount++ })
	fsm.Run(nil)
	if failureCount != 1 {
		t.Fatalf("want OnFailure invoked when NextState is nil")
	}
}

func TestFSMUnexpectedStatusRoutesToOnUnexpected(t *testing.T) {
	var unexpectedCount int
	state := func(fsm *FSM) StateStatus { return 7 }
	fsm := NewFSM(state).OnUnexpected(func(fsm *FSM) { unexpectedCount++ })
	fsm.Run(nil)
	if unexpectedCount != 1 {
		t.Fatalf("want OnUnexpected invoked for a status outside Success/Failure")
	}
}

func TestFSMDataIsThreadedThroughRun(t *testing.T) {
	var seen any
	state := func(fsm *FSM) StateStatus {
		seen = fsm.Data
		return StatusSuccess
	}
	fsm := NewFSM(state)
	fsm.Run(&EventInfo{Trigger: Async})
	ev, ok := seen.(*EventInfo)
	if !ok || ev.Trigger != Async {
		t.Fatalf("want fsm.Data to be the EventInfo passed to Run, got %#v", seen)
	}
}
