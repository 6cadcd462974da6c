package quarkts_internal

import "testing"

func TestTaskSetEnabledResetsClockStartOnRisingEdge(t *testing.T) {
	task := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 1, 10, Periodic, false, true, nil)
	task.SetEnabled(100, true)
	if task.tryFireOnDeadline(105) {
		t.Fatalf("want deadline not reached at 105: the disabled->enabled transition reset clockStart to 100")
	}
	if !task.tryFireOnDeadline(110) {
		t.Fatalf("want deadline reached one interval after the reset clockStart")
	}
}

func TestTaskSetEnabledIsNoOpWhenAlreadyEnabled(t *testing.T) {
	task := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 1, 10, Periodic, true, true, nil)
	task.ClearElapsed(50)
	task.SetEnabled(999, true) // must NOT reset clockStart, since enabled was already true
	if task.tryFireOnDeadline(55) {
		t.Fatalf("want SetEnabled(true) on an already-enabled task to be a no-op")
	}
}

func TestTaskPeriodicNeverAutoDisables(t *testing.T) {
	task := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 1, 5, Periodic, true, true, nil)
	for i := 0; i < 5; i++ {
		now := Epoch((i + 1) * 5)
		if !task.tryFireOnDeadline(now) {
			t.Fatalf("iteration %d: want periodic task to keep firing", i)
		}
	}
	if !task.Enabled() {
		t.Fatalf("want periodic task to remain enabled forever")
	}
}

func TestTaskFiniteIterationsDisableAtZero(t *testing.T) {
	task := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 1, 5, 2, true, true, nil)
	if !task.tryFireOnDeadline(5) {
		t.Fatalf("want first firing")
	}
	if !task.Enabled() {
		t.Fatalf("want still enabled after first of two iterations")
	}
	if !task.tryFireOnDeadline(10) {
		t.Fatalf("want second firing")
	}
	if task.Enabled() {
		t.Fatalf("want disabled once iterations reach 0")
	}
}

func TestTaskEventOnlyTasksAreNotTimeDriven(t *testing.T) {
	task := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 1, Immediate, Singleshot, true, false, nil)
	if task.tryFireOnDeadline(1000) {
		t.Fatalf("want an event-only task to never fire on time-elapsed")
	}
}

func TestTaskSendAsyncLastWriterWins(t *testing.T) {
	task := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 1, Immediate, Periodic, true, true, nil)
	task.SendAsync(1)
	task.SendAsync(2)
	data, ok := task.takeAsync()
	if !ok || data != 2 {
		t.Fatalf("want last SendAsync value to win, got %v ok=%v", data, ok)
	}
	if _, ok := task.takeAsync(); ok {
		t.Fatalf("want takeAsync to report nothing pending after being consumed")
	}
}

func TestTaskFirstCallOnlyFlipsOnActualFiring(t *testing.T) {
	task := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 1, Immediate, Periodic, true, true, nil)
	if !task.firstCall() {
		t.Fatalf("want first call to report true")
	}
	if !task.firstCall() {
		t.Fatalf("want firstCall to keep reporting true until an actual firing, want it unaffected by merely reading it")
	}
	task.fire(&EventInfo{})
	if task.firstCall() {
		t.Fatalf("want firstCall to report false once the task has actually fired")
	}
}

func TestTaskRingBufferCountTriggerAtOrBelowThreshold(t *testing.T) {
	rb, _ := NewRingBuffer[int](4)
	rb.Push(1)
	rb.Push(2)

	task := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 1, Immediate, Periodic, true, true, nil)
	task.linkRingBuffer(rb, RBLinkCount, 2)

	trig, _ := task.checkRingBufferEvent()
	if trig != RBCount {
		t.Fatalf("want RBCount to fire when threshold(2) >= buffer count(2), got %s", trig)
	}

	rb.Push(3)
	trig, _ = task.checkRingBufferEvent()
	if trig != NoTrigger {
		t.Fatalf("want RBCount to stop firing once buffer count(3) exceeds threshold(2), got %s", trig)
	}
}

func TestTaskRingBufferFullDeliversBufferAsEventData(t *testing.T) {
	rb, _ := NewRingBuffer[int](2)
	rb.Push(1)
	rb.Push(2)

	task := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 1, Immediate, Periodic, true, true, nil)
	task.linkRingBuffer(rb, RBLinkFull, 1)

	trig, data := task.checkRingBufferEvent()
	if trig != RBFull {
		t.Fatalf("want RBFull, got %s", trig)
	}
	if data != rb {
		t.Fatalf("want the ring buffer itself delivered as event data for RBFull")
	}
}

func TestTaskUnlinkRingBuffer(t *testing.T) {
	rb, _ := NewRingBuffer[int](2)
	rb.Push(1)
	task := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 1, Immediate, Periodic, true, true, nil)
	task.linkRingBuffer(rb, RBLinkFull, 1)
	task.linkRingBuffer(nil, RBLinkNone, 0)

	trig, _ := task.checkRingBufferEvent()
	if trig != NoTrigger {
		t.Fatalf("want NoTrigger after unlinking, got %s", trig)
	}
}

func TestTaskFireDispatchesFSM(t *testing.T) {
	var ran bool
	state := func(fsm *FSM) StateStatus {
		ran = true
		return StatusSuccess
	}
	fsm := NewFSM(state)
	task := newTask(0, FSMCallback, nil, fsm, 1, Immediate, Periodic, true, true, nil)
	task.fire(&EventInfo{Trigger: TimeElapsed})
	if !ran {
		t.Fatalf("want fire() to run the bound FSM's next state")
	}
	if task.Cycles() != 1 {
		t.Fatalf("want Cycles incremented by fire(), got %d", task.Cycles())
	}
}
