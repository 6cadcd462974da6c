package quarkts_internal

import "testing"

func TestEventQueueEnqueueExtractFIFO(t *testing.T) {
	q := NewEventQueue(4)
	task := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 5, Immediate, Periodic, true, true, nil)

	if err := q.Enqueue(task, "a"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := q.Enqueue(task, "b"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	_, payload, ok := q.Extract()
	if !ok || payload != "a" {
		t.Fatalf("want first Extract()==a, got %v ok=%v", payload, ok)
	}
	_, payload, ok = q.Extract()
	if !ok || payload != "b" {
		t.Fatalf("want second Extract()==b, got %v ok=%v", payload, ok)
	}
	if _, _, ok := q.Extract(); ok {
		t.Fatalf("want Extract() to report empty once drained")
	}
}

func TestEventQueueExtractsHighestPriorityFirst(t *testing.T) {
	q := NewEventQueue(4)
	low := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 1, Immediate, Periodic, true, true, nil)
	high := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 9, Immediate, Periodic, true, true, nil)

	q.Enqueue(low, "low")
	q.Enqueue(high, "high")

	task, payload, ok := q.Extract()
	if !ok || task != high || payload != "high" {
		t.Fatalf("want highest-priority entry extracted first, got %v", payload)
	}
	_, payload, ok = q.Extract()
	if !ok || payload != "low" {
		t.Fatalf("want low extracted second, got %v", payload)
	}
}

func TestEventQueueTiesBreakFIFO(t *testing.T) {
	q := NewEventQueue(4)
	task := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 5, Immediate, Periodic, true, true, nil)
	q.Enqueue(task, 1)
	q.Enqueue(task, 2)
	q.Enqueue(task, 3)

	for _, want := range []int{1, 2, 3} {
		_, payload, ok := q.Extract()
		if !ok || payload != want {
			t.Fatalf("want %d, got %v", want, payload)
		}
	}
}

func TestEventQueueRejectsOverCapacity(t *testing.T) {
	q := NewEventQueue(1)
	task := newTask(0, UserCallback, func(ev *EventInfo) {}, nil, 5, Immediate, Periodic, true, true, nil)
	if err := q.Enqueue(task, 1); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := q.Enqueue(task, 2); err != ErrQueueFull {
		t.Fatalf("want ErrQueueFull, got %v", err)
	}
}

func TestEventQueueRejectsNilTask(t *testing.T) {
	q := NewEventQueue(1)
	if err := q.Enqueue(nil, 1); err != ErrBadTask {
		t.Fatalf("want ErrBadTask, got %v", err)
	}
}
