package quarkts_internal

import "testing"

func TestTriggerString(t *testing.T) {
	if TimeElapsed.String() != "TimeElapsed" {
		t.Fatalf("want %q, got %q", "TimeElapsed", TimeElapsed.String())
	}
	if Trigger(999).String() != "Unknown" {
		t.Fatalf("want Unknown for an out-of-range trigger")
	}
}

func TestCriticalSectionFuncCallsBothHooks(t *testing.T) {
	var disabled, restored bool
	cs := &CriticalSectionFunc{
		DisableFn: func() { disabled = true },
		RestoreFn: func() { restored = true },
	}
	release := cs.Enter()
	if !disabled {
		t.Fatalf("want DisableFn called by Enter")
	}
	if restored {
		t.Fatalf("want RestoreFn not yet called")
	}
	release()
	if !restored {
		t.Fatalf("want RestoreFn called by release")
	}
}

func TestCriticalSectionFuncToleratesNilHooks(t *testing.T) {
	cs := &CriticalSectionFunc{}
	release := cs.Enter()
	release() // must not panic
}
