package vscroll

import (
	"testing"
	"time"
)

func TestDebouncerCoalescesTriggers(t *testing.T) {
	s := newManualScheduler()
	d := NewDebouncer(s, 0)
	if d.Duration() != DefaultPersistDelay {
		t.Fatalf("Duration() = %v, want %v", d.Duration(), DefaultPersistDelay)
	}

	var calls []int
	for i := 1; i <= 5; i++ {
		value := i
		d.Trigger(func() { calls = append(calls, value) })
		s.Advance(50 * time.Millisecond)
	}
	if len(calls) != 0 {
		t.Fatalf("callback ran before the quiet period: %v", calls)
	}
	if !d.Pending() {
		t.Fatal("expected a pending callback")
	}

	s.Advance(100 * time.Millisecond)
	if len(calls) != 1 || calls[0] != 5 {
		t.Fatalf("expected only the last callback, got %v", calls)
	}
	if d.Pending() {
		t.Fatal("nothing should be pending after firing")
	}
}

func TestDebouncerCancel(t *testing.T) {
	s := newManualScheduler()
	d := NewDebouncer(s, 20*time.Millisecond)
	fired := false
	d.Trigger(func() { fired = true })
	d.Cancel()
	s.Advance(time.Second)
	if fired {
		t.Fatal("cancelled callback ran")
	}
	d.Cancel()
}

func TestDebouncerWithSystemScheduler(t *testing.T) {
	d := NewDebouncer(nil, 5*time.Millisecond)
	done := make(chan struct{})
	d.Trigger(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never ran")
	}
}
