package vscroll

import (
	"sort"
	"sync"
	"time"
)

// manualScheduler is a Scheduler driven by a virtual clock. Callbacks run
// synchronously from Advance, in deadline order.
type manualScheduler struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	s        *manualScheduler
	deadline time.Time
	seq      int
	fn       func()
	stopped  bool
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, deadline: s.now.Add(d), seq: s.seq, fn: f}
	s.pending = append(s.pending, t)
	return t
}

func (s *manualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the clock forward by d, firing every timer that falls due,
// including timers scheduled by callbacks along the way.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	end := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		sort.SliceStable(s.pending, func(i, j int) bool {
			if s.pending[i].deadline.Equal(s.pending[j].deadline) {
				return s.pending[i].seq < s.pending[j].seq
			}
			return s.pending[i].deadline.Before(s.pending[j].deadline)
		})
		if len(s.pending) == 0 || s.pending[0].deadline.After(end) {
			s.now = end
			s.mu.Unlock()
			return
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		if next.deadline.After(s.now) {
			s.now = next.deadline
		}
		s.mu.Unlock()

		if !next.stopped {
			next.fn()
		}
	}
}

// Pending returns the number of live timers.
func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	for i, p := range t.s.pending {
		if p == t {
			t.s.pending = append(t.s.pending[:i], t.s.pending[i+1:]...)
			return true
		}
	}
	return false
}
