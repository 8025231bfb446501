package clock

import (
	"sort"
	"sync"
	"time"
)

// Mock provides a controllable time source for tests and headless simulation
// Callbacks fire synchronously inside Advance and Set, never on their own
type Mock struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*mockTimer
}

type mockTimer struct {
	m        *Mock
	deadline time.Time
	seq      uint64
	fn       func()
	done     bool
}

// NewMock creates a mock clock with the given start time
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

// Now returns the current mocked time
func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc registers fn to fire once the mocked time reaches now+d
func (m *Mock) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d < 0 {
		d = 0
	}
	m.seq++
	t := &mockTimer{m: m, deadline: m.now.Add(d), seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Stop cancels the timer
func (t *mockTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	t.m.remove(t)
	return true
}

// Advance moves time forward by d, firing due callbacks in deadline order
// Callbacks scheduled by callbacks fire too if they fall inside the window
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()
	m.Set(target)
}

// Set moves time to t, firing due callbacks; moving backwards only changes Now
func (m *Mock) Set(t time.Time) {
	for {
		m.mu.Lock()
		next := m.nextDue(t)
		if next == nil {
			m.now = t
			m.mu.Unlock()
			return
		}
		next.done = true
		m.remove(next)
		if next.deadline.After(m.now) {
			m.now = next.deadline
		}
		fn := next.fn
		m.mu.Unlock()

		// Fire outside the lock so callbacks can schedule or stop timers
		fn()
	}
}

// Pending returns the number of scheduled, unfired callbacks
func (m *Mock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// NextDeadline returns the earliest pending deadline
func (m *Mock) NextDeadline() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.pending) == 0 {
		return time.Time{}, false
	}
	m.sortPending()
	return m.pending[0].deadline, true
}

// nextDue returns the earliest timer with deadline <= t, FIFO on ties
func (m *Mock) nextDue(t time.Time) *mockTimer {
	if len(m.pending) == 0 {
		return nil
	}
	m.sortPending()
	if first := m.pending[0]; !first.deadline.After(t) {
		return first
	}
	return nil
}

func (m *Mock) sortPending() {
	sort.SliceStable(m.pending, func(i, j int) bool {
		a, b := m.pending[i], m.pending[j]
		if a.deadline.Equal(b.deadline) {
			return a.seq < b.seq
		}
		return a.deadline.Before(b.deadline)
	})
}

func (m *Mock) remove(t *mockTimer) {
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}
