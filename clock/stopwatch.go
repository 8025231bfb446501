package clock

import (
	"sync"
	"time"
)

// Stopwatch measures pausable elapsed time over a Clock
// Elapsed excludes every paused interval, so a frozen animation resumes where it stopped
type Stopwatch struct {
	mu    sync.RWMutex
	clock Clock

	start       time.Time
	paused      bool
	pauseStart  time.Time     // When current pause started
	totalPaused time.Duration // Cumulative pause duration
}

// NewStopwatch starts a stopwatch at the clock's current time
func NewStopwatch(c Clock) *Stopwatch {
	return &Stopwatch{clock: c, start: c.Now()}
}

// Started returns the clock time at which the stopwatch began
func (s *Stopwatch) Started() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.start
}

// Elapsed returns running time since start, frozen while paused
func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock.Now()
	if s.paused {
		now = s.pauseStart
	}
	return now.Sub(s.start) - s.totalPaused
}

// Pause freezes elapsed time, no-op when already paused
func (s *Stopwatch) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused {
		return
	}
	s.paused = true
	s.pauseStart = s.clock.Now()
}

// Resume continues elapsed time, no-op when running
func (s *Stopwatch) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.paused {
		return
	}
	s.totalPaused += s.clock.Now().Sub(s.pauseStart)
	s.paused = false
	s.pauseStart = time.Time{}
}

// Paused returns current pause state
func (s *Stopwatch) Paused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}

// PausedFor returns cumulative pause time including the current pause
func (s *Stopwatch) PausedFor() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := s.totalPaused
	if s.paused {
		total += s.clock.Now().Sub(s.pauseStart)
	}
	return total
}
