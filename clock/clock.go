// Package clock abstracts time so the stack engine can run on the wall clock or a deterministic fake
package clock

import "time"

// Clock provides the current time and scheduled callbacks
type Clock interface {
	Now() time.Time
	// AfterFunc runs fn once after d; the returned Timer cancels it
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a cancellation token for a scheduled callback
type Timer interface {
	// Stop prevents the callback from running, false if it already ran or was stopped
	Stop() bool
}

// Real is the wall clock with monotonic readings
// Callbacks run on their own goroutines
type Real struct{}

// NewReal creates a wall clock
func NewReal() Real {
	return Real{}
}

// Now returns the current time with monotonic clock reading
func (Real) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules fn on the runtime timer
func (Real) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
