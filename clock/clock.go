// Package clock abstracts reading the current time and scheduling a callback after a delay.
//
// Production code uses [Real], and tests use a [Mock] that only moves when it's told to, which makes timing sensitive behavior like debouncing deterministic.
package clock

import "time"

// Timer is a pending callback scheduled with [Clock.AfterFunc].
type Timer interface {
	// Stop prevents the callback from firing.
	// It returns false if the callback already fired or the Timer was already stopped.
	Stop() bool
}

// Clock tells the time and schedules callbacks.
type Clock interface {
	Now() time.Time
	// AfterFunc calls fn in its own goroutine (or the advancing goroutine for a [Mock]) once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

// Real returns a [Clock] backed by the time package.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
