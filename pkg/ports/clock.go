package ports

import "time"

// Clock schedules callbacks. Production code uses the wall clock; tests
// substitute a manually advanced one.
type Clock interface {
	// AfterFunc calls f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback created by Clock.AfterFunc.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or was already stopped.
	Stop() bool
}
