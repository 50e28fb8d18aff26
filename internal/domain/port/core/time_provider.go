package core

import "time"

// TimeProvider is the clock behind token expiry, challenge age and ledger
// timestamps. Production uses the wall clock; tests move a manual one.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	// After behaves like time.After on this clock
	After(d time.Duration) <-chan time.Time
}
