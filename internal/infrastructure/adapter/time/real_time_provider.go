package time

import (
	"time"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
)

// RealTimeProvider reads the wall clock in UTC
type RealTimeProvider struct{}

// NewRealTimeProvider creates a new real time provider
func NewRealTimeProvider() core.TimeProvider {
	return RealTimeProvider{}
}

// Now returns the current UTC time
func (RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// Since returns the time elapsed since t
func (RealTimeProvider) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// After waits for d on the wall clock
func (RealTimeProvider) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
