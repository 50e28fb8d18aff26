package time

import (
	"sync"
	"time"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
)

var _ core.TimeProvider = (*ManualTimeProvider)(nil)

// ManualTimeProvider is a clock that only moves when told to. After advances
// the clock instead of blocking.
type ManualTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualTimeProvider creates a clock frozen at start
func NewManualTimeProvider(start time.Time) *ManualTimeProvider {
	return &ManualTimeProvider{now: start}
}

// Now returns the current manual time
func (p *ManualTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

// Advance moves the clock forward by d
func (p *ManualTimeProvider) Advance(d time.Duration) {
	p.mu.Lock()
	p.now = p.now.Add(d)
	p.mu.Unlock()
}

// Set moves the clock to t
func (p *ManualTimeProvider) Set(t time.Time) {
	p.mu.Lock()
	p.now = t
	p.mu.Unlock()
}

// Since returns the manual time elapsed since t
func (p *ManualTimeProvider) Since(t time.Time) time.Duration {
	return p.Now().Sub(t)
}

// After advances the clock by d and returns a channel that already holds the new time
func (p *ManualTimeProvider) After(d time.Duration) <-chan time.Time {
	p.Advance(d)
	ch := make(chan time.Time, 1)
	ch <- p.Now()
	return ch
}
