package database

import (
	"database/sql"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
)

// poolMonitor samples the connection pool and warns when transfers start
// queueing for connections
type poolMonitor struct {
	stats  func() sql.DBStats
	logger coreport.Logger

	mu   sync.RWMutex
	last sql.DBStats

	stop     chan struct{}
	stopOnce sync.Once
}

func newPoolMonitor(stats func() sql.DBStats, logger coreport.Logger) *poolMonitor {
	return &poolMonitor{stats: stats, logger: logger, stop: make(chan struct{})}
}

// start takes a first sample and then one per interval until close
func (m *poolMonitor) start(interval time.Duration) {
	m.sample()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.sample()
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *poolMonitor) close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *poolMonitor) snapshot() sql.DBStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

func (m *poolMonitor) sample() {
	stats := m.stats()

	m.mu.Lock()
	m.last = stats
	m.mu.Unlock()

	if saturated(stats) {
		m.logger.Warn("Database connection pool nearly exhausted", poolFields(stats))
	}
}

// saturated reports more than 80% of the allowed connections in use
func saturated(s sql.DBStats) bool {
	return s.MaxOpenConnections > 0 && s.InUse*5 > s.MaxOpenConnections*4
}

func poolFields(s sql.DBStats) map[string]any {
	return map[string]any{
		"open":       s.OpenConnections,
		"in_use":     s.InUse,
		"idle":       s.Idle,
		"max_open":   s.MaxOpenConnections,
		"wait_count": s.WaitCount,
		"wait_time":  s.WaitDuration.String(),
	}
}
