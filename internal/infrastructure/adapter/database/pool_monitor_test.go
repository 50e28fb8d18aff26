package database

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	mcore "github.com/amirhossein-jamali/bank-ledger/mocks/port/core"
)

func TestPoolMonitor_WarnsWhenSaturated(t *testing.T) {
	log := mcore.NewMockLogger(t)
	log.On("Warn", "Database connection pool nearly exhausted", mock.MatchedBy(func(f map[string]any) bool {
		return f["in_use"] == 9 && f["max_open"] == 10
	})).Once()

	stats := sql.DBStats{MaxOpenConnections: 10, InUse: 9, OpenConnections: 10, Idle: 1}
	m := newPoolMonitor(func() sql.DBStats { return stats }, log)
	m.sample()

	assert.Equal(t, stats, m.snapshot())
}

func TestPoolMonitor_QuietBelowThreshold(t *testing.T) {
	log := mcore.NewMockLogger(t)

	m := newPoolMonitor(func() sql.DBStats { return sql.DBStats{MaxOpenConnections: 10, InUse: 8} }, log)
	m.sample()
	m.close()
	m.close()

	assert.Equal(t, 8, m.snapshot().InUse)
}

func TestSaturated(t *testing.T) {
	assert.False(t, saturated(sql.DBStats{}))
	assert.False(t, saturated(sql.DBStats{MaxOpenConnections: 5, InUse: 4}))
	assert.True(t, saturated(sql.DBStats{MaxOpenConnections: 5, InUse: 5}))
}

func TestManager_PoolStatsBeforeConnect(t *testing.T) {
	m := NewManager(DefaultConfig(), nil, nil)
	assert.Nil(t, m.PoolStats())
}
