package database

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	timeprovider "github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/time"
)

// TestDBManager provides utilities for integration tests against a real PostgreSQL
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestDBManager creates a test database manager. The test is skipped unless
// TEST_DB_HOST is set.
func NewTestDBManager(t *testing.T, logger coreport.Logger) *TestDBManager {
	t.Helper()

	host, ok := os.LookupEnv("TEST_DB_HOST")
	if !ok || host == "" {
		t.Skip("TEST_DB_HOST not set, skipping PostgreSQL integration test")
	}

	config := DefaultConfig()
	config.Driver = DriverPostgres
	config.Host = host
	config.Port = getEnvIntOrDefault("TEST_DB_PORT", 5432)
	config.Username = getEnvOrDefault("TEST_DB_USERNAME", "postgres")
	config.Password = getEnvOrDefault("TEST_DB_PASSWORD", "postgres")
	config.Database = getEnvOrDefault("TEST_DB_DATABASE", "bank_ledger_test")
	config.MaxOpenConns = 10
	config.MaxIdleConns = 5
	config.QueryTimeout = 5 * time.Second
	config.LogLevel = "silent"
	config.RetryAttempts = 1

	timeProvider := timeprovider.NewRealTimeProvider()
	return &TestDBManager{
		Manager:      NewManager(config, logger, timeProvider),
		Config:       config,
		Logger:       logger,
		TimeProvider: timeProvider,
	}
}

// Connect connects to the test database and migrates a clean schema
func (m *TestDBManager) Connect(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	if _, err := m.Manager.Connect(ctx); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := dropAllTables(m.Manager); err != nil {
		t.Fatalf("Failed to drop tables: %v", err)
	}
	if err := m.Manager.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { m.Close(t) })
}

// Close closes the test database connection
func (m *TestDBManager) Close(t *testing.T) {
	t.Helper()

	if err := m.Manager.Close(); err != nil {
		t.Logf("Warning: Failed to close test database connection: %v", err)
	}
}

// TruncateAllTables empties every ledger table
func (m *TestDBManager) TruncateAllTables(t *testing.T) {
	t.Helper()

	err := m.Manager.DB().Exec("TRUNCATE TABLE transactions, verification_challenges, accounts CASCADE").Error
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

func dropAllTables(m *Manager) error {
	return m.DB().Exec(`
		DO $$ DECLARE
			r RECORD;
		BEGIN
			FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = current_schema()) LOOP
				EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
			END LOOP;
		END $$;
	`).Error
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}
