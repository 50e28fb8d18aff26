package migration

import (
	"context"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
)

// AdvancedIndexManager manages PostgreSQL-specific advanced indexes
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

type indexDef struct {
	name string
	sql  string
}

// CreateAdvancedIndexes creates the indexes behind the dashboard page query and challenge purges
func (m *AdvancedIndexManager) CreateAdvancedIndexes(ctx context.Context) error {
	indexes := []indexDef{
		{
			// Serves ListByAccount: WHERE account_id = ? ORDER BY created_at DESC, id DESC
			name: "idx_transactions_account_page",
			sql: `CREATE INDEX IF NOT EXISTS idx_transactions_account_page
				ON transactions (account_id, created_at DESC, id DESC)`,
		},
		{
			name: "idx_verification_lookup",
			sql: `CREATE INDEX IF NOT EXISTS idx_verification_lookup
				ON verification_challenges (account_id, code, created_at)`,
		},
		{
			name: "idx_transactions_created_at_brin",
			sql: `CREATE INDEX IF NOT EXISTS idx_transactions_created_at_brin
				ON transactions USING BRIN (created_at)
				WITH (pages_per_range = 32)`,
		},
	}

	for _, idx := range indexes {
		if err := m.db.WithContext(ctx).Exec(idx.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": idx.name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("Advanced PostgreSQL indexes created successfully", map[string]any{"count": len(indexes)})
	return nil
}

// CreatePerformanceTweaks applies PostgreSQL performance tweaks. Failures are logged, not returned.
func (m *AdvancedIndexManager) CreatePerformanceTweaks(ctx context.Context) error {
	tweaks := []string{
		`ALTER TABLE accounts SET (fillfactor = 80)`,
		`ALTER TABLE transactions ALTER COLUMN account_id SET STATISTICS 1000`,
	}
	for _, stmt := range tweaks {
		if err := m.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			m.logger.Warn("Failed to apply performance tweak", map[string]any{
				"statement": stmt,
				"error":     err.Error(),
			})
		}
	}
	return nil
}
