package migration

import (
	"context"
	"errors"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/model"
)

const (
	// CurrentSchemaVersion represents the current database schema version
	CurrentSchemaVersion = "1.2.0"
)

// step is a schema change applied when upgrading past its version
type step struct {
	version string
	details string
	apply   func(ctx context.Context) error
}

// MigrationManager manages database migrations
type MigrationManager struct {
	db               *gorm.DB
	logger           coreport.Logger
	timeProvider     coreport.TimeProvider
	advancedIndexMgr *AdvancedIndexManager
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	return &MigrationManager{
		db:               db,
		logger:           logger,
		timeProvider:     timeProvider,
		advancedIndexMgr: NewAdvancedIndexManager(db, logger),
	}
}

func (m *MigrationManager) steps() []step {
	return []step{
		{version: "1.0.0", details: "Ledger tables and balance constraint", apply: m.baseSchema},
		{version: "1.1.0", details: "Dashboard and purge indexes", apply: m.advancedIndexMgr.CreateAdvancedIndexes},
		{version: "1.2.0", details: "Signed ledger amounts", apply: m.signedAmounts},
	}
}

// MigrateAll brings the schema up to CurrentSchemaVersion
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
	})

	if err := m.db.WithContext(ctx).AutoMigrate(&model.MigrationVersion{}); err != nil {
		m.logger.Error("Failed to create migration version table", map[string]any{"error": err.Error()})
		return err
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		m.logger.Error("Failed to check current schema version", map[string]any{"error": err.Error()})
		return err
	}
	if currentVersion == CurrentSchemaVersion {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	// Models are always reconciled so new columns land before versioned steps run.
	if err := m.autoMigrateModels(ctx); err != nil {
		m.logger.Error("Failed to auto-migrate models", map[string]any{"error": err.Error()})
		return err
	}

	for _, s := range m.pending(currentVersion) {
		m.logger.Info("Applying schema step", map[string]any{"version": s.version, "details": s.details})
		if err := s.apply(ctx); err != nil {
			m.logger.Error("Schema step failed", map[string]any{
				"version": s.version,
				"error":   err.Error(),
			})
			return err
		}
		if err := m.setVersion(ctx, s.version, s.details); err != nil {
			return err
		}
	}

	if err := m.advancedIndexMgr.CreatePerformanceTweaks(ctx); err != nil {
		return err
	}

	m.logger.Info("Database migrations completed successfully", map[string]any{
		"version": CurrentSchemaVersion,
	})
	return nil
}

// pending returns the steps newer than currentVersion, in order
func (m *MigrationManager) pending(currentVersion string) []step {
	all := m.steps()
	if currentVersion == "" {
		return all
	}
	for i, s := range all {
		if s.version == currentVersion {
			return all[i+1:]
		}
	}
	return all
}

// GetCurrentVersion gets the current migration version
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (string, error) {
	var version model.MigrationVersion
	result := m.db.WithContext(ctx).Order("applied_at desc").Order("id desc").First(&version)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}
	return version.Version, nil
}

// setVersion records a new migration version
func (m *MigrationManager) setVersion(ctx context.Context, version string, details string) error {
	return m.db.WithContext(ctx).Create(&model.MigrationVersion{
		Version:   version,
		AppliedAt: m.timeProvider.Now(),
		Details:   details,
	}).Error
}

// autoMigrateModels auto-migrates database models
func (m *MigrationManager) autoMigrateModels(ctx context.Context) error {
	return m.db.WithContext(ctx).AutoMigrate(
		&model.Account{},
		&model.VerificationChallenge{},
		&model.Transaction{},
	)
}

// baseSchema adds the constraints AutoMigrate cannot express
func (m *MigrationManager) baseSchema(ctx context.Context) error {
	statements := []string{
		`ALTER TABLE accounts DROP CONSTRAINT IF EXISTS chk_accounts_balance_non_negative`,
		`ALTER TABLE accounts ADD CONSTRAINT chk_accounts_balance_non_negative CHECK (balance >= 0)`,
		`ALTER TABLE transactions DROP CONSTRAINT IF EXISTS chk_transactions_amount_positive`,
		`ALTER TABLE transactions ADD CONSTRAINT chk_transactions_amount_positive CHECK (amount > 0)`,
		`ALTER TABLE transactions DROP CONSTRAINT IF EXISTS chk_transactions_direction`,
		`ALTER TABLE transactions ADD CONSTRAINT chk_transactions_direction CHECK (direction IN ('TRANSFER_OUT', 'TRANSFER_IN'))`,
	}
	for _, stmt := range statements {
		if err := m.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// signedAmounts stores debits as negative amounts so the two rows of a transfer sum to zero
func (m *MigrationManager) signedAmounts(ctx context.Context) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		statements := []string{
			`ALTER TABLE transactions DROP CONSTRAINT IF EXISTS chk_transactions_amount_positive`,
			`UPDATE transactions SET amount = -amount WHERE direction = 'TRANSFER_OUT' AND amount > 0`,
			`ALTER TABLE transactions DROP CONSTRAINT IF EXISTS chk_transactions_amount_sign`,
			`ALTER TABLE transactions ADD CONSTRAINT chk_transactions_amount_sign CHECK ((direction = 'TRANSFER_OUT' AND amount < 0) OR (direction = 'TRANSFER_IN' AND amount > 0))`,
		}
		for _, stmt := range statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
