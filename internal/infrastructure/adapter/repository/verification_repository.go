package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/model"
)

// VerificationRepository implements VerificationRepository interface using GORM
type VerificationRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	retry           RetryConfig
	errorClassifier *ErrorClassifier
}

var _ persistence.VerificationRepository = (*VerificationRepository)(nil)

// NewVerificationRepository creates a new VerificationRepository instance
func NewVerificationRepository(db *gorm.DB, logger coreport.Logger, retry RetryConfig) *VerificationRepository {
	return &VerificationRepository{
		db:              db,
		logger:          logger,
		retry:           retry,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *VerificationRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	mapped := r.errorClassifier.MapError(operation, err, errs.ErrVerificationNotFound, errs.ErrConstraintViolation)
	if errs.IsStorageError(mapped) {
		fields["error"] = err.Error()
		r.logger.Error("Database error when "+operation, fields)
	}
	return mapped
}

// Create stores a new challenge
func (r *VerificationRepository) Create(ctx context.Context, challenge *entity.VerificationChallenge) error {
	m := model.VerificationChallenge{
		ID:        challenge.ID,
		AccountID: challenge.AccountID,
		Code:      challenge.Code,
		CreatedAt: challenge.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return r.handleDatabaseError("creating verification challenge", err, map[string]any{"account_id": challenge.AccountID.String()})
	}
	return nil
}

// FindValid returns the newest live challenge for the account and code
func (r *VerificationRepository) FindValid(ctx context.Context, accountID uuid.UUID, code string, notBefore time.Time) (*entity.VerificationChallenge, error) {
	var m model.VerificationChallenge
	err := RetryOnTransientError(ctx, r.retry, func() error {
		return r.db.WithContext(ctx).
			Where("account_id = ? AND code = ? AND created_at >= ?", accountID, code, notBefore).
			Order("created_at DESC").
			First(&m).Error
	}, r.errorClassifier, r.logger)
	if err != nil {
		return nil, r.handleDatabaseError("finding verification challenge", err, map[string]any{"account_id": accountID.String()})
	}

	return &entity.VerificationChallenge{
		ID:        m.ID,
		AccountID: m.AccountID,
		Code:      m.Code,
		CreatedAt: m.CreatedAt,
	}, nil
}

// DeleteByAccount removes every challenge of an account
func (r *VerificationRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&model.VerificationChallenge{}).Error
	if err != nil {
		return r.handleDatabaseError("deleting verification challenges", err, map[string]any{"account_id": accountID.String()})
	}
	return nil
}

// PurgeExpired removes challenges created before the given instant
func (r *VerificationRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", before).Delete(&model.VerificationChallenge{})
	if result.Error != nil {
		return 0, r.handleDatabaseError("purging verification challenges", result.Error, map[string]any{"before": before})
	}
	return result.RowsAffected, nil
}

// DeleteAll removes every challenge
func (r *VerificationRepository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.VerificationChallenge{}).Error
	if err != nil {
		return r.handleDatabaseError("deleting verification challenges", err, map[string]any{})
	}
	return nil
}
