package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/model"
)

// TransactionRepository implements TransactionRepository interface using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	retry           RetryConfig
	errorClassifier *ErrorClassifier
}

var _ persistence.TransactionRepository = (*TransactionRepository)(nil)

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger, retry RetryConfig) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		retry:           retry,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a ledger entry to a database model
func (r *TransactionRepository) entityToModel(t *entity.Transaction) model.Transaction {
	return model.Transaction{
		ID:             t.ID,
		TransferID:     t.TransferID,
		AccountID:      t.AccountID,
		Direction:      string(t.Direction),
		Amount:         t.Amount,
		Description:    t.Description,
		CounterpartyID: t.CounterpartyID,
		CreatedAt:      t.CreatedAt,
	}
}

// modelToEntity converts a database model to a ledger entry
func (r *TransactionRepository) modelToEntity(m *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:             m.ID,
		TransferID:     m.TransferID,
		AccountID:      m.AccountID,
		Direction:      entity.Direction(m.Direction),
		Amount:         m.Amount,
		Description:    m.Description,
		CounterpartyID: m.CounterpartyID,
		CreatedAt:      m.CreatedAt,
	}
}

func (r *TransactionRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	mapped := r.errorClassifier.MapError(operation, err, nil, errs.ErrConstraintViolation)
	if errs.IsStorageError(mapped) {
		fields["error"] = err.Error()
		r.logger.Error("Database error when "+operation, fields)
	}
	return mapped
}

func (r *TransactionRepository) read(ctx context.Context, operation func() error) error {
	return RetryOnTransientError(ctx, r.retry, operation, r.errorClassifier, r.logger)
}

// Create appends a ledger entry
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	m := r.entityToModel(transaction)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return r.handleDatabaseError("creating transaction", err, map[string]any{
			"transaction_id": transaction.ID.String(),
			"account_id":     transaction.AccountID.String(),
		})
	}

	r.logger.Debug("Transaction created", map[string]any{
		"transaction_id": transaction.ID.String(),
		"transfer_id":    transaction.TransferID.String(),
		"direction":      string(transaction.Direction),
	})
	return nil
}

// ListByAccount returns one page of an account's entries, newest first
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*entity.Transaction, error) {
	var rows []model.Transaction
	err := r.read(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("account_id = ?", accountID).
			Order("created_at DESC").
			Order("id DESC").
			Offset(offset).
			Limit(limit).
			Find(&rows).Error
	})
	if err != nil {
		return nil, r.handleDatabaseError("listing transactions", err, map[string]any{"account_id": accountID.String()})
	}

	transactions := make([]*entity.Transaction, len(rows))
	for i := range rows {
		transactions[i] = r.modelToEntity(&rows[i])
	}
	return transactions, nil
}

// CountByAccount returns the number of entries owned by an account
func (r *TransactionRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.read(ctx, func() error {
		return r.db.WithContext(ctx).Model(&model.Transaction{}).Where("account_id = ?", accountID).Count(&count).Error
	})
	if err != nil {
		return 0, r.handleDatabaseError("counting transactions", err, map[string]any{"account_id": accountID.String()})
	}
	return count, nil
}

// List returns every ledger entry, oldest first
func (r *TransactionRepository) List(ctx context.Context) ([]*entity.Transaction, error) {
	var rows []model.Transaction
	err := r.read(ctx, func() error {
		return r.db.WithContext(ctx).Order("created_at").Order("id").Find(&rows).Error
	})
	if err != nil {
		return nil, r.handleDatabaseError("listing ledger", err, map[string]any{})
	}

	transactions := make([]*entity.Transaction, len(rows))
	for i := range rows {
		transactions[i] = r.modelToEntity(&rows[i])
	}
	return transactions, nil
}

// DeleteAll removes every ledger entry
func (r *TransactionRepository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Transaction{}).Error
	if err != nil {
		return r.handleDatabaseError("deleting transactions", err, map[string]any{})
	}
	return nil
}
