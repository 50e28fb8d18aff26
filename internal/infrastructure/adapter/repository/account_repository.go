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

// AccountRepository implements AccountRepository interface using GORM
type AccountRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	retry           RetryConfig
	errorClassifier *ErrorClassifier
}

var _ persistence.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB, logger coreport.Logger, retry RetryConfig) *AccountRepository {
	return &AccountRepository{
		db:              db,
		logger:          logger,
		retry:           retry,
		errorClassifier: NewErrorClassifier(),
	}
}

func accountToEntity(m *model.Account) *entity.Account {
	return entity.RestoreAccount(
		m.ID,
		m.Email,
		m.PasswordHash,
		m.PhoneNumber,
		entity.AccountStatus(m.Status),
		m.Balance,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func accountToModel(a *entity.Account) model.Account {
	return model.Account{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		PhoneNumber:  a.PhoneNumber,
		Status:       string(a.Status),
		Balance:      a.Balance(),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// handleDatabaseError standardizes database error handling
func (r *AccountRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	mapped := r.errorClassifier.MapError(operation, err, errs.ErrAccountNotFound, errs.ErrAccountExists)
	if errs.IsStorageError(mapped) {
		fields["error"] = err.Error()
		r.logger.Error("Database error when "+operation, fields)
	}
	return mapped
}

func (r *AccountRepository) read(ctx context.Context, operation func() error) error {
	return RetryOnTransientError(ctx, r.retry, operation, r.errorClassifier, r.logger)
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var m model.Account
	err := r.read(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	})
	if err != nil {
		return nil, r.handleDatabaseError("getting account", err, map[string]any{"account_id": id.String()})
	}
	return accountToEntity(&m), nil
}

// GetByEmail retrieves an account by its normalized email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var m model.Account
	err := r.read(ctx, func() error {
		return r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error
	})
	if err != nil {
		return nil, r.handleDatabaseError("getting account by email", err, map[string]any{"email": email})
	}
	return accountToEntity(&m), nil
}

// LockByIDs re-reads the accounts with SELECT ... FOR UPDATE, in ascending ID order
func (r *AccountRepository) LockByIDs(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*entity.Account, error) {
	result := make(map[uuid.UUID]*entity.Account, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []model.Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, r.handleDatabaseError("locking accounts", err, map[string]any{"account_count": len(ids)})
	}

	for i := range rows {
		result[rows[i].ID] = accountToEntity(&rows[i])
	}
	return result, nil
}

// Create stores a new account
func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	m := accountToModel(account)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.handleDatabaseError("creating account", err, map[string]any{"account_id": account.ID.String()})
	}

	r.logger.Debug("Account created", map[string]any{
		"account_id": account.ID.String(),
		"status":     string(account.Status),
	})
	return nil
}

// Update persists the status and balance of an existing account
func (r *AccountRepository) Update(ctx context.Context, account *entity.Account) error {
	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"status":     string(account.Status),
			"balance":    account.Balance(),
			"updated_at": account.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating account", result.Error, map[string]any{"account_id": account.ID.String()})
	}
	if result.RowsAffected == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}

// GetEmails resolves account IDs to emails
func (r *AccountRepository) GetEmails(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	emails := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return emails, nil
	}

	var rows []model.Account
	err := r.read(ctx, func() error {
		return r.db.WithContext(ctx).Select("id", "email").Where("id IN ?", ids).Find(&rows).Error
	})
	if err != nil {
		return nil, r.handleDatabaseError("resolving account emails", err, map[string]any{"account_count": len(ids)})
	}

	for _, row := range rows {
		emails[row.ID] = row.Email
	}
	return emails, nil
}

// List returns every account ordered by creation time
func (r *AccountRepository) List(ctx context.Context) ([]*entity.Account, error) {
	var rows []model.Account
	err := r.read(ctx, func() error {
		return r.db.WithContext(ctx).Order("created_at").Order("id").Find(&rows).Error
	})
	if err != nil {
		return nil, r.handleDatabaseError("listing accounts", err, map[string]any{})
	}

	accounts := make([]*entity.Account, len(rows))
	for i := range rows {
		accounts[i] = accountToEntity(&rows[i])
	}
	return accounts, nil
}

// Delete removes one account
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Account{}).Error; err != nil {
		return r.handleDatabaseError("deleting account", err, map[string]any{"account_id": id.String()})
	}
	return nil
}

// DeleteAll removes every account
func (r *AccountRepository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Account{}).Error
	if err != nil {
		return r.handleDatabaseError("deleting accounts", err, map[string]any{})
	}
	return nil
}
