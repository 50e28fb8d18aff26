package database

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/repository"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// Context keys
const txKey contextKey = "tx"

// isolationStmt sets the level of every unit of work. Writers lock the rows they
// change with FOR UPDATE first, so a competing writer waits for the lock and then
// reads the committed state instead of failing with a serialization error.
const isolationStmt = "SET TRANSACTION ISOLATION LEVEL READ COMMITTED"

// DefaultMaxAttempts bounds how often RunAtomic runs fn when it hits a deadlock
// or serialization failure before COMMIT
const DefaultMaxAttempts = 3

var errNoTransaction = errors.New("no transaction found in context")

// UnitOfWork implements the unit of work pattern for database transactions
type UnitOfWork struct {
	db          *gorm.DB
	logger      coreport.Logger
	errorMapper *ErrorMapper
	maxAttempts int
}

var _ persistence.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger) *UnitOfWork {
	return &UnitOfWork{
		db:          db,
		logger:      logger,
		errorMapper: NewErrorMapper(),
		maxAttempts: DefaultMaxAttempts,
	}
}

// Begin starts a new READ COMMITTED database transaction
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, u.errorMapper.MapError(tx.Error, "begin transaction")
	}

	if err := tx.Exec(isolationStmt).Error; err != nil {
		tx.Rollback()
		u.logger.Error("Failed to set transaction isolation level", map[string]any{"error": err.Error()})
		return ctx, u.errorMapper.MapError(err, "set isolation level")
	}

	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the current transaction
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return errNoTransaction
	}

	if err := tx.Commit().Error; err != nil {
		u.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		return u.errorMapper.MapError(err, "commit transaction")
	}
	return nil
}

// Rollback rolls back the current transaction
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return errNoTransaction
	}

	err := tx.Rollback().Error
	if err != nil && strings.Contains(err.Error(), "already been committed or rolled back") {
		u.logger.Warn("Transaction has already been committed or rolled back", map[string]any{
			"error": err.Error(),
		})
		return nil
	}
	if err != nil {
		u.logger.Error("Failed to rollback transaction", map[string]any{"error": err.Error()})
		return u.errorMapper.MapError(err, "rollback transaction")
	}
	return nil
}

// RunAtomic runs fn inside a transaction and commits only if fn returns nil.
// When fn fails with ErrConcurrentUpdate nothing has been committed, so the whole
// unit of work is rolled back and run again, up to maxAttempts times.
// A failed commit is reported, never retried.
func (u *UnitOfWork) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= u.maxAttempts; attempt++ {
		var committing bool
		committing, err = u.runOnce(ctx, fn)
		if err == nil || committing || !errors.Is(err, errs.ErrConcurrentUpdate) || ctx.Err() != nil {
			return err
		}
		u.logger.Warn("Unit of work hit a concurrent update, running it again", map[string]any{
			"attempt": attempt,
			"error":   err.Error(),
		})
	}
	return err
}

// runOnce runs fn in one transaction. committing reports whether fn succeeded
// and the returned error, if any, came from COMMIT.
func (u *UnitOfWork) runOnce(ctx context.Context, fn func(ctx context.Context) error) (committing bool, err error) {
	txCtx, err := u.Begin(ctx)
	if err != nil {
		return false, err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = u.Rollback(txCtx)
			panic(r)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := u.Rollback(txCtx); rbErr != nil {
			u.logger.Error("Failed to roll back after error", map[string]any{
				"error":          err.Error(),
				"rollback_error": rbErr.Error(),
			})
		}
		return false, err
	}

	return true, u.Commit(txCtx)
}

// GetAccountRepository returns an account repository in the current transaction
func (u *UnitOfWork) GetAccountRepository(ctx context.Context) persistence.AccountRepository {
	db, retry := u.getDbFromContext(ctx)
	return repository.NewAccountRepository(db, u.logger, retry)
}

// GetTransactionRepository returns a transaction repository in the current transaction
func (u *UnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	db, retry := u.getDbFromContext(ctx)
	return repository.NewTransactionRepository(db, u.logger, retry)
}

// GetVerificationRepository returns a verification repository in the current transaction
func (u *UnitOfWork) GetVerificationRepository(ctx context.Context) persistence.VerificationRepository {
	db, retry := u.getDbFromContext(ctx)
	return repository.NewVerificationRepository(db, u.logger, retry)
}

// getDbFromContext retrieves the database instance from context. Reads outside
// a transaction may be retried on transient errors; statements inside one may not.
func (u *UnitOfWork) getDbFromContext(ctx context.Context) (*gorm.DB, repository.RetryConfig) {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok && tx != nil {
		return tx, repository.NoRetry()
	}
	return u.db.WithContext(ctx), repository.DefaultRetryConfig()
}
