package memstore

import (
	"context"
	"errors"
	"fmt"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/persistence"
)

type contextKey string

const txKey contextKey = "memstore_tx"

var (
	errNoTransaction     = errors.New("no transaction found in context")
	errNestedTransaction = errors.New("nested transactions are not supported")
	errTransactionDone   = errors.New("transaction already finished")
)

type memTx struct {
	store   *Store
	working *state
	done    bool
}

func txFromContext(ctx context.Context) *memTx {
	t, _ := ctx.Value(txKey).(*memTx)
	return t
}

// UnitOfWork implements persistence.UnitOfWork on top of a Store. Units of work
// are fully serialized: each one owns the writer slot from Begin until Commit or Rollback.
type UnitOfWork struct {
	store  *Store
	logger coreport.Logger
}

var _ persistence.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork creates a new in-memory unit of work
func NewUnitOfWork(store *Store, logger coreport.Logger) *UnitOfWork {
	return &UnitOfWork{store: store, logger: logger}
}

// Begin starts a new transaction and returns a transactional context
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if t := txFromContext(ctx); t != nil && !t.done {
		return ctx, errNestedTransaction
	}
	if err := u.store.acquire(ctx); err != nil {
		return ctx, err
	}

	t := &memTx{store: u.store, working: u.store.snapshot().clone()}
	return context.WithValue(ctx, txKey, t), nil
}

// Commit publishes the working copy of the transaction in ctx
func (u *UnitOfWork) Commit(ctx context.Context) error {
	t := txFromContext(ctx)
	if t == nil {
		return errNoTransaction
	}
	if t.done {
		return errTransactionDone
	}

	u.store.publish(t.working)
	t.done = true
	u.store.release()
	return nil
}

// Rollback discards the working copy of the transaction in ctx
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	t := txFromContext(ctx)
	if t == nil {
		return errNoTransaction
	}
	if t.done {
		return nil
	}

	t.done = true
	u.store.release()
	return nil
}

// RunAtomic runs fn in a transaction, committing only if fn returns nil
func (u *UnitOfWork) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	txCtx, err := u.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = u.Rollback(txCtx)
			panic(r)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := u.Rollback(txCtx); rbErr != nil {
			u.logger.Error("Failed to roll back transaction", map[string]any{"error": rbErr.Error()})
		}
		return err
	}

	if err := u.Commit(txCtx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetAccountRepository returns an account repository bound to the current transaction
func (u *UnitOfWork) GetAccountRepository(_ context.Context) persistence.AccountRepository {
	return &AccountRepository{store: u.store}
}

// GetTransactionRepository returns a transaction repository bound to the current transaction
func (u *UnitOfWork) GetTransactionRepository(_ context.Context) persistence.TransactionRepository {
	return &TransactionRepository{store: u.store}
}

// GetVerificationRepository returns a verification repository bound to the current transaction
func (u *UnitOfWork) GetVerificationRepository(_ context.Context) persistence.VerificationRepository {
	return &VerificationRepository{store: u.store}
}
