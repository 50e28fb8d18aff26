package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating transaction operations
// across multiple repositories to maintain data consistency
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// RunAtomic runs fn inside a transaction. Every write made through repositories
	// obtained from the transactional context becomes visible together when fn
	// returns nil, and none of them does otherwise. A failed commit is not retried.
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error

	// GetAccountRepository returns an account repository bound to the current transaction
	GetAccountRepository(ctx context.Context) AccountRepository

	// GetTransactionRepository returns a transaction repository bound to the current transaction
	GetTransactionRepository(ctx context.Context) TransactionRepository

	// GetVerificationRepository returns a verification repository bound to the current transaction
	GetVerificationRepository(ctx context.Context) VerificationRepository
}
