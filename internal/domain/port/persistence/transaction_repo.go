package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
)

// TransactionRepository defines the methods to interact with ledger entries
type TransactionRepository interface {
	// Create appends a ledger entry
	//
	// Possible errors:
	// - ErrStorage: If the store fails or the owning account does not exist
	Create(ctx context.Context, transaction *entity.Transaction) error

	// ListByAccount returns one page of an account's entries, newest first.
	// Entries with equal timestamps are ordered by ID descending.
	ListByAccount(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*entity.Transaction, error)

	// CountByAccount returns the number of entries owned by an account
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)

	// List returns every ledger entry, oldest first
	List(ctx context.Context) ([]*entity.Transaction, error)

	// DeleteAll removes every ledger entry
	DeleteAll(ctx context.Context) error
}
