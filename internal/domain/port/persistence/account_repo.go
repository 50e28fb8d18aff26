package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
)

// AccountRepository defines the methods to interact with account data
type AccountRepository interface {
	// GetByID retrieves an account by ID
	//
	// Possible errors:
	// - ErrAccountNotFound: If no account has the given ID
	// - ErrStorage: If the store fails
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// GetByEmail retrieves an account by its normalized email
	//
	// Possible errors:
	// - ErrAccountNotFound: If no account has the given email
	// - ErrStorage: If the store fails
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)

	// LockByIDs re-reads the given accounts and holds them exclusively until the
	// surrounding unit of work ends. Rows are locked in ascending ID order so that
	// opposite transfers cannot deadlock. Missing accounts are absent from the result.
	//
	// Possible errors:
	// - ErrConcurrentUpdate: If a lock could not be obtained
	// - ErrStorage: If the store fails
	LockByIDs(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*entity.Account, error)

	// Create stores a new account
	//
	// Possible errors:
	// - ErrAccountExists: If the email is already registered
	// - ErrStorage: If the store fails
	Create(ctx context.Context, account *entity.Account) error

	// Update persists the status and balance of an existing account
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	// - ErrStorage: If the store fails, including a negative balance constraint
	Update(ctx context.Context, account *entity.Account) error

	// GetEmails resolves account IDs to emails. Unknown IDs are absent from the result.
	GetEmails(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)

	// List returns every account ordered by creation time
	List(ctx context.Context) ([]*entity.Account, error)

	// Delete removes one account. Deleting a missing account is not an error.
	//
	// Possible errors:
	// - ErrStorage: If the store fails
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAll removes every account
	DeleteAll(ctx context.Context) error
}
