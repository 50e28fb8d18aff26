package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
)

// VerificationRepository stores verification challenges of pending accounts
type VerificationRepository interface {
	// Create stores a new challenge
	Create(ctx context.Context, challenge *entity.VerificationChallenge) error

	// FindValid returns the challenge for accountID with the given code that was
	// created at or after notBefore. Expired challenges are never returned.
	//
	// Possible errors:
	// - ErrVerificationNotFound: If no live challenge matches
	// - ErrStorage: If the store fails
	FindValid(ctx context.Context, accountID uuid.UUID, code string, notBefore time.Time) (*entity.VerificationChallenge, error)

	// DeleteByAccount removes every challenge of an account
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error

	// PurgeExpired removes challenges created before the given instant and
	// returns how many were removed
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)

	// DeleteAll removes every challenge
	DeleteAll(ctx context.Context) error
}
