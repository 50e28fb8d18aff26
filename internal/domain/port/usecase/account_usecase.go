package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
)

// RegisterRequest carries the fields submitted at signup
type RegisterRequest struct {
	Email       string
	Password    string
	PhoneNumber string
}

// VerificationDebug echoes the verification secrets back to the caller.
// It is only ever populated outside production.
type VerificationDebug struct {
	Link  string `json:"verificationLink"`
	Token string `json:"token"`
	Code  string `json:"pin"`
}

// RegisterResult is returned by a successful registration
type RegisterResult struct {
	Account entity.AccountView
	Debug   *VerificationDebug
}

// VerifyResult is returned by a successful verification
type VerifyResult struct {
	Account         entity.AccountView
	AlreadyVerified bool
}

// Session is an issued session token and the account it represents
type Session struct {
	Token   string
	Account entity.AccountView
}

// Principal is the identity extracted from a valid session token
type Principal struct {
	AccountID uuid.UUID
	Email     string
}

// AccountUseCase defines the account lifecycle operations
type AccountUseCase interface {
	// Register creates a pending account and dispatches its verification message
	Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error)

	// Verify activates the account named by a verification token and code
	Verify(ctx context.Context, token, code string) (*VerifyResult, error)

	// Authenticate exchanges credentials of an active account for a session token
	Authenticate(ctx context.Context, email, password string) (*Session, error)

	// ResolveSession validates a session token and returns its principal
	ResolveSession(ctx context.Context, token string) (*Principal, error)

	// Reset removes every account, challenge and ledger entry. Only permitted outside production.
	Reset(ctx context.Context) error
}
