package security

import (
	"time"

	"github.com/google/uuid"
)

// TokenPurpose separates verification tokens from session tokens
type TokenPurpose string

// Token purposes
const (
	PurposeVerification TokenPurpose = "verify"
	PurposeSession      TokenPurpose = "session"
)

// Claims are the facts carried by a signed token
type Claims struct {
	AccountID uuid.UUID
	Email     string
	Purpose   TokenPurpose
	ExpiresAt time.Time
}

// TokenService issues and checks signed, expiring tokens
type TokenService interface {
	// Issue signs claims valid for ttl from now
	Issue(claims Claims, ttl time.Duration) (string, error)

	// Verify checks the signature and expiry of token and returns its claims.
	//
	// Possible errors:
	// - ErrTokenExpired: If the signature is valid but the token has expired
	// - ErrTokenInvalid: If the token is malformed or its signature does not verify
	Verify(token string) (*Claims, error)
}
