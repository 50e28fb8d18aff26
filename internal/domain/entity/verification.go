package entity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	tport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
)

// VerificationCodeLength is the number of digits in a verification code
const VerificationCodeLength = 6

var (
	codeFloor = big.NewInt(100000)
	codeSpan  = big.NewInt(900000)
)

// VerificationChallenge is a short-lived secret bound to a pending account
type VerificationChallenge struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Code      string
	CreatedAt time.Time
}

// GenerateVerificationCode returns a uniformly random six digit code
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return n.Add(n, codeFloor).String(), nil
}

// NewVerificationChallenge issues a fresh challenge for accountID
func NewVerificationChallenge(accountID uuid.UUID, timeProvider tport.TimeProvider) (*VerificationChallenge, error) {
	code, err := GenerateVerificationCode()
	if err != nil {
		return nil, err
	}

	return &VerificationChallenge{
		ID:        uuid.New(),
		AccountID: accountID,
		Code:      code,
		CreatedAt: timeProvider.Now(),
	}, nil
}

// ExpiresAt returns the instant the challenge stops being usable
func (c *VerificationChallenge) ExpiresAt(ttl time.Duration) time.Time {
	return c.CreatedAt.Add(ttl)
}

// IsExpired reports whether the challenge is past its lifetime at now
func (c *VerificationChallenge) IsExpired(now time.Time, ttl time.Duration) bool {
	return !now.Before(c.ExpiresAt(ttl))
}
