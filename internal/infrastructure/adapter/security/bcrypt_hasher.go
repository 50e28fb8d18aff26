package security

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/security"
)

// BcryptHasher implements security.CredentialHasher with bcrypt. Secrets are
// pre-hashed with SHA-256 so inputs longer than bcrypt's 72 byte limit are not truncated.
type BcryptHasher struct {
	cost int
}

var _ security.CredentialHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a hasher with the given cost, falling back to the bcrypt default when out of range
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns a salted bcrypt digest of secret
func (h *BcryptHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(prehash(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(digest), nil
}

// Compare reports whether secret matches digest
func (h *BcryptHasher) Compare(secret, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), prehash(secret)) == nil
}

func prehash(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
