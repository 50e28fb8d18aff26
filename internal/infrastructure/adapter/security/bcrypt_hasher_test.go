package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/security"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	t.Run("Hash and compare", func(t *testing.T) {
		digest, err := hasher.Hash(security.BindSecret("password123", "alice@example.com"))
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(digest, "$2a$"))
		assert.True(t, hasher.Compare(security.BindSecret("password123", "alice@example.com"), digest))
		assert.False(t, hasher.Compare(security.BindSecret("password124", "alice@example.com"), digest))
	})

	t.Run("Digest is bound to the email", func(t *testing.T) {
		digest, err := hasher.Hash(security.BindSecret("password123", "alice@example.com"))
		require.NoError(t, err)

		assert.False(t, hasher.Compare(security.BindSecret("password123", "bob@example.com"), digest))
	})

	t.Run("Salted digests differ", func(t *testing.T) {
		first, err := hasher.Hash("same-secret")
		require.NoError(t, err)
		second, err := hasher.Hash("same-secret")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("Long secrets are not truncated", func(t *testing.T) {
		prefix := strings.Repeat("x", 100)
		digest, err := hasher.Hash(prefix + "A")
		require.NoError(t, err)

		assert.False(t, hasher.Compare(prefix+"B", digest))
	})

	t.Run("Empty digest never matches", func(t *testing.T) {
		assert.False(t, hasher.Compare("anything", ""))
	})
}

func TestNewBcryptHasherCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
