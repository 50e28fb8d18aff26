package entity

import (
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremocks "github.com/amirhossein-jamali/bank-ledger/mocks/port/core"
)

func TestGenerateVerificationCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		require.Len(t, code, VerificationCodeLength)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestVerificationChallengeExpiry(t *testing.T) {
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.On("Now").Return(created)

	challenge, err := NewVerificationChallenge(uuid.New(), mockTime)
	require.NoError(t, err)

	ttl := 5 * time.Minute
	assert.Equal(t, created.Add(ttl), challenge.ExpiresAt(ttl))
	assert.False(t, challenge.IsExpired(created, ttl))
	assert.False(t, challenge.IsExpired(created.Add(ttl-time.Second), ttl))
	assert.True(t, challenge.IsExpired(created.Add(ttl), ttl))
	assert.True(t, challenge.IsExpired(created.Add(time.Hour), ttl))
}
