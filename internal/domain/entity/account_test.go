package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	coremocks "github.com/amirhossein-jamali/bank-ledger/mocks/port/core"
)

func TestNewAccount(t *testing.T) {
	fixedTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.On("Now").Return(fixedTime).Maybe()

	t.Run("Valid account creation", func(t *testing.T) {
		account, err := NewAccount("  Alice@Example.COM ", "digest", " +15550100 ", decimal.NewFromInt(500), mockTime)

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", account.Email)
		assert.Equal(t, "+15550100", account.PhoneNumber)
		assert.Equal(t, StatusPending, account.Status)
		assert.Equal(t, "500.00", account.GetBalance())
		assert.Equal(t, fixedTime, account.CreatedAt)
		assert.NotEqual(t, [16]byte{}, [16]byte(account.ID))
		assert.False(t, account.IsActive())
		assert.True(t, account.IsPending())
	})

	t.Run("Invalid email", func(t *testing.T) {
		for _, email := range []string{"", "alice", "alice@", "alice@example", "a b@example.com"} {
			account, err := NewAccount(email, "digest", "1", decimal.NewFromInt(500), mockTime)
			assert.ErrorIs(t, err, errs.ErrInvalidEmail, email)
			assert.Nil(t, account)
		}
	})

	t.Run("Negative starting balance", func(t *testing.T) {
		_, err := NewAccount("a@b.co", "digest", "1", decimal.NewFromInt(-1), mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestAccountActivate(t *testing.T) {
	fixedTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.On("Now").Return(fixedTime)

	account, err := NewAccount("a@b.co", "digest", "1", decimal.NewFromInt(500), mockTime)
	require.NoError(t, err)

	assert.True(t, account.Activate(mockTime))
	assert.True(t, account.IsActive())
	assert.False(t, account.Activate(mockTime), "activating twice must be a no-op")
	assert.Equal(t, StatusActive, account.Status)

	blocked := RestoreAccount(account.ID, "c@d.co", "x", "1", StatusBlocked, decimal.Zero, fixedTime, fixedTime)
	assert.False(t, blocked.Activate(mockTime))
	assert.Equal(t, StatusBlocked, blocked.Status)
}

func TestAccountDebitCredit(t *testing.T) {
	fixedTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.On("Now").Return(fixedTime)

	account, err := NewAccount("a@b.co", "digest", "1", decimal.NewFromInt(500), mockTime)
	require.NoError(t, err)

	t.Run("Debit within balance", func(t *testing.T) {
		require.NoError(t, account.Debit(decimal.RequireFromString("150.25"), mockTime))
		assert.Equal(t, "349.75", account.GetBalance())
	})

	t.Run("Debit entire balance", func(t *testing.T) {
		clone := account.Clone()
		require.NoError(t, clone.Debit(decimal.RequireFromString("349.75"), mockTime))
		assert.Equal(t, "0.00", clone.GetBalance())
		assert.Equal(t, "349.75", account.GetBalance(), "clone must not share state")
	})

	t.Run("Debit beyond balance", func(t *testing.T) {
		err := account.Debit(decimal.RequireFromString("349.76"), mockTime)
		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		assert.Equal(t, "349.75", account.GetBalance())
	})

	t.Run("Non-positive amounts", func(t *testing.T) {
		assert.ErrorIs(t, account.Debit(decimal.Zero, mockTime), errs.ErrInvalidAmount)
		assert.ErrorIs(t, account.Credit(decimal.NewFromInt(-3), mockTime), errs.ErrInvalidAmount)
	})

	t.Run("Credit", func(t *testing.T) {
		require.NoError(t, account.Credit(decimal.RequireFromString("0.25"), mockTime))
		assert.Equal(t, "350.00", account.GetBalance())
	})
}

func TestAccountView(t *testing.T) {
	fixedTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	account := RestoreAccount([16]byte{1}, "a@b.co", "secret-digest", "1", StatusActive, decimal.NewFromInt(42), fixedTime, fixedTime)

	view := account.View()
	assert.Equal(t, account.ID, view.ID)
	assert.Equal(t, "a@b.co", view.Email)
	assert.Equal(t, StatusActive, view.Status)
	assert.Equal(t, "42.00", view.Balance)
}
