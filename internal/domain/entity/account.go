package entity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
)

// AccountStatus is the lifecycle state of an account
type AccountStatus string

// Account statuses
const (
	StatusPending AccountStatus = "pending"
	StatusActive  AccountStatus = "active"
	StatusBlocked AccountStatus = "blocked"
)

// MinPasswordLength is the shortest secret accepted at registration
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Account is an identity holding a single balance
type Account struct {
	ID           uuid.UUID
	Email        string // normalized, unique
	PasswordHash string
	PhoneNumber  string
	Status       AccountStatus
	balance      decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email has the shape local@domain.tld
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return errs.ErrInvalidEmail
	}
	return nil
}

// NewAccount creates a pending account holding the starting balance
func NewAccount(email, passwordHash, phoneNumber string, startingBalance decimal.Decimal, timeProvider coreport.TimeProvider) (*Account, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if startingBalance.IsNegative() {
		return nil, errs.ErrInvalidAmount
	}

	now := timeProvider.Now()
	return &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		PhoneNumber:  strings.TrimSpace(phoneNumber),
		Status:       StatusPending,
		balance:      startingBalance.Round(MaxDecimalPlaces),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// RestoreAccount rebuilds an account from persisted state (for repositories)
func RestoreAccount(id uuid.UUID, email, passwordHash, phoneNumber string, status AccountStatus, balance decimal.Decimal, createdAt, updatedAt time.Time) *Account {
	return &Account{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		PhoneNumber:  phoneNumber,
		Status:       status,
		balance:      balance,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// Balance returns the current balance
func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// GetBalance returns the balance as a string with 2 decimal places
func (a *Account) GetBalance() string {
	return FormatAmount(a.balance)
}

// IsActive reports whether the account may authenticate and move funds
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// IsPending reports whether the account still awaits verification
func (a *Account) IsPending() bool {
	return a.Status == StatusPending
}

// Activate moves a pending account to active. It returns false when the
// account was not pending, leaving the account unchanged.
func (a *Account) Activate(timeProvider coreport.TimeProvider) bool {
	if a.Status != StatusPending {
		return false
	}
	a.Status = StatusActive
	a.UpdatedAt = timeProvider.Now()
	return true
}

// Debit subtracts amount from the balance if sufficient funds exist
func (a *Account) Debit(amount decimal.Decimal, timeProvider coreport.TimeProvider) error {
	if !amount.IsPositive() {
		return errs.ErrInvalidAmount
	}
	if a.balance.LessThan(amount) {
		return errs.NewInsufficientFundsError(a.ID.String(), FormatAmount(amount), a.GetBalance())
	}

	a.balance = a.balance.Sub(amount)
	a.UpdatedAt = timeProvider.Now()
	return nil
}

// Credit adds amount to the balance
func (a *Account) Credit(amount decimal.Decimal, timeProvider coreport.TimeProvider) error {
	if !amount.IsPositive() {
		return errs.ErrInvalidAmount
	}

	a.balance = a.balance.Add(amount)
	a.UpdatedAt = timeProvider.Now()
	return nil
}

// Clone returns an independent copy of the account
func (a *Account) Clone() *Account {
	c := *a
	return &c
}

// AccountView is the public projection of an account, without credentials
type AccountView struct {
	ID      uuid.UUID     `json:"id"`
	Email   string        `json:"email"`
	Status  AccountStatus `json:"status"`
	Balance string        `json:"balance"`
}

// View returns the public projection of the account
func (a *Account) View() AccountView {
	return AccountView{
		ID:      a.ID,
		Email:   a.Email,
		Status:  a.Status,
		Balance: a.GetBalance(),
	}
}
