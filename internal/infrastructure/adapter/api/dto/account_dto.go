package dto

import (
	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

// SignupRequest represents the API request for registering an account
type SignupRequest struct {
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// LoginRequest represents the API request for opening a session
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AccountStatusView identifies an account and its lifecycle state
type AccountStatusView struct {
	ID     uuid.UUID            `json:"id"`
	Email  string               `json:"email"`
	Status entity.AccountStatus `json:"status"`
}

// AccountBalanceView identifies an account and its balance
type AccountBalanceView struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"email"`
	Balance string    `json:"balance"`
}

// SignupResponse represents the API response for a registration
type SignupResponse struct {
	Message string                     `json:"message"`
	User    AccountStatusView          `json:"user"`
	Debug   *usecase.VerificationDebug `json:"DEBUG_INFO,omitempty"`
}

// VerifyResponse represents the API response for an account verification
type VerifyResponse struct {
	Message string             `json:"message"`
	User    AccountBalanceView `json:"user"`
}

// LoginResponse represents the API response for a successful login
type LoginResponse struct {
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    AccountBalanceView `json:"user"`
}

// NewAccountStatusView projects an account view for signup responses
func NewAccountStatusView(v entity.AccountView) AccountStatusView {
	return AccountStatusView{ID: v.ID, Email: v.Email, Status: v.Status}
}

// NewAccountBalanceView projects an account view for verify and login responses
func NewAccountBalanceView(v entity.AccountView) AccountBalanceView {
	return AccountBalanceView{ID: v.ID, Email: v.Email, Balance: v.Balance}
}
