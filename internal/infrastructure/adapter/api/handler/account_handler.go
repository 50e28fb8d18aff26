package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/api/dto"
)

// AccountHandler handles signup, verification, login and the data reset
type AccountHandler struct {
	accounts usecase.AccountUseCase
	logger   coreport.Logger
}

// NewAccountHandler creates a new account handler instance
func NewAccountHandler(accounts usecase.AccountUseCase, logger coreport.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

// Signup handles POST /signup
func (h *AccountHandler) Signup(c *gin.Context) {
	req, err := bindAndValidate[dto.SignupRequest](c, errs.ErrMissingSignupFields)
	if err != nil {
		respondError(c, h.logger, err, "Server error during registration.")
		return
	}

	result, err := h.accounts.Register(c.Request.Context(), usecase.RegisterRequest{
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondError(c, h.logger, err, "Server error during registration.")
		return
	}

	c.JSON(http.StatusCreated, dto.SignupResponse{
		Message: "User registered successfully. Verification link sent to your email.",
		User:    dto.NewAccountStatusView(result.Account),
		Debug:   result.Debug,
	})
}

// Verify handles GET /auth?token=&pin=
func (h *AccountHandler) Verify(c *gin.Context) {
	result, err := h.accounts.Verify(c.Request.Context(), c.Query("token"), c.Query("pin"))
	if err != nil {
		respondError(c, h.logger, err, "Server error during account verification.")
		return
	}

	message := "Account successfully activated! You can log in."
	if result.AlreadyVerified {
		message = "Account already active. You can now log in."
	}
	c.JSON(http.StatusOK, dto.VerifyResponse{
		Message: message,
		User:    dto.NewAccountBalanceView(result.Account),
	})
}

// Login handles POST /login
func (h *AccountHandler) Login(c *gin.Context) {
	req, err := bindAndValidate[dto.LoginRequest](c, errs.ErrMissingCredentials)
	if err != nil {
		respondError(c, h.logger, err, "Server error during account login.")
		return
	}

	session, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "Server error during account login.")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		Token:   session.Token,
		User:    dto.NewAccountBalanceView(session.Account),
	})
}

// ClearDatabase handles POST /cleardb
func (h *AccountHandler) ClearDatabase(c *gin.Context) {
	if err := h.accounts.Reset(c.Request.Context()); err != nil {
		respondError(c, h.logger, err, "Failed to clear the database.")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Database successfully cleared"})
}
