package error

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeValidation        = 4000
	CodeInsufficientFunds = 4001
	CodeInvalidAmount     = 4002
	CodeSelfTransfer      = 4003
	CodeAuth              = 4010
	CodeTokenExpired      = 4011
	CodeNotVerified       = 4012
	CodeForbidden         = 4030
	CodeNotFound          = 4040
	CodeConflict          = 4090
	CodeConcurrentUpdate  = 4091

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodeStorage        = 5001
	CodeDelivery       = 5020
)

// Error kinds. Every error produced by the domain matches exactly one of these via errors.Is.
var (
	// ErrValidation is returned when a request is malformed or violates a business rule
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when a request collides with existing state
	ErrConflict = errors.New("conflict")

	// ErrAuth is returned when credentials, tokens or account state do not permit the request
	ErrAuth = errors.New("authentication failed")

	// ErrForbidden is returned when an operation is disabled in the current environment
	ErrForbidden = errors.New("operation not permitted")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInsufficientFunds is returned when a debit would drive a balance negative
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrStorage is returned for failures of the underlying store
	ErrStorage = errors.New("storage error")

	// ErrDelivery is returned when an outbound message could not be handed to the transport
	ErrDelivery = errors.New("delivery failed")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// kindError is a sentinel with a caller-facing message that also matches its kind.
type kindError struct {
	kind    error
	message string
}

func (e *kindError) Error() string {
	return e.message
}

// Is reports whether target is the kind this error belongs to
func (e *kindError) Is(target error) bool {
	return target == e.kind
}

func newKind(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

// Validation errors
var (
	ErrMissingSignupFields       = newKind(ErrValidation, "Email, password, and phone number are required.")
	ErrPasswordTooShort          = newKind(ErrValidation, "Password must be at least 8 characters long.")
	ErrInvalidEmail              = newKind(ErrValidation, "Invalid email format.")
	ErrMissingVerificationParams = newKind(ErrValidation, "Token and PIN are required.")
	ErrMissingCredentials        = newKind(ErrValidation, "Email and password are required.")
	ErrMissingTransferFields     = newKind(ErrValidation, "Recipient email and amount are required.")
	ErrInvalidAmount             = newKind(ErrValidation, "Amount must be a positive number with at most two decimal places.")
	ErrSelfTransfer              = newKind(ErrValidation, "Cannot transfer money to yourself.")
	ErrInvalidAccountID          = newKind(ErrValidation, "Invalid account identifier.")
	ErrMalformedRequest          = newKind(ErrValidation, "Invalid request body.")
)

// Conflict errors
var (
	ErrAccountPending = newKind(ErrConflict, "User exists but is not active. Please check your email for the verification link.")
	ErrAccountExists  = newKind(ErrConflict, "User with this email already exists.")
)

// Authentication errors
var (
	ErrTokenExpired       = newKind(ErrAuth, "Verification link expired. Please sign up again or request a new link.")
	ErrTokenInvalid       = newKind(ErrAuth, "Invalid verification token.")
	ErrSessionExpired     = newKind(ErrAuth, "Session expired. Please log in again.")
	ErrSessionInvalid     = newKind(ErrAuth, "Invalid or missing session token.")
	ErrUnknownEmail       = newKind(ErrAuth, "Invalid email")
	ErrAccountNotVerified = newKind(ErrAuth, "Account not yet verified. Please check your email.")
	ErrInvalidCredentials = newKind(ErrAuth, "Invalid email or password.")
	ErrAccountNotActive   = newKind(ErrAuth, "Account is not active.")
)

// ErrResetDisabled is returned when the data reset is requested outside development
var ErrResetDisabled = newKind(ErrForbidden, "This action is forbidden in the current environment.")

// Not found errors
var (
	ErrAccountNotFound      = newKind(ErrNotFound, "Account not found.")
	ErrSenderNotFound       = newKind(ErrNotFound, "Sender not found.")
	ErrRecipientNotFound    = newKind(ErrNotFound, "Recipient user not found.")
	ErrVerificationNotFound = newKind(ErrNotFound, "Invalid PIN or token/PIN combination not found.")
)

// Storage errors
var (
	ErrDatabaseConnection  = newKind(ErrStorage, "database connection error")
	ErrConcurrentUpdate    = newKind(ErrStorage, "the account was modified by a concurrent request, please retry")
	ErrConstraintViolation = newKind(ErrStorage, "database constraint violation")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrSelfTransfer):
		return CodeSelfTransfer
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrTokenExpired), errors.Is(err, ErrSessionExpired):
		return CodeTokenExpired
	case errors.Is(err, ErrAccountNotVerified):
		return CodeNotVerified
	case errors.Is(err, ErrAuth):
		return CodeAuth
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrConcurrentUpdate):
		return CodeConcurrentUpdate
	case errors.Is(err, ErrStorage):
		return CodeStorage
	case errors.Is(err, ErrDelivery):
		return CodeDelivery
	default:
		return CodeInternalServer
	}
}

// HTTPStatus maps an error kind onto the HTTP status used by the API
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInsufficientFunds):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, ErrDelivery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether the error is caused by the caller rather than the server
func IsClientError(err error) bool {
	return HTTPStatus(err) < http.StatusInternalServerError
}

// PublicMessage returns the caller-facing message for err. Server-side failures
// are replaced by fallback so storage details never leak to clients.
func PublicMessage(err error, fallback string) string {
	var insufficient *InsufficientFundsError
	switch {
	case errors.As(err, &insufficient):
		return "Insufficient funds."
	case errors.Is(err, ErrConcurrentUpdate):
		return ErrConcurrentUpdate.Error()
	case IsClientError(err):
		var kind *kindError
		if errors.As(err, &kind) {
			return kind.message
		}
		return err.Error()
	default:
		return fallback
	}
}

// InsufficientFundsError provides detailed error information for a rejected debit
type InsufficientFundsError struct {
	AccountID string
	Amount    string
	Available string
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for account %s: required %s, available %s",
		e.AccountID, e.Amount, e.Available)
}

// Is matches both ErrInsufficientFunds and ErrValidation
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds || target == ErrValidation
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"account_id": e.AccountID,
		"amount":     e.Amount,
		"available":  e.Available,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(accountID, amount, available string) error {
	return &InsufficientFundsError{
		AccountID: accountID,
		Amount:    amount,
		Available: available,
	}
}

// StorageError wraps a failure of the backing store for a named operation
type StorageError struct {
	Operation string
	Err       error
}

// Error implements the error interface for StorageError
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is matches ErrStorage regardless of the wrapped cause
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// LogFields returns a map of fields for structured logging
func (e *StorageError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "storage_error",
		"operation":  e.Operation,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e),
	}
}

// NewStorageError wraps err as a storage failure unless it already carries a domain kind
func NewStorageError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return &StorageError{Operation: operation, Err: err}
}

// DeliveryError represents an outbound message that could not be handed off
type DeliveryError struct {
	Recipient string
	Err       error
}

// Error implements the error interface for DeliveryError
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver message to %s: %v", e.Recipient, e.Err)
}

// Unwrap returns the underlying error
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Is matches ErrDelivery
func (e *DeliveryError) Is(target error) bool {
	return target == ErrDelivery
}

// NewDeliveryError creates a delivery failure for the given recipient
func NewDeliveryError(recipient string, err error) error {
	return &DeliveryError{Recipient: recipient, Err: err}
}

// TransferError represents a failed funds transfer with its context
type TransferError struct {
	SenderID       string
	RecipientEmail string
	Amount         string
	Reason         string
	Err            error
}

// Error implements the error interface for TransferError
func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer from %s to %s (amount: %s) failed: %s - %v",
		e.SenderID, e.RecipientEmail, e.Amount, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *TransferError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *TransferError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "transfer_error",
		"sender_id":       e.SenderID,
		"recipient_email": e.RecipientEmail,
		"amount":          e.Amount,
		"reason":          e.Reason,
		"error":           e.Err.Error(),
		"error_code":      ErrorCode(e.Err),
	}
}

// NewTransferError creates a detailed transfer error
func NewTransferError(senderID, recipientEmail, amount, reason string, err error) error {
	return &TransferError{
		SenderID:       senderID,
		RecipientEmail: recipientEmail,
		Amount:         amount,
		Reason:         reason,
		Err:            err,
	}
}

// IsDomainError reports whether err already belongs to one of the error kinds
func IsDomainError(err error) bool {
	for _, kind := range []error{
		ErrValidation, ErrConflict, ErrAuth, ErrForbidden, ErrNotFound,
		ErrInsufficientFunds, ErrStorage, ErrDelivery,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// IsInsufficientFundsError checks if the error is related to insufficient funds
func IsInsufficientFundsError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAuthError checks if the error is an authentication failure
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuth)
}

// IsStorageError checks if the error is a failure of the backing store
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}
