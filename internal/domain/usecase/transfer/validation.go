package transfer

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

// TransferValidator provides validation for transfer requests
type TransferValidator struct{}

// NewTransferValidator creates a new TransferValidator
func NewTransferValidator() *TransferValidator {
	return &TransferValidator{}
}

// ValidateTransfer checks the request fields and returns the normalized
// recipient email and the parsed amount
func (v *TransferValidator) ValidateTransfer(senderID uuid.UUID, req usecase.TransferRequest) (string, decimal.Decimal, error) {
	if senderID == uuid.Nil {
		return "", decimal.Zero, errs.ErrInvalidAccountID
	}

	email := entity.NormalizeEmail(req.RecipientEmail)
	if email == "" || strings.TrimSpace(req.Amount) == "" {
		return "", decimal.Zero, errs.ErrMissingTransferFields
	}

	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		return "", decimal.Zero, err
	}

	return email, amount, nil
}
