package usecase

import (
	"context"

	"github.com/google/uuid"
)

// TransferRequest is a request to move funds to another account
type TransferRequest struct {
	RecipientEmail string
	Amount         string
}

// TransferResult contains info about a committed transfer
type TransferResult struct {
	Message       string
	NewBalance    string
	TransactionID uuid.UUID
}

// TransferUseCase defines the funds movement operations
type TransferUseCase interface {
	// TransferFunds atomically moves funds from the sender to the recipient
	TransferFunds(ctx context.Context, senderID uuid.UUID, req TransferRequest) (*TransferResult, error)
}
