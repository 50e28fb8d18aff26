package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	tport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
)

// Direction is the side of a transfer a ledger entry records
type Direction string

// Ledger entry directions
const (
	DirectionTransferOut Direction = "TRANSFER_OUT"
	DirectionTransferIn  Direction = "TRANSFER_IN"
)

// Transaction is an immutable ledger entry owned by one account.
// Every transfer produces exactly two entries sharing a TransferID.
type Transaction struct {
	ID             uuid.UUID       // Unique identifier of the entry
	TransferID     uuid.UUID       // Shared by the debit and credit of one transfer
	AccountID      uuid.UUID       // Owner of the entry
	Direction      Direction       // TRANSFER_OUT or TRANSFER_IN
	Amount         decimal.Decimal // Signed: negative for TRANSFER_OUT, positive for TRANSFER_IN
	Description    string          // Human readable summary
	CounterpartyID *uuid.UUID      // The other account of the transfer, if known
	CreatedAt      time.Time
}

// NewTransferPair builds the debit entry for sender and the credit entry for
// recipient of a single transfer. Both entries share one timestamp and TransferID
// and their amounts sum to zero.
func NewTransferPair(sender, recipient *Account, amount decimal.Decimal, timeProvider tport.TimeProvider) (*Transaction, *Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, errs.ErrInvalidAmount
	}
	if sender.ID == recipient.ID {
		return nil, nil, errs.ErrSelfTransfer
	}

	now := timeProvider.Now()
	transferID := uuid.New()
	senderID, recipientID := sender.ID, recipient.ID

	debit := &Transaction{
		ID:             uuid.New(),
		TransferID:     transferID,
		AccountID:      sender.ID,
		Direction:      DirectionTransferOut,
		Amount:         amount.Neg(),
		Description:    fmt.Sprintf("Transfer to %s", recipient.Email),
		CounterpartyID: &recipientID,
		CreatedAt:      now,
	}
	credit := &Transaction{
		ID:             uuid.New(),
		TransferID:     transferID,
		AccountID:      recipient.ID,
		Direction:      DirectionTransferIn,
		Amount:         amount,
		Description:    fmt.Sprintf("Transfer from %s", sender.Email),
		CounterpartyID: &senderID,
		CreatedAt:      now,
	}
	return debit, credit, nil
}

// IsCredit returns true if this entry increased the owner's balance
func (t *Transaction) IsCredit() bool {
	return t.Direction == DirectionTransferIn
}

// IsDebit returns true if this entry decreased the owner's balance
func (t *Transaction) IsDebit() bool {
	return t.Direction == DirectionTransferOut
}

// SignedAmount returns the stored amount, i.e. the entry's effect on the owner's balance
func (t *Transaction) SignedAmount() decimal.Decimal {
	return t.Amount
}

// Magnitude returns the amount moved, without sign
func (t *Transaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}

// SignMatchesDirection reports whether the stored sign agrees with Direction
func (t *Transaction) SignMatchesDirection() bool {
	switch t.Direction {
	case DirectionTransferOut:
		return t.Amount.IsNegative()
	case DirectionTransferIn:
		return t.Amount.IsPositive()
	default:
		return false
	}
}

// GetAmount returns the signed amount as a string with 2 decimal places, e.g. "-150.00"
func (t *Transaction) GetAmount() string {
	return FormatAmount(t.Amount)
}
