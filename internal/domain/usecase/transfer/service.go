package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/notification"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

// Service moves funds between accounts. Concurrent transfers are safe because
// every transfer runs in its own unit of work with the affected rows locked.
type Service struct {
	uow          persistence.UnitOfWork
	validator    *TransferValidator
	notifier     notification.Notifier
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.TransferUseCase = (*Service)(nil)

// NewTransferService creates a new transfer service
func NewTransferService(
	uow persistence.UnitOfWork,
	notifier notification.Notifier,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		validator:    NewTransferValidator(),
		notifier:     notifier,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// TransferFunds validates the request, commits the transfer and then notifies the recipient
func (s *Service) TransferFunds(ctx context.Context, senderID uuid.UUID, req usecase.TransferRequest) (*usecase.TransferResult, error) {
	recipientEmail, amount, err := s.validator.ValidateTransfer(senderID, req)
	if err != nil {
		return nil, err
	}

	outcome, err := s.executeTransfer(ctx, senderID, recipientEmail, amount)
	if err != nil {
		transferErr := &errs.TransferError{
			SenderID:       senderID.String(),
			RecipientEmail: recipientEmail,
			Amount:         entity.FormatAmount(amount),
			Reason:         "transfer aborted",
			Err:            err,
		}
		if errs.IsClientError(err) {
			s.logger.Warn("Transfer rejected", transferErr.LogFields())
		} else {
			s.logger.Error("Transfer failed", transferErr.LogFields())
		}
		return nil, transferErr
	}

	s.logger.Info("Transfer committed", map[string]any{
		"transfer_id":  outcome.debit.TransferID.String(),
		"sender_id":    outcome.sender.ID.String(),
		"recipient_id": outcome.recipient.ID.String(),
		"amount":       entity.FormatAmount(amount),
	})

	s.notifyRecipient(outcome)

	return &usecase.TransferResult{
		Message:       fmt.Sprintf("Successfully transferred $%s to %s.", entity.FormatAmount(amount), outcome.recipient.Email),
		NewBalance:    outcome.sender.GetBalance(),
		TransactionID: outcome.debit.ID,
	}, nil
}
