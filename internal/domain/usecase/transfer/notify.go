package transfer

import (
	"fmt"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/notification"
)

// notifyRecipient pushes a money-received event to the recipient's live sessions.
// It runs after commit and never changes the outcome of the transfer.
func (s *Service) notifyRecipient(outcome *transferOutcome) {
	if s.notifier == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Notifier panicked", map[string]any{
				"transfer_id": outcome.debit.TransferID.String(),
				"panic":       fmt.Sprint(r),
			})
		}
	}()

	payload := notification.MoneyReceived{
		From:   outcome.sender.Email,
		Amount: outcome.credit.GetAmount(),
	}
	if err := s.notifier.Notify(outcome.recipient.ID, notification.EventMoneyReceived, payload); err != nil {
		s.logger.Warn("Failed to notify recipient", map[string]any{
			"transfer_id":  outcome.debit.TransferID.String(),
			"recipient_id": outcome.recipient.ID.String(),
			"error":        err.Error(),
		})
	}
}
