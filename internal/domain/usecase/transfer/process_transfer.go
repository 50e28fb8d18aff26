package transfer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
)

// transferOutcome is the committed state of a transfer
type transferOutcome struct {
	sender    *entity.Account
	recipient *entity.Account
	debit     *entity.Transaction
	credit    *entity.Transaction
}

// executeTransfer runs the balance checks, both balance updates and both ledger
// appends as one unit of work. Nothing is visible unless every step succeeds.
func (s *Service) executeTransfer(ctx context.Context, senderID uuid.UUID, recipientEmail string, amount decimal.Decimal) (*transferOutcome, error) {
	var outcome *transferOutcome

	err := s.uow.RunAtomic(ctx, func(txCtx context.Context) error {
		accounts := s.uow.GetAccountRepository(txCtx)

		// Only the recipient's id is taken from this read; balances come from the locked rows
		recipient, err := accounts.GetByEmail(txCtx, recipientEmail)
		if err != nil {
			if errors.Is(err, errs.ErrAccountNotFound) {
				return errs.ErrRecipientNotFound
			}
			return err
		}

		if senderID == recipient.ID {
			return errs.ErrSelfTransfer
		}

		// Lock both rows before any balance is read so concurrent transfers
		// touching either account queue behind this one.
		locked, err := accounts.LockByIDs(txCtx, senderID, recipient.ID)
		if err != nil {
			return err
		}
		sender := locked[senderID]
		if sender == nil {
			return errs.ErrSenderNotFound
		}
		if recipient = locked[recipient.ID]; recipient == nil {
			return errs.ErrRecipientNotFound
		}

		if !sender.IsActive() {
			return errs.ErrAccountNotActive
		}
		if !recipient.IsActive() {
			return errs.ErrRecipientNotFound
		}

		if err := sender.Debit(amount, s.timeProvider); err != nil {
			return err
		}
		if err := recipient.Credit(amount, s.timeProvider); err != nil {
			return err
		}

		debit, credit, err := entity.NewTransferPair(sender, recipient, amount, s.timeProvider)
		if err != nil {
			return err
		}

		if err := accounts.Update(txCtx, sender); err != nil {
			return err
		}
		if err := accounts.Update(txCtx, recipient); err != nil {
			return err
		}

		ledger := s.uow.GetTransactionRepository(txCtx)
		if err := ledger.Create(txCtx, debit); err != nil {
			return err
		}
		if err := ledger.Create(txCtx, credit); err != nil {
			return err
		}

		outcome = &transferOutcome{
			sender:    sender,
			recipient: recipient,
			debit:     debit,
			credit:    credit,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return outcome, nil
}
