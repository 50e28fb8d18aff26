package account

import (
	"context"

	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
)

// Reset wipes every ledger entry, challenge and account in one unit of work
func (u *AccountUseCase) Reset(ctx context.Context) error {
	if !u.cfg.AllowReset {
		u.logger.Warn("Rejected data reset outside development", nil)
		return errs.ErrResetDisabled
	}

	err := u.uow.RunAtomic(ctx, func(txCtx context.Context) error {
		if err := u.uow.GetTransactionRepository(txCtx).DeleteAll(txCtx); err != nil {
			return err
		}
		if err := u.uow.GetVerificationRepository(txCtx).DeleteAll(txCtx); err != nil {
			return err
		}
		return u.uow.GetAccountRepository(txCtx).DeleteAll(txCtx)
	})
	if err != nil {
		u.logger.Error("Data reset failed", map[string]any{"error": err.Error()})
		return err
	}

	u.logger.Warn("All accounts and ledger entries were removed", nil)
	return nil
}
