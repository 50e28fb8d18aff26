package account

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/security"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

// Verify activates the pending account named by token when code matches a live
// challenge. Verifying an already active account succeeds without change.
func (u *AccountUseCase) Verify(ctx context.Context, token, code string) (*usecase.VerifyResult, error) {
	token = strings.TrimSpace(token)
	code = strings.TrimSpace(code)
	if token == "" || code == "" {
		return nil, errs.ErrMissingVerificationParams
	}

	claims, err := u.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != security.PurposeVerification || claims.AccountID == uuid.Nil {
		return nil, errs.ErrTokenInvalid
	}

	result := &usecase.VerifyResult{}
	err = u.uow.RunAtomic(ctx, func(txCtx context.Context) error {
		accounts := u.uow.GetAccountRepository(txCtx)
		locked, err := accounts.LockByIDs(txCtx, claims.AccountID)
		if err != nil {
			return err
		}

		account, ok := locked[claims.AccountID]
		if !ok {
			return errs.ErrVerificationNotFound
		}
		if account.IsActive() {
			result.Account = account.View()
			result.AlreadyVerified = true
			return nil
		}
		if !account.IsPending() {
			return errs.ErrAccountNotActive
		}

		challenges := u.uow.GetVerificationRepository(txCtx)
		notBefore := u.timeProvider.Now().Add(-u.cfg.VerificationTTL)
		if _, err := challenges.FindValid(txCtx, account.ID, code, notBefore); err != nil {
			return err
		}

		account.Activate(u.timeProvider)
		if err := accounts.Update(txCtx, account); err != nil {
			return err
		}
		if err := challenges.DeleteByAccount(txCtx, account.ID); err != nil {
			return err
		}

		result.Account = account.View()
		return nil
	})
	if err != nil {
		u.logger.Warn("Verification failed", map[string]any{
			"account_id": claims.AccountID.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	if result.AlreadyVerified {
		u.logger.Info("Verification repeated for active account", map[string]any{
			"account_id": claims.AccountID.String(),
		})
	} else {
		u.logger.Info("Account verified", map[string]any{
			"account_id": claims.AccountID.String(),
			"status":     string(entity.StatusActive),
		})
	}
	return result, nil
}
