package account

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/security"
)

// SeedAccount describes an active account created at startup in development
type SeedAccount struct {
	Email       string
	Password    string
	PhoneNumber string
}

// SeedAccounts creates the given accounts as already verified, skipping any
// email that is taken. It returns the number of accounts created.
func (u *AccountUseCase) SeedAccounts(ctx context.Context, seeds []SeedAccount) (int, error) {
	created := 0
	for _, seed := range seeds {
		email := entity.NormalizeEmail(seed.Email)

		_, err := u.uow.GetAccountRepository(ctx).GetByEmail(ctx, email)
		if err == nil {
			continue
		}
		if !errors.Is(err, errs.ErrAccountNotFound) {
			return created, err
		}

		digest, err := u.hasher.Hash(security.BindSecret(seed.Password, email))
		if err != nil {
			return created, err
		}

		account, err := entity.NewAccount(email, digest, seed.PhoneNumber, u.cfg.StartingBalance, u.timeProvider)
		if err != nil {
			return created, err
		}
		account.Activate(u.timeProvider)

		if err := u.uow.GetAccountRepository(ctx).Create(ctx, account); err != nil {
			if errors.Is(err, errs.ErrAccountExists) {
				continue
			}
			return created, err
		}

		created++
		u.logger.Info("Seed account created", map[string]any{
			"account_id": account.ID.String(),
			"email":      account.Email,
		})
	}
	return created, nil
}
