package account

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/notification"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/security"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

// Register creates a pending account with the starting balance, stores a
// verification challenge and hands the verification message to the mailer.
// The account and challenge are committed before the mailer is called so no
// unit of work stays open across the SMTP round-trip. If the mailer rejects the
// message both are removed again and a DeliveryError is returned.
func (u *AccountUseCase) Register(ctx context.Context, req usecase.RegisterRequest) (*usecase.RegisterResult, error) {
	email := entity.NormalizeEmail(req.Email)
	phone := strings.TrimSpace(req.PhoneNumber)
	if email == "" || req.Password == "" || phone == "" {
		return nil, errs.ErrMissingSignupFields
	}
	if err := entity.ValidateEmail(email); err != nil {
		return nil, err
	}
	if len(req.Password) < entity.MinPasswordLength {
		return nil, errs.ErrPasswordTooShort
	}

	existing, err := u.uow.GetAccountRepository(ctx).GetByEmail(ctx, email)
	switch {
	case err == nil && existing.IsPending():
		return nil, errs.ErrAccountPending
	case err == nil:
		return nil, errs.ErrAccountExists
	case !errors.Is(err, errs.ErrAccountNotFound):
		u.logger.Error("Failed to look up account during registration", map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}

	digest, err := u.hasher.Hash(security.BindSecret(req.Password, email))
	if err != nil {
		return nil, fmt.Errorf("hash credentials: %w", err)
	}

	account, err := entity.NewAccount(email, digest, phone, u.cfg.StartingBalance, u.timeProvider)
	if err != nil {
		return nil, err
	}
	challenge, err := entity.NewVerificationChallenge(account.ID, u.timeProvider)
	if err != nil {
		return nil, err
	}

	token, err := u.tokens.Issue(security.Claims{
		AccountID: account.ID,
		Email:     account.Email,
		Purpose:   security.PurposeVerification,
	}, u.cfg.VerificationTTL)
	if err != nil {
		return nil, fmt.Errorf("issue verification token: %w", err)
	}
	link, err := u.verificationLink(token, challenge.Code)
	if err != nil {
		return nil, err
	}

	err = u.uow.RunAtomic(ctx, func(txCtx context.Context) error {
		if err := u.uow.GetAccountRepository(txCtx).Create(txCtx, account); err != nil {
			return err
		}
		return u.uow.GetVerificationRepository(txCtx).Create(txCtx, challenge)
	})
	if err != nil {
		u.logger.Warn("Registration failed", map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}

	msg := notification.VerificationMessage{
		Link:      link,
		Code:      challenge.Code,
		ExpiresIn: u.cfg.VerificationTTL,
	}
	if err := u.mailer.SendVerification(ctx, account.Email, msg); err != nil {
		deliveryErr := errs.NewDeliveryError(account.Email, err)
		u.logger.Warn("Registration failed", map[string]any{
			"email": email,
			"error": deliveryErr.Error(),
		})
		u.discardPending(ctx, account)
		return nil, deliveryErr
	}

	u.logger.Info("Account registered", map[string]any{
		"account_id": account.ID.String(),
		"email":      account.Email,
	})
	return &usecase.RegisterResult{
		Account: account.View(),
		Debug:   debugEcho(u.cfg.DebugEcho, link, token, challenge.Code),
	}, nil
}

// discardPending removes an account whose verification message could not be
// delivered. An account that was verified in the meantime is left alone.
func (u *AccountUseCase) discardPending(ctx context.Context, account *entity.Account) {
	// the caller may already be gone; the cleanup still has to run
	ctx = context.WithoutCancel(ctx)

	err := u.uow.RunAtomic(ctx, func(txCtx context.Context) error {
		accounts := u.uow.GetAccountRepository(txCtx)
		locked, err := accounts.LockByIDs(txCtx, account.ID)
		if err != nil {
			return err
		}
		current := locked[account.ID]
		if current == nil || !current.IsPending() {
			return nil
		}
		if err := u.uow.GetVerificationRepository(txCtx).DeleteByAccount(txCtx, account.ID); err != nil {
			return err
		}
		return accounts.Delete(txCtx, account.ID)
	})
	if err != nil {
		u.logger.Error("Failed to remove undeliverable registration", map[string]any{
			"account_id": account.ID.String(),
			"email":      account.Email,
			"error":      err.Error(),
		})
	}
}

// verificationLink appends the token and code to the configured base URL
func (u *AccountUseCase) verificationLink(token, code string) (string, error) {
	base, err := url.Parse(u.cfg.VerifyBaseURL)
	if err != nil {
		return "", fmt.Errorf("parse verification base URL: %w", err)
	}

	query := base.Query()
	query.Set("token", token)
	query.Set("pin", code)
	base.RawQuery = query.Encode()
	return base.String(), nil
}
