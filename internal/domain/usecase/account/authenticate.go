package account

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/security"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

// Authenticate exchanges the credentials of an active account for a session token
func (u *AccountUseCase) Authenticate(ctx context.Context, email, password string) (*usecase.Session, error) {
	email = entity.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, errs.ErrMissingCredentials
	}

	account, err := u.uow.GetAccountRepository(ctx).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrAccountNotFound) {
			u.hasher.Compare(security.BindSecret(password, email), u.dummyHash())
			return nil, errs.ErrUnknownEmail
		}
		return nil, err
	}

	switch {
	case account.IsPending():
		return nil, errs.ErrAccountNotVerified
	case !account.IsActive():
		return nil, errs.ErrAccountNotActive
	}

	if !u.hasher.Compare(security.BindSecret(password, email), account.PasswordHash) {
		u.logger.Warn("Rejected login with wrong password", map[string]any{
			"account_id": account.ID.String(),
		})
		return nil, errs.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(security.Claims{
		AccountID: account.ID,
		Email:     account.Email,
		Purpose:   security.PurposeSession,
	}, u.cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	u.logger.Info("Session issued", map[string]any{
		"account_id": account.ID.String(),
	})
	return &usecase.Session{Token: token, Account: account.View()}, nil
}

// ResolveSession validates a session token and returns the account it names.
// No server-side state is consulted: a session stays valid until it expires.
func (u *AccountUseCase) ResolveSession(_ context.Context, token string) (*usecase.Principal, error) {
	if token == "" {
		return nil, errs.ErrSessionInvalid
	}

	claims, err := u.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, errs.ErrTokenExpired) {
			return nil, errs.ErrSessionExpired
		}
		return nil, errs.ErrSessionInvalid
	}
	if claims.Purpose != security.PurposeSession {
		return nil, errs.ErrSessionInvalid
	}

	return &usecase.Principal{AccountID: claims.AccountID, Email: claims.Email}, nil
}
