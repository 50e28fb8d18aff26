package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/persistence"
)

// VerificationRepository implements persistence.VerificationRepository in memory
type VerificationRepository struct {
	store *Store
}

var _ persistence.VerificationRepository = (*VerificationRepository)(nil)

// Create stores a new challenge
func (r *VerificationRepository) Create(ctx context.Context, challenge *entity.VerificationChallenge) error {
	return r.store.update(ctx, func(st *state) error {
		if _, ok := st.accounts[challenge.AccountID]; !ok {
			return errs.ErrConstraintViolation
		}
		cp := *challenge
		st.challenges[challenge.ID] = &cp
		return nil
	})
}

// FindValid returns a live challenge for the account and code
func (r *VerificationRepository) FindValid(ctx context.Context, accountID uuid.UUID, code string, notBefore time.Time) (*entity.VerificationChallenge, error) {
	for _, challenge := range r.store.view(ctx).challenges {
		if challenge.AccountID == accountID && challenge.Code == code && !challenge.CreatedAt.Before(notBefore) {
			cp := *challenge
			return &cp, nil
		}
	}
	return nil, errs.ErrVerificationNotFound
}

// DeleteByAccount removes every challenge of an account
func (r *VerificationRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	return r.store.update(ctx, func(st *state) error {
		for id, challenge := range st.challenges {
			if challenge.AccountID == accountID {
				delete(st.challenges, id)
			}
		}
		return nil
	})
}

// PurgeExpired removes challenges created before the given instant
func (r *VerificationRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	var removed int64
	err := r.store.update(ctx, func(st *state) error {
		for id, challenge := range st.challenges {
			if challenge.CreatedAt.Before(before) {
				delete(st.challenges, id)
				removed++
			}
		}
		return nil
	})
	return removed, err
}

// DeleteAll removes every challenge
func (r *VerificationRepository) DeleteAll(ctx context.Context) error {
	return r.store.update(ctx, func(st *state) error {
		st.challenges = make(map[uuid.UUID]*entity.VerificationChallenge)
		return nil
	})
}
