package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/persistence"
)

// AccountRepository implements persistence.AccountRepository in memory
type AccountRepository struct {
	store *Store
}

var _ persistence.AccountRepository = (*AccountRepository)(nil)

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	account, ok := r.store.view(ctx).accounts[id]
	if !ok {
		return nil, errs.ErrAccountNotFound
	}
	return account.Clone(), nil
}

// GetByEmail retrieves an account by its normalized email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	st := r.store.view(ctx)
	id, ok := st.byEmail[email]
	if !ok {
		return nil, errs.ErrAccountNotFound
	}
	return st.accounts[id].Clone(), nil
}

// LockByIDs returns fresh copies of the accounts. Inside a unit of work the
// writer slot is already held, so no further locking is needed.
func (r *AccountRepository) LockByIDs(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*entity.Account, error) {
	st := r.store.view(ctx)
	result := make(map[uuid.UUID]*entity.Account, len(ids))
	for _, id := range ids {
		if account, ok := st.accounts[id]; ok {
			result[id] = account.Clone()
		}
	}
	return result, nil
}

// Create stores a new account
func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	return r.store.update(ctx, func(st *state) error {
		if _, taken := st.byEmail[account.Email]; taken {
			return errs.ErrAccountExists
		}
		if _, taken := st.accounts[account.ID]; taken {
			return errs.ErrAccountExists
		}
		st.accounts[account.ID] = account.Clone()
		st.byEmail[account.Email] = account.ID
		return nil
	})
}

// Update persists the status and balance of an existing account
func (r *AccountRepository) Update(ctx context.Context, account *entity.Account) error {
	return r.store.update(ctx, func(st *state) error {
		if _, ok := st.accounts[account.ID]; !ok {
			return errs.ErrAccountNotFound
		}
		if account.Balance().IsNegative() {
			return errs.ErrConstraintViolation
		}
		st.accounts[account.ID] = account.Clone()
		return nil
	})
}

// GetEmails resolves account IDs to emails
func (r *AccountRepository) GetEmails(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	st := r.store.view(ctx)
	emails := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if account, ok := st.accounts[id]; ok {
			emails[id] = account.Email
		}
	}
	return emails, nil
}

// List returns every account ordered by creation time
func (r *AccountRepository) List(ctx context.Context) ([]*entity.Account, error) {
	st := r.store.view(ctx)
	accounts := make([]*entity.Account, 0, len(st.accounts))
	for _, account := range st.accounts {
		accounts = append(accounts, account.Clone())
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID.String() < accounts[j].ID.String()
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

// Delete removes one account
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.update(ctx, func(st *state) error {
		if account, ok := st.accounts[id]; ok {
			delete(st.byEmail, account.Email)
			delete(st.accounts, id)
		}
		return nil
	})
}

// DeleteAll removes every account
func (r *AccountRepository) DeleteAll(ctx context.Context) error {
	return r.store.update(ctx, func(st *state) error {
		st.accounts = make(map[uuid.UUID]*entity.Account)
		st.byEmail = make(map[string]uuid.UUID)
		return nil
	})
}
