package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/persistence"
)

// TransactionRepository implements persistence.TransactionRepository in memory
type TransactionRepository struct {
	store *Store
}

var _ persistence.TransactionRepository = (*TransactionRepository)(nil)

// Create appends a ledger entry
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return r.store.update(ctx, func(st *state) error {
		if _, ok := st.accounts[transaction.AccountID]; !ok {
			return errs.ErrConstraintViolation
		}
		cp := *transaction
		st.entries = append(st.entries, &cp)
		return nil
	})
}

// ListByAccount returns one page of an account's entries, newest first
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*entity.Transaction, error) {
	owned := r.owned(ctx, accountID)
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID.String() > owned[j].ID.String()
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	if offset >= len(owned) {
		return []*entity.Transaction{}, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], nil
}

// CountByAccount returns the number of entries owned by an account
func (r *TransactionRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	return int64(len(r.owned(ctx, accountID))), nil
}

// List returns every ledger entry, oldest first
func (r *TransactionRepository) List(ctx context.Context) ([]*entity.Transaction, error) {
	entries := r.store.view(ctx).entries
	result := make([]*entity.Transaction, len(entries))
	for i, entry := range entries {
		cp := *entry
		result[i] = &cp
	}
	return result, nil
}

// DeleteAll removes every ledger entry
func (r *TransactionRepository) DeleteAll(ctx context.Context) error {
	return r.store.update(ctx, func(st *state) error {
		st.entries = nil
		return nil
	})
}

func (r *TransactionRepository) owned(ctx context.Context, accountID uuid.UUID) []*entity.Transaction {
	var owned []*entity.Transaction
	for _, entry := range r.store.view(ctx).entries {
		if entry.AccountID == accountID {
			cp := *entry
			owned = append(owned, &cp)
		}
	}
	return owned
}
