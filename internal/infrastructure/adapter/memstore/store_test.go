package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/time"
)

var errAbort = errors.New("abort")

func newAccount(email string, balance int64, created time.Time) *entity.Account {
	return entity.RestoreAccount(uuid.New(), email, "hash", "555", entity.StatusActive,
		decimal.NewFromInt(balance), created, created)
}

func newUnitOfWork() *UnitOfWork {
	return NewUnitOfWork(NewStore(), logger.NewNoopLogger())
}

func TestAccountRepository_CreateAndGet(t *testing.T) {
	uow := newUnitOfWork()
	ctx := context.Background()
	repo := uow.GetAccountRepository(ctx)

	alice := newAccount("alice@example.com", 500, time.Now())
	require.NoError(t, repo.Create(ctx, alice))

	byID, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)

	dup := newAccount("alice@example.com", 1, time.Now())
	assert.ErrorIs(t, repo.Create(ctx, dup), errs.ErrAccountExists)
}

func TestAccountRepository_Delete(t *testing.T) {
	uow := newUnitOfWork()
	ctx := context.Background()
	repo := uow.GetAccountRepository(ctx)

	alice := newAccount("alice@example.com", 500, time.Now())
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Delete(ctx, alice.ID))

	_, err := repo.GetByID(ctx, alice.ID)
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	_, err = repo.GetByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)

	// deleting again is a no-op and the email is free
	assert.NoError(t, repo.Delete(ctx, alice.ID))
	assert.NoError(t, repo.Create(ctx, newAccount("alice@example.com", 1, time.Now())))
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	uow := newUnitOfWork()
	ctx := context.Background()
	repo := uow.GetAccountRepository(ctx)

	alice := newAccount("alice@example.com", 500, time.Now())
	require.NoError(t, repo.Create(ctx, alice))

	loaded, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	loaded.Status = entity.StatusBlocked

	again, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, again.Status)
}

func TestAccountRepository_UpdateRejectsNegativeBalance(t *testing.T) {
	uow := newUnitOfWork()
	ctx := context.Background()
	repo := uow.GetAccountRepository(ctx)

	alice := newAccount("alice@example.com", 0, time.Now())
	require.NoError(t, repo.Create(ctx, alice))

	negative := entity.RestoreAccount(alice.ID, alice.Email, "hash", "555", entity.StatusActive,
		decimal.NewFromInt(-1), alice.CreatedAt, alice.UpdatedAt)
	err := repo.Update(ctx, negative)
	assert.ErrorIs(t, err, errs.ErrConstraintViolation)

	missing := newAccount("ghost@example.com", 1, time.Now())
	assert.ErrorIs(t, repo.Update(ctx, missing), errs.ErrAccountNotFound)
}

func TestUnitOfWork_CommitPublishesAllWrites(t *testing.T) {
	uow := newUnitOfWork()
	ctx := context.Background()
	alice := newAccount("alice@example.com", 500, time.Now())

	err := uow.RunAtomic(ctx, func(txCtx context.Context) error {
		if err := uow.GetAccountRepository(txCtx).Create(txCtx, alice); err != nil {
			return err
		}

		// invisible outside the unit of work until commit
		_, err := uow.GetAccountRepository(ctx).GetByID(ctx, alice.ID)
		assert.ErrorIs(t, err, errs.ErrAccountNotFound)

		return uow.GetVerificationRepository(txCtx).Create(txCtx, &entity.VerificationChallenge{
			ID: uuid.New(), AccountID: alice.ID, Code: "123456", CreatedAt: time.Now(),
		})
	})
	require.NoError(t, err)

	_, err = uow.GetAccountRepository(ctx).GetByID(ctx, alice.ID)
	assert.NoError(t, err)
	_, err = uow.GetVerificationRepository(ctx).FindValid(ctx, alice.ID, "123456", time.Now().Add(-time.Minute))
	assert.NoError(t, err)
}

func TestUnitOfWork_RollbackDiscardsAllWrites(t *testing.T) {
	uow := newUnitOfWork()
	ctx := context.Background()
	alice := newAccount("alice@example.com", 500, time.Now())

	err := uow.RunAtomic(ctx, func(txCtx context.Context) error {
		require.NoError(t, uow.GetAccountRepository(txCtx).Create(txCtx, alice))
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	_, err = uow.GetAccountRepository(ctx).GetByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)

	// the writer slot was released
	require.NoError(t, uow.GetAccountRepository(ctx).Create(ctx, alice))
}

func TestUnitOfWork_RollbackOnPanic(t *testing.T) {
	uow := newUnitOfWork()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = uow.RunAtomic(ctx, func(txCtx context.Context) error {
			_ = uow.GetAccountRepository(txCtx).Create(txCtx, newAccount("a@example.com", 1, time.Now()))
			panic("boom")
		})
	})

	accounts, err := uow.GetAccountRepository(ctx).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
	assert.NoError(t, uow.RunAtomic(ctx, func(context.Context) error { return nil }))
}

func TestUnitOfWork_BeginHonoursContext(t *testing.T) {
	uow := newUnitOfWork()
	txCtx, err := uow.Begin(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = uow.Begin(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, uow.Rollback(txCtx))
	assert.NoError(t, uow.Rollback(txCtx))
	assert.Error(t, uow.Commit(txCtx))
}

func TestUnitOfWork_NestedBeginRejected(t *testing.T) {
	uow := newUnitOfWork()
	txCtx, err := uow.Begin(context.Background())
	require.NoError(t, err)
	defer func() { _ = uow.Rollback(txCtx) }()

	_, err = uow.Begin(txCtx)
	assert.Error(t, err)
}

func TestUnitOfWork_ConcurrentIncrementsAreSerialized(t *testing.T) {
	uow := newUnitOfWork()
	ctx := context.Background()
	alice := newAccount("alice@example.com", 0, time.Now())
	require.NoError(t, uow.GetAccountRepository(ctx).Create(ctx, alice))

	clock := timeprovider.NewManualTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			err := uow.RunAtomic(ctx, func(txCtx context.Context) error {
				repo := uow.GetAccountRepository(txCtx)
				locked, err := repo.LockByIDs(txCtx, alice.ID)
				if err != nil {
					return err
				}
				account := locked[alice.ID]
				if err := account.Credit(decimal.NewFromInt(1), clock); err != nil {
					return err
				}
				return repo.Update(txCtx, account)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := uow.GetAccountRepository(ctx).GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", final.GetBalance())
}

func TestTransactionRepository_ListByAccountOrdering(t *testing.T) {
	uow := newUnitOfWork()
	ctx := context.Background()
	owner := newAccount("owner@example.com", 0, time.Now())
	require.NoError(t, uow.GetAccountRepository(ctx).Create(ctx, owner))

	ledger := uow.GetTransactionRepository(ctx)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, ledger.Create(ctx, &entity.Transaction{
			ID:        uuid.New(),
			AccountID: owner.ID,
			Direction: entity.DirectionTransferIn,
			Amount:    decimal.NewFromInt(int64(i + 1)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, err := ledger.ListByAccount(ctx, owner.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "5.00", page[0].GetAmount())
	assert.Equal(t, "4.00", page[1].GetAmount())

	last, err := ledger.ListByAccount(ctx, owner.ID, 4, 2)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "1.00", last[0].GetAmount())

	beyond, err := ledger.ListByAccount(ctx, owner.ID, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond)

	count, err := ledger.CountByAccount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	err = ledger.Create(ctx, &entity.Transaction{ID: uuid.New(), AccountID: uuid.New(), Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, errs.ErrConstraintViolation)
}

func TestVerificationRepository_Expiry(t *testing.T) {
	uow := newUnitOfWork()
	ctx := context.Background()
	owner := newAccount("owner@example.com", 0, time.Now())
	require.NoError(t, uow.GetAccountRepository(ctx).Create(ctx, owner))

	repo := uow.GetVerificationRepository(ctx)
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &entity.VerificationChallenge{
		ID: uuid.New(), AccountID: owner.ID, Code: "111111", CreatedAt: created,
	}))

	_, err := repo.FindValid(ctx, owner.ID, "111111", created.Add(-time.Minute))
	assert.NoError(t, err)
	_, err = repo.FindValid(ctx, owner.ID, "222222", created.Add(-time.Minute))
	assert.ErrorIs(t, err, errs.ErrVerificationNotFound)
	_, err = repo.FindValid(ctx, owner.ID, "111111", created.Add(time.Second))
	assert.ErrorIs(t, err, errs.ErrVerificationNotFound)

	removed, err := repo.PurgeExpired(ctx, created.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	err = repo.Create(ctx, &entity.VerificationChallenge{ID: uuid.New(), AccountID: uuid.New(), Code: "1"})
	assert.ErrorIs(t, err, errs.ErrConstraintViolation)
}
