package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/logger"
)

var accountColumns = []string{"id", "email", "password_hash", "phone_number", "status", "balance", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return db, mock
}

func newAccountRepo(t *testing.T) (*AccountRepository, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewAccountRepository(db, logger.NewNoopLogger(), NoRetry()), mock
}

func TestAccountRepository_GetByID(t *testing.T) {
	repo, mock := newAccountRepo(t)
	id := uuid.New()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(id.String(), "alice@example.com", "hash", "555", "active", "500.00", now, now))

	account, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)
	assert.Equal(t, "alice@example.com", account.Email)
	assert.Equal(t, entity.StatusActive, account.Status)
	assert.Equal(t, "500.00", account.GetBalance())
}

func TestAccountRepository_GetByEmailNotFound(t *testing.T) {
	repo, mock := newAccountRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
}

func TestAccountRepository_CreateDuplicateEmail(t *testing.T) {
	repo, mock := newAccountRepo(t)

	mock.ExpectExec(`INSERT INTO "accounts"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	account := entity.RestoreAccount(uuid.New(), "alice@example.com", "hash", "555",
		entity.StatusPending, decimal.NewFromInt(500), time.Now(), time.Now())
	err := repo.Create(context.Background(), account)
	assert.ErrorIs(t, err, errs.ErrAccountExists)
}

func TestAccountRepository_Create(t *testing.T) {
	repo, mock := newAccountRepo(t)

	mock.ExpectExec(`INSERT INTO "accounts"`).WillReturnResult(sqlmock.NewResult(0, 1))

	account := entity.RestoreAccount(uuid.New(), "alice@example.com", "hash", "555",
		entity.StatusPending, decimal.NewFromInt(500), time.Now(), time.Now())
	assert.NoError(t, repo.Create(context.Background(), account))
}

func TestAccountRepository_Update(t *testing.T) {
	account := entity.RestoreAccount(uuid.New(), "alice@example.com", "hash", "555",
		entity.StatusActive, decimal.NewFromInt(400), time.Now(), time.Now())

	t.Run("updated", func(t *testing.T) {
		repo, mock := newAccountRepo(t)
		mock.ExpectExec(`UPDATE "accounts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Update(context.Background(), account))
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newAccountRepo(t)
		mock.ExpectExec(`UPDATE "accounts" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Update(context.Background(), account), errs.ErrAccountNotFound)
	})

	t.Run("negative balance rejected by check constraint", func(t *testing.T) {
		repo, mock := newAccountRepo(t)
		mock.ExpectExec(`UPDATE "accounts" SET`).
			WillReturnError(&pgconn.PgError{Code: "23514", Message: "violates check constraint"})
		err := repo.Update(context.Background(), account)
		assert.ErrorIs(t, err, errs.ErrConstraintViolation)
		assert.ErrorIs(t, err, errs.ErrStorage)
	})

	t.Run("serialization failure", func(t *testing.T) {
		repo, mock := newAccountRepo(t)
		mock.ExpectExec(`UPDATE "accounts" SET`).
			WillReturnError(&pgconn.PgError{Code: "40001", Message: "could not serialize access"})
		assert.ErrorIs(t, repo.Update(context.Background(), account), errs.ErrConcurrentUpdate)
	})
}

func TestAccountRepository_LockByIDs(t *testing.T) {
	repo, mock := newAccountRepo(t)
	a, b := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id IN \(\$1,\$2\) ORDER BY id FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(a.String(), "a@example.com", "h", "1", "active", "10.00", now, now).
			AddRow(b.String(), "b@example.com", "h", "2", "active", "20.00", now, now))

	locked, err := repo.LockByIDs(context.Background(), a, b)
	require.NoError(t, err)
	require.Len(t, locked, 2)
	assert.Equal(t, "10.00", locked[a].GetBalance())
	assert.Equal(t, "20.00", locked[b].GetBalance())
}

func TestAccountRepository_LockByIDsEmpty(t *testing.T) {
	repo, _ := newAccountRepo(t)

	locked, err := repo.LockByIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, locked)
}

func TestAccountRepository_GetEmails(t *testing.T) {
	repo, mock := newAccountRepo(t)
	a := uuid.New()

	mock.ExpectQuery(`SELECT "id","email" FROM "accounts" WHERE id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(a.String(), "a@example.com"))

	emails, err := repo.GetEmails(context.Background(), []uuid.UUID{a, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{a: "a@example.com"}, emails)
}

func TestAccountRepository_StorageFailure(t *testing.T) {
	repo, mock := newAccountRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "accounts"`).WillReturnError(errors.New("disk on fire"))

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, errs.ErrStorage)
	assert.True(t, errs.IsStorageError(err))
}

func TestAccountRepository_DeleteAll(t *testing.T) {
	repo, mock := newAccountRepo(t)

	mock.ExpectExec(`DELETE FROM "accounts"`).WillReturnResult(sqlmock.NewResult(0, 3))
	assert.NoError(t, repo.DeleteAll(context.Background()))
}

func TestAccountRepository_Delete(t *testing.T) {
	repo, mock := newAccountRepo(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM "accounts" WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), id))
}
