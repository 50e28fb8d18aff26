package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/logger"
)

var transactionColumns = []string{"id", "transfer_id", "account_id", "direction", "amount", "description", "counterparty_id", "created_at"}

func newTransactionRepo(t *testing.T) (*TransactionRepository, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewTransactionRepository(db, logger.NewNoopLogger(), NoRetry()), mock
}

func TestTransactionRepository_Create(t *testing.T) {
	repo, mock := newTransactionRepo(t)
	counterparty := uuid.New()

	mock.ExpectExec(`INSERT INTO "transactions"`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &entity.Transaction{
		ID:             uuid.New(),
		TransferID:     uuid.New(),
		AccountID:      uuid.New(),
		Direction:      entity.DirectionTransferOut,
		Amount:         entity.MustParseAmount("-12.50"),
		Description:    "Transfer to bob@example.com",
		CounterpartyID: &counterparty,
		CreatedAt:      time.Now(),
	})
	assert.NoError(t, err)
}

func TestTransactionRepository_CreateUnknownAccount(t *testing.T) {
	repo, mock := newTransactionRepo(t)

	mock.ExpectExec(`INSERT INTO "transactions"`).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})

	err := repo.Create(context.Background(), &entity.Transaction{
		ID:        uuid.New(),
		AccountID: uuid.New(),
		Direction: entity.DirectionTransferIn,
		Amount:    entity.MustParseAmount("1"),
		CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, errs.ErrConstraintViolation)
}

func TestTransactionRepository_ListByAccount(t *testing.T) {
	repo, mock := newTransactionRepo(t)
	accountID := uuid.New()
	counterparty := uuid.New()
	newer := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE account_id = \$1 ORDER BY created_at DESC,id DESC`).
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(uuid.NewString(), uuid.NewString(), accountID.String(), "TRANSFER_IN", "5.00", "Transfer from x", counterparty.String(), newer).
			AddRow(uuid.NewString(), uuid.NewString(), accountID.String(), "TRANSFER_OUT", "7.25", "Transfer to y", nil, older))

	page, err := repo.ListByAccount(context.Background(), accountID, 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].IsCredit())
	assert.Equal(t, "5.00", page[0].GetAmount())
	require.NotNil(t, page[0].CounterpartyID)
	assert.Equal(t, counterparty, *page[0].CounterpartyID)
	assert.True(t, page[1].IsDebit())
	assert.Nil(t, page[1].CounterpartyID)
}

func TestTransactionRepository_CountByAccount(t *testing.T) {
	repo, mock := newTransactionRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "transactions" WHERE account_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(13))

	count, err := repo.CountByAccount(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(13), count)
}

func TestTransactionRepository_DeleteAll(t *testing.T) {
	repo, mock := newTransactionRepo(t)

	mock.ExpectExec(`DELETE FROM "transactions"`).WillReturnResult(sqlmock.NewResult(0, 4))
	assert.NoError(t, repo.DeleteAll(context.Background()))
}
