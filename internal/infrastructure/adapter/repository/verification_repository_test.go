package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/logger"
)

func newVerificationRepo(t *testing.T) (*VerificationRepository, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewVerificationRepository(db, logger.NewNoopLogger(), NoRetry()), mock
}

func TestVerificationRepository_Create(t *testing.T) {
	repo, mock := newVerificationRepo(t)

	mock.ExpectExec(`INSERT INTO "verification_challenges"`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &entity.VerificationChallenge{
		ID:        uuid.New(),
		AccountID: uuid.New(),
		Code:      "123456",
		CreatedAt: time.Now(),
	})
	assert.NoError(t, err)
}

func TestVerificationRepository_FindValid(t *testing.T) {
	accountID := uuid.New()
	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	query := `SELECT \* FROM "verification_challenges" WHERE account_id = \$1 AND code = \$2 AND created_at >= \$3 ORDER BY created_at DESC`

	t.Run("live challenge", func(t *testing.T) {
		repo, mock := newVerificationRepo(t)
		challengeID := uuid.New()
		mock.ExpectQuery(query).
			WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "code", "created_at"}).
				AddRow(challengeID.String(), accountID.String(), "123456", created))

		challenge, err := repo.FindValid(context.Background(), accountID, "123456", created.Add(-5*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, challengeID, challenge.ID)
		assert.Equal(t, "123456", challenge.Code)
	})

	t.Run("no match", func(t *testing.T) {
		repo, mock := newVerificationRepo(t)
		mock.ExpectQuery(query).
			WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "code", "created_at"}))

		_, err := repo.FindValid(context.Background(), accountID, "000000", created)
		assert.ErrorIs(t, err, errs.ErrVerificationNotFound)
	})
}

func TestVerificationRepository_PurgeExpired(t *testing.T) {
	repo, mock := newVerificationRepo(t)

	mock.ExpectExec(`DELETE FROM "verification_challenges" WHERE created_at < \$1`).
		WillReturnResult(sqlmock.NewResult(0, 7))

	removed, err := repo.PurgeExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(7), removed)
}

func TestVerificationRepository_DeleteByAccount(t *testing.T) {
	repo, mock := newVerificationRepo(t)

	mock.ExpectExec(`DELETE FROM "verification_challenges" WHERE account_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DeleteByAccount(context.Background(), uuid.New()))
}
