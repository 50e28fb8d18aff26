package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
)

// MockVerificationRepository is a testify mock of persistence.VerificationRepository
type MockVerificationRepository struct {
	mock.Mock
}

// NewMockVerificationRepository creates a mock whose expectations are asserted on cleanup
func NewMockVerificationRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockVerificationRepository {
	m := &MockVerificationRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockVerificationRepository) Create(ctx context.Context, challenge *entity.VerificationChallenge) error {
	args := m.Called(ctx, challenge)
	return args.Error(0)
}

func (m *MockVerificationRepository) FindValid(ctx context.Context, accountID uuid.UUID, code string, notBefore time.Time) (*entity.VerificationChallenge, error) {
	args := m.Called(ctx, accountID, code, notBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VerificationChallenge), args.Error(1)
}

func (m *MockVerificationRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockVerificationRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVerificationRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
