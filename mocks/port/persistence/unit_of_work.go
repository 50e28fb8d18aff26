package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/persistence"
)

// MockUnitOfWork is a testify mock of persistence.UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

// NewMockUnitOfWork creates a mock whose expectations are asserted on cleanup
func NewMockUnitOfWork(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUnitOfWork {
	m := &MockUnitOfWork{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// RunAtomic records the call and, unless the expectation returns an error,
// runs fn with the same context and returns its result.
func (m *MockUnitOfWork) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

func (m *MockUnitOfWork) GetAccountRepository(ctx context.Context) persistence.AccountRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.AccountRepository)
}

func (m *MockUnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.TransactionRepository)
}

func (m *MockUnitOfWork) GetVerificationRepository(ctx context.Context) persistence.VerificationRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.VerificationRepository)
}
