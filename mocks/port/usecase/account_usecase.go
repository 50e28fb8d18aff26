package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

// MockAccountUseCase is a testify mock of usecase.AccountUseCase
type MockAccountUseCase struct {
	mock.Mock
}

// NewMockAccountUseCase creates a mock whose expectations are asserted on cleanup
func NewMockAccountUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAccountUseCase {
	m := &MockAccountUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAccountUseCase) Register(ctx context.Context, req usecase.RegisterRequest) (*usecase.RegisterResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RegisterResult), args.Error(1)
}

func (m *MockAccountUseCase) Verify(ctx context.Context, token, code string) (*usecase.VerifyResult, error) {
	args := m.Called(ctx, token, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.VerifyResult), args.Error(1)
}

func (m *MockAccountUseCase) Authenticate(ctx context.Context, email, password string) (*usecase.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Session), args.Error(1)
}

func (m *MockAccountUseCase) ResolveSession(ctx context.Context, token string) (*usecase.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Principal), args.Error(1)
}

func (m *MockAccountUseCase) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
