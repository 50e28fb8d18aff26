package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

// MockDashboardUseCase is a testify mock of usecase.DashboardUseCase
type MockDashboardUseCase struct {
	mock.Mock
}

// NewMockDashboardUseCase creates a mock whose expectations are asserted on cleanup
func NewMockDashboardUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDashboardUseCase {
	m := &MockDashboardUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockDashboardUseCase) GetDashboard(ctx context.Context, accountID uuid.UUID, page entity.PageRequest) (*usecase.Dashboard, error) {
	args := m.Called(ctx, accountID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Dashboard), args.Error(1)
}

func (m *MockDashboardUseCase) AuditLedger(ctx context.Context) (*usecase.LedgerAudit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LedgerAudit), args.Error(1)
}
