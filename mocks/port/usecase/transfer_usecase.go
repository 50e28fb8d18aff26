package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
)

// MockTransferUseCase is a testify mock of usecase.TransferUseCase
type MockTransferUseCase struct {
	mock.Mock
}

// NewMockTransferUseCase creates a mock whose expectations are asserted on cleanup
func NewMockTransferUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTransferUseCase {
	m := &MockTransferUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTransferUseCase) TransferFunds(ctx context.Context, senderID uuid.UUID, req usecase.TransferRequest) (*usecase.TransferResult, error) {
	args := m.Called(ctx, senderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.TransferResult), args.Error(1)
}
