package notification

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/notification"
)

// MockMailer is a testify mock of notification.Mailer
type MockMailer struct {
	mock.Mock
}

// NewMockMailer creates a mock whose expectations are asserted on cleanup
func NewMockMailer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMailer {
	m := &MockMailer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockMailer) SendVerification(ctx context.Context, address string, msg notification.VerificationMessage) error {
	args := m.Called(ctx, address, msg)
	return args.Error(0)
}
