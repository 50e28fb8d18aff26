package notification

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockNotifier is a testify mock of notification.Notifier
type MockNotifier struct {
	mock.Mock
}

// NewMockNotifier creates a mock whose expectations are asserted on cleanup
func NewMockNotifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotifier {
	m := &MockNotifier{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNotifier) Notify(accountID uuid.UUID, event string, payload any) error {
	args := m.Called(accountID, event, payload)
	return args.Error(0)
}
