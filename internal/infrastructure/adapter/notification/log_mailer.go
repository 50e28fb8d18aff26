package notification

import (
	"context"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/notification"
)

// LogMailer writes verification messages to the log instead of sending them.
// It is used when no SMTP host is configured.
type LogMailer struct {
	logger coreport.Logger
}

var _ notification.Mailer = (*LogMailer)(nil)

// NewLogMailer creates a mailer that only logs
func NewLogMailer(logger coreport.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendVerification logs the verification link
func (m *LogMailer) SendVerification(_ context.Context, address string, msg notification.VerificationMessage) error {
	m.logger.Info("Verification email (not sent, no SMTP host configured)", map[string]any{
		"to":         address,
		"link":       msg.Link,
		"expires_in": msg.ExpiresIn.String(),
	})
	return nil
}
