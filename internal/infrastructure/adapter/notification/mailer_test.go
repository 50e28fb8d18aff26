package notification

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/notification"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/logger"
)

func TestSMTPMailerBuildsVerificationMessage(t *testing.T) {
	mailer := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 1025, From: "bank@example.com"}, logger.NewNoopLogger())

	msg, err := mailer.buildVerification("alice@example.com", notification.VerificationMessage{
		Link:      "http://localhost:5000/bank_app/api/v1/auth?pin=123456&token=abc",
		Code:      "123456",
		ExpiresIn: 5 * time.Minute,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "alice@example.com")
	assert.Contains(t, raw, "Verify your bank account")
	assert.Contains(t, raw, "123456")
	assert.Contains(t, raw, "valid for 5 minutes")
}

func TestSMTPMailerRejectsInvalidRecipient(t *testing.T) {
	mailer := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 1025, From: "bank@example.com"}, logger.NewNoopLogger())

	_, err := mailer.buildVerification("not an address", notification.VerificationMessage{})
	assert.Error(t, err)
}

func TestSMTPMailerClientOptions(t *testing.T) {
	anonymous := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25}, logger.NewNoopLogger())
	assert.Len(t, anonymous.clientOptions(), 2)

	authenticated := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p", UseTLS: true, Timeout: time.Second}, logger.NewNoopLogger())
	assert.Len(t, authenticated.clientOptions(), 6)
}

func TestLogMailerNeverFails(t *testing.T) {
	mailer := NewLogMailer(logger.NewNoopLogger())
	err := mailer.SendVerification(context.Background(), "alice@example.com", notification.VerificationMessage{Link: "http://x", ExpiresIn: time.Minute})
	assert.NoError(t, err)
}
