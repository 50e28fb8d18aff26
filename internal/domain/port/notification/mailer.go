package notification

import (
	"context"
	"time"
)

// VerificationMessage is the content of a verification email
type VerificationMessage struct {
	Link      string
	Code      string
	ExpiresIn time.Duration
}

// Mailer hands outbound email to a transport
type Mailer interface {
	// SendVerification delivers a verification message to address. A nil error
	// means the transport accepted the message.
	SendVerification(ctx context.Context, address string, msg VerificationMessage) error
}
