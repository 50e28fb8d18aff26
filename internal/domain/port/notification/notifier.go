package notification

import "github.com/google/uuid"

// EventMoneyReceived is pushed to a recipient after a committed transfer
const EventMoneyReceived = "money-received"

// MoneyReceived is the payload of EventMoneyReceived
type MoneyReceived struct {
	From   string `json:"from"`
	Amount string `json:"amount"`
}

// Notifier pushes events to the live sessions of an account. Delivery is best
// effort and an account without live sessions is not an error.
type Notifier interface {
	Notify(accountID uuid.UUID, event string, payload any) error
}

// PresenceRegistry maps accounts to their live connections
type PresenceRegistry interface {
	Register(accountID uuid.UUID, connID string)
	Unregister(connID string)
	Connections(accountID uuid.UUID) []string
}
