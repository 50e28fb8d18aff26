package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction represents the database model for ledger entries
type Transaction struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransferID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Direction      string          `gorm:"not null;size:20"`
	Amount         decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Description    string          `gorm:"not null;size:400"`
	CounterpartyID *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt      time.Time       `gorm:"not null"`

	// Define relationships
	Account Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
