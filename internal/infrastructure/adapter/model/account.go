package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents the database model for accounts
type Account struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Email        string          `gorm:"uniqueIndex;not null;size:320"`
	PasswordHash string          `gorm:"not null;size:255"`
	PhoneNumber  string          `gorm:"not null;size:50"`
	Status       string          `gorm:"not null;size:20;index"`
	Balance      decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
