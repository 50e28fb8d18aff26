package model

import (
	"time"

	"github.com/google/uuid"
)

// VerificationChallenge represents the database model for pending verification codes
type VerificationChallenge struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;index"`
	Code      string    `gorm:"not null;size:6"`
	CreatedAt time.Time `gorm:"not null;index"`

	Account Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for VerificationChallenge
func (VerificationChallenge) TableName() string {
	return "verification_challenges"
}
