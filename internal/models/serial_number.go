package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SerialNumber is a printed redemption code, optionally bound to a prize.
type SerialNumber struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // UUID primary key.

	SerialNumber string `gorm:"type:varchar(32);not null;uniqueIndex"` // 10-character redemption code.

	PrizeID *string `gorm:"type:varchar(36);index"`                          // Bound prize, if any.
	Prize   *Prize  `gorm:"foreignKey:PrizeID;constraint:OnDelete:SET NULL"` // Bound prize record.

	BatchID *string      `gorm:"type:varchar(36);index"`                          // Generation batch, if any.
	Batch   *SerialBatch `gorm:"foreignKey:BatchID;constraint:OnDelete:SET NULL"` // Generation batch record.

	Claimed       bool   `gorm:"not null;default:false;index"` // Set together with the customer fields.
	CustomerName  string `gorm:"type:text;not null;default:''"`
	CustomerPhone string `gorm:"type:text;not null;default:''"`

	GeneratedDate time.Time  `gorm:"not null"` // When the code was generated.
	RedeemDate    *time.Time                   // When the code was redeemed, if ever.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (s *SerialNumber) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Redeemed reports whether a customer has attached their identity to the code.
func (s *SerialNumber) Redeemed() bool {
	return s.Claimed || s.CustomerName != ""
}
