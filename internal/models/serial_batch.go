package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SerialBatch records one generation run.
type SerialBatch struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // UUID primary key.

	Count       int    `gorm:"not null"`                      // Number of serial numbers generated.
	PrizedCount int    `gorm:"not null;default:0"`            // How many of them received a prize.
	CreatedBy   string `gorm:"type:text;not null;default:''"` // Admin username that ran the generation.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (b *SerialBatch) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
