package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrizeTier categorises a prize for eligibility and display.
type PrizeTier string

const (
	PrizeTierSmall  PrizeTier = "small"
	PrizeTierMedium PrizeTier = "medium"
	PrizeTierBig    PrizeTier = "big"
)

// Valid reports whether the tier is one of the known values.
func (t PrizeTier) Valid() bool {
	switch t {
	case PrizeTierSmall, PrizeTierMedium, PrizeTierBig:
		return true
	default:
		return false
	}
}

// Prize is a stocked prize that serial numbers can be bound to.
type Prize struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // UUID primary key.

	Name        string    `gorm:"type:text;not null"`              // Display name.
	Description string    `gorm:"type:text;not null;default:''"`   // Customer-facing description.
	Tier        PrizeTier `gorm:"type:varchar(16);not null;index"` // small, medium or big.

	Quantity          int `gorm:"not null;default:0"`                               // Total stock.
	RemainingQuantity int `gorm:"not null;default:0;check:remaining_quantity >= 0"` // Unassigned stock, within [0, Quantity].

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Last update timestamp.
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (p *Prize) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
