package campaign

import (
	"time"

	"gorm.io/gorm"
)

// Service implements prize generation, redemption and the admin operations over them.
type Service struct {
	db             *gorm.DB         // Database handle.
	picker         Picker           // Random source for codes and prize draws.
	now            func() time.Time // Clock for generated and redeem dates.
	redemptionOpen func() bool      // Gate consulted before every redemption.
}

// Option customizes a Service.
type Option func(*Service)

// WithPicker overrides the random source.
func WithPicker(p Picker) Option {
	return func(s *Service) {
		if p != nil {
			s.picker = p
		}
	}
}

// WithClock overrides the clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRedemptionGate installs a check that can close redemption.
func WithRedemptionGate(open func() bool) Option {
	return func(s *Service) {
		if open != nil {
			s.redemptionOpen = open
		}
	}
}

// NewService wires a campaign service with its database dependency.
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:             db,
		picker:         CryptoPicker{},
		now:            func() time.Time { return time.Now().UTC() },
		redemptionOpen: func() bool { return true },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
