package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates the session does not exist or has expired.
var ErrNotFound = errors.New("session: not found")

// Session is an issued admin login.
type Session struct {
	ID        string    `json:"id"`         // Random session id, carried as the JWT jti.
	AdminID   uint64    `json:"admin_id"`   // Admin row id.
	Username  string    `json:"username"`   // Admin username at login.
	IssuedAt  time.Time `json:"issued_at"`  // Login time.
	ExpiresAt time.Time `json:"expires_at"` // Hard expiry.
}

// New builds a session for an admin valid for ttl from now.
func New(adminID uint64, username string, now time.Time, ttl time.Duration) Session {
	now = now.UTC()
	return Session{
		ID:        uuid.NewString(),
		AdminID:   adminID,
		Username:  username,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store keeps sessions between requests.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
