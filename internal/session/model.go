// File: internal/session/model.go
package session

import (
	"time"

	"leadgen_backend/internal/identity"
)

// Session binds one Identity to one browser agent through an opaque token.
// Expiry is absolute: 24 hours from creation by default, never extended.
type Session struct {
	Token     string
	Identity  identity.Identity
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its absolute expiry.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
