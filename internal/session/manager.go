// File: internal/session/manager.go
package session

import (
	"errors"
	"net/http"
	"time"

	"leadgen_backend/internal/config"
	"leadgen_backend/internal/identity"
	"leadgen_backend/internal/platform/crypto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Destroy when the token has no live session.
var ErrNotFound = errors.New("session: not found")

// Manager binds identities to opaque session tokens and handles the
// HTTP-only session cookie. Cookie values are HMAC-signed with the session
// secret so a tampered cookie is dropped before any store lookup.
type Manager struct {
	store  Store
	cfg    *config.Config
	logger *zap.Logger
}

// NewManager creates a session manager over the given store.
func NewManager(store Store, cfg *config.Config, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		cfg:    cfg,
		logger: logger.Named("SessionManager"),
	}
}

// Create generates an unguessable token and binds it to the identity with
// an absolute expiry of now + the configured TTL.
func (m *Manager) Create(id *identity.Identity) (string, error) {
	token, err := crypto.GenerateSecureRandomString(32)
	if err != nil {
		return "", err
	}
	now := time.Now()
	m.store.Save(&Session{
		Token:     token,
		Identity:  *id,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.SessionTTL),
	})
	m.logger.Debug("Session created", zap.String("principal_id", id.ID))
	return token, nil
}

// Resolve returns the Identity bound to the token, or nil for a missing,
// malformed or expired token. Being unauthenticated is a normal path, so
// Resolve never returns an error and never mutates the store.
func (m *Manager) Resolve(token string) *identity.Identity {
	if token == "" {
		return nil
	}
	s, ok := m.store.Get(token)
	if !ok {
		return nil
	}
	if s.Expired(time.Now()) {
		return nil
	}
	id := s.Identity
	return &id
}

// Destroy invalidates the token. It either fully removes the session or
// reports ErrNotFound with no side effect; there is no in-between state.
func (m *Manager) Destroy(token string) error {
	if token == "" || !m.store.Delete(token) {
		return ErrNotFound
	}
	return nil
}

// SweepExpired evicts expired sessions and returns how many were removed.
func (m *Manager) SweepExpired() int {
	return m.store.DeleteExpired(time.Now())
}

// IssueCookie writes the signed session cookie for the token.
func (m *Manager) IssueCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.cfg.SessionCookieName,
		Value:    crypto.SignValue(m.cfg.SessionSecret, token),
		Path:     "/",
		MaxAge:   int(m.cfg.SessionTTL.Seconds()),
		Secure:   m.cfg.SessionCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client.
func (m *Manager) ClearCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   m.cfg.SessionCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest extracts and verifies the session token from the request
// cookie. A missing cookie or bad signature yields "".
func (m *Manager) TokenFromRequest(c *gin.Context) string {
	cookie, err := c.Request.Cookie(m.cfg.SessionCookieName)
	if err != nil {
		return ""
	}
	token, err := crypto.VerifyValue(m.cfg.SessionSecret, cookie.Value)
	if err != nil {
		m.logger.Warn("Rejected session cookie with bad signature")
		return ""
	}
	return token
}
