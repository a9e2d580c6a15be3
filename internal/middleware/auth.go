// File: internal/middleware/auth.go
package middleware

import (
	"leadgen_backend/internal/common"
	"leadgen_backend/internal/identity"
	"leadgen_backend/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdentityKey is the context key for the authenticated Identity.
	IdentityKey = "identity"
)

// SessionAuth creates a Gin middleware that resolves the session cookie into
// an Identity. A missing, malformed or expired session is the normal
// unauthenticated path: the request is rejected with 401, never a 500.
func SessionAuth(sessions *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessions.TokenFromRequest(c)
		id := sessions.Resolve(token)
		if id == nil {
			logger.Debug("Request without valid session", zap.String("path", c.Request.URL.Path))
			common.RespondWithError(c, common.ErrNotAuthenticated)
			return
		}

		c.Set(IdentityKey, id)
		c.Next()
	}
}

// GetIdentityFromContext retrieves the authenticated Identity from the Gin
// context. Returns nil when the request is unauthenticated.
func GetIdentityFromContext(c *gin.Context) *identity.Identity {
	val, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	id, ok := val.(*identity.Identity)
	if !ok {
		return nil
	}
	return id
}
