// File: internal/flow/handler.go
package flow

import (
	"errors"
	"net/http"

	"leadgen_backend/internal/common"
	"leadgen_backend/internal/config"
	"leadgen_backend/internal/identity"
	"leadgen_backend/internal/middleware"
	"leadgen_backend/internal/platform/crypto"
	"leadgen_backend/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the workflow at the HTTP boundary.
type Handler struct {
	service  *Service
	sessions *session.Manager
	cfg      *config.Config
	logger   *zap.Logger
}

// NewHandler creates the workflow handler.
func NewHandler(service *Service, sessions *session.Manager, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger.Named("FlowHandler"),
	}
}

// RegisterRoutes sets up the authentication and lead routes.
func (h *Handler) RegisterRoutes(router *gin.Engine, authMW gin.HandlerFunc) {
	router.GET("/auth/start", h.beginAuth)
	// The path the original frontend links to.
	router.GET("/auth/linkedin", h.beginAuth)
	router.GET("/auth/callback", h.callback)

	api := router.Group("/api")
	{
		api.GET("/user", authMW, h.currentUser)
		api.POST("/save-lead", authMW, h.saveLead)
		api.GET("/leads", authMW, h.listLeads)
		// Logout handles its own session lookup so that a second call can
		// report "already signed out" instead of a 401.
		api.POST("/logout", h.logout)
	}
}

// UserResponse is the Identity as served to the client, enriched with the
// completeness evaluation. The provider access token is never part of it.
type UserResponse struct {
	identity.Identity
	ProfileComplete bool     `json:"profile_complete"`
	MissingFields   []string `json:"missing_fields"`
}

type callbackQuery struct {
	Code             string `form:"code"`
	State            string `form:"state"`
	Error            string `form:"error"`
	ErrorDescription string `form:"error_description"`
}

func (h *Handler) beginAuth(c *gin.Context) {
	state, err := crypto.GenerateSecureRandomString(32)
	if err != nil {
		h.logger.Error("Failed to generate OAuth state", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer)
		return
	}
	h.setStateCookie(c, state)
	c.Redirect(http.StatusTemporaryRedirect, h.service.BeginAuth(state))
}

func (h *Handler) callback(c *gin.Context) {
	var q callbackQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.redirectToLogin(c)
		return
	}

	if q.Error != "" {
		h.logger.Warn("Provider denied authorization",
			zap.String("error", q.Error),
			zap.String("description", q.ErrorDescription),
		)
		h.redirectToLogin(c)
		return
	}

	storedState, ok := h.takeStateCookie(c)
	if !ok || q.State == "" || q.State != storedState {
		h.logger.Warn("OAuth state mismatch on callback")
		h.redirectToLogin(c)
		return
	}

	if q.Code == "" {
		h.logger.Warn("Callback missing authorization code")
		h.redirectToLogin(c)
		return
	}

	token, state, err := h.service.CompleteAuth(c.Request.Context(), q.Code)
	if err != nil {
		// Provider denials and malformed responses both resolve to the
		// anonymous state; no cookie is issued.
		if !errors.Is(err, identity.ErrAuthFailed) {
			h.logger.Error("Callback processing failed", zap.Error(err))
		}
		h.redirectToLogin(c)
		return
	}

	h.sessions.IssueCookie(c, token)
	h.logger.Info("Session issued after callback", zap.String("state", string(state)))
	c.Redirect(http.StatusFound, h.cfg.PostLoginRedirectURL)
}

func (h *Handler) currentUser(c *gin.Context) {
	id := middleware.GetIdentityFromContext(c)
	if id == nil {
		common.RespondWithError(c, common.ErrNotAuthenticated)
		return
	}

	eval := h.service.EvaluateIdentity(c.Request.Context(), id)
	common.RespondJSON(c, http.StatusOK, UserResponse{
		Identity:        *id,
		ProfileComplete: eval.Complete(),
		MissingFields:   eval.Missing,
	})
}

func (h *Handler) saveLead(c *gin.Context) {
	id := middleware.GetIdentityFromContext(c)
	if id == nil {
		common.RespondWithError(c, common.ErrNotAuthenticated)
		return
	}

	var payload map[string]string
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Request body must be a JSON object of field values."))
		return
	}

	if _, err := h.service.SubmitProfile(c.Request.Context(), id, payload); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondSuccess(c, "Lead data saved successfully")
}

func (h *Handler) listLeads(c *gin.Context) {
	id := middleware.GetIdentityFromContext(c)
	if id == nil {
		common.RespondWithError(c, common.ErrNotAuthenticated)
		return
	}

	records, err := h.service.Leads(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, records)
}

func (h *Handler) logout(c *gin.Context) {
	token := h.sessions.TokenFromRequest(c)
	alreadySignedOut := h.service.Logout(token)
	h.sessions.ClearCookie(c)

	if alreadySignedOut {
		common.RespondSuccess(c, "Already signed out.")
		return
	}
	common.RespondSuccess(c, "")
}

func (h *Handler) redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, h.cfg.LoginRedirectURL+"?error=auth_failed")
}

func (h *Handler) setStateCookie(c *gin.Context, state string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cfg.OAuthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		Secure:   h.cfg.SessionCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeStateCookie retrieves and deletes the OAuth state cookie.
func (h *Handler) takeStateCookie(c *gin.Context) (string, bool) {
	cookie, err := c.Request.Cookie(h.cfg.OAuthStateCookieName)
	if err != nil {
		return "", false
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cfg.OAuthStateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.cfg.SessionCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return cookie.Value, true
}
