// File: internal/identity/provider.go
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"leadgen_backend/internal/config"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

// ErrAuthFailed marks a provider-side denial or a malformed provider
// response. Callers return the visitor to the anonymous state on it; it is
// never treated as a server fault.
var ErrAuthFailed = errors.New("identity: provider auth failed")

// Provider abstracts the external OAuth identity provider. BeginAuth is the
// authorization URL for a given CSRF state; Exchange turns the callback code
// into a normalized Identity.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// linkedInUserInfo is the OIDC userinfo document LinkedIn returns.
type linkedInUserInfo struct {
	Sub        string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
	Picture    string `json:"picture"`
}

// LinkedIn implements Provider against LinkedIn's OAuth2 + OIDC userinfo
// endpoints.
type LinkedIn struct {
	oauthCfg    *oauth2.Config
	userInfoURL string
	logger      *zap.Logger
}

const defaultUserInfoURL = "https://api.linkedin.com/v2/userinfo"

// NewLinkedIn creates the LinkedIn provider from application configuration.
func NewLinkedIn(cfg *config.Config, logger *zap.Logger) *LinkedIn {
	return &LinkedIn{
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.LinkedInClientID,
			ClientSecret: cfg.LinkedInClientSecret,
			RedirectURL:  strings.TrimRight(cfg.BaseURL, "/") + "/auth/callback",
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     linkedin.Endpoint,
		},
		userInfoURL: defaultUserInfoURL,
		logger:      logger.Named("LinkedInProvider"),
	}
}

// NewLinkedInWithEndpoints builds a provider against explicit endpoints.
// Tests use this to point the exchange at an httptest server.
func NewLinkedInWithEndpoints(cfg *config.Config, logger *zap.Logger, endpoint oauth2.Endpoint, userInfoURL string) *LinkedIn {
	p := NewLinkedIn(cfg, logger)
	p.oauthCfg.Endpoint = endpoint
	p.userInfoURL = userInfoURL
	return p
}

// AuthCodeURL returns the provider authorization URL carrying the state.
func (p *LinkedIn) AuthCodeURL(state string) string {
	return p.oauthCfg.AuthCodeURL(state)
}

// Exchange swaps the authorization code for a token, fetches the userinfo
// document and maps it into an Identity. A response without a resolvable
// principal id is rejected.
func (p *LinkedIn) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := p.oauthCfg.Exchange(ctx, code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil &&
			(rerr.Response.StatusCode == http.StatusBadRequest || rerr.Response.StatusCode == http.StatusUnauthorized) {
			p.logger.Warn("Provider rejected authorization code", zap.Int("status", rerr.Response.StatusCode))
			return nil, fmt.Errorf("%w: code exchange rejected", ErrAuthFailed)
		}
		return nil, fmt.Errorf("exchange auth code: %w", err)
	}
	if !token.Valid() {
		return nil, fmt.Errorf("%w: received invalid token", ErrAuthFailed)
	}

	client := p.oauthCfg.Client(ctx, token)
	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Error("Userinfo request failed", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: userinfo returned status %d", ErrAuthFailed, resp.StatusCode)
	}

	var info linkedInUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: malformed userinfo document", ErrAuthFailed)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("%w: userinfo missing principal id", ErrAuthFailed)
	}

	id := &Identity{
		ID:          info.Sub,
		DisplayName: displayName(info),
		AccessToken: token.AccessToken,
	}
	if info.GivenName != "" {
		id.FirstName = &info.GivenName
	}
	if info.FamilyName != "" {
		id.LastName = &info.FamilyName
	}
	if info.Email != "" {
		email := strings.ToLower(info.Email)
		id.Email = &email
	}
	if info.Picture != "" {
		id.ProfilePictureURL = &info.Picture
	}

	p.logger.Info("Provider exchange successful", zap.String("principal_id", info.Sub))
	return id, nil
}

func displayName(info linkedInUserInfo) string {
	if info.Name != "" {
		return info.Name
	}
	return strings.TrimSpace(info.GivenName + " " + info.FamilyName)
}
