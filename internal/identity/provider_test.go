package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"leadgen_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func testConfig() *config.Config {
	return &config.Config{
		LinkedInClientID:     "client-id",
		LinkedInClientSecret: "client-secret",
		BaseURL:              "http://localhost:8080",
	}
}

// fakeProvider serves the token and userinfo endpoints of the OAuth
// exchange. tokenStatus lets tests simulate a provider-side denial.
func fakeProvider(t *testing.T, tokenStatus int, userinfo map[string]interface{}) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if tokenStatus != http.StatusOK {
			w.WriteHeader(tokenStatus)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "fake-access-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userinfo)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func providerAgainst(t *testing.T, srv *httptest.Server) *LinkedIn {
	t.Helper()
	endpoint := oauth2.Endpoint{
		AuthURL:  srv.URL + "/authorize",
		TokenURL: srv.URL + "/token",
	}
	return NewLinkedInWithEndpoints(testConfig(), zap.NewNop(), endpoint, srv.URL+"/userinfo")
}

func TestAuthCodeURL_TargetsConfiguredProvider(t *testing.T) {
	p := NewLinkedIn(testConfig(), zap.NewNop())

	raw := p.AuthCodeURL("state-123")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "www.linkedin.com", u.Host)
	assert.Equal(t, "state-123", u.Query().Get("state"))
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
	assert.Equal(t, "http://localhost:8080/auth/callback", u.Query().Get("redirect_uri"))
}

func TestExchange_MapsFullProfile(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, map[string]interface{}{
		"sub":         "u1",
		"name":        "Jane Doe",
		"given_name":  "Jane",
		"family_name": "Doe",
		"email":       "Jane@Example.com",
		"picture":     "https://cdn.example.com/jane.jpg",
	})
	p := providerAgainst(t, srv)

	id, err := p.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "u1", id.ID)
	assert.Equal(t, "Jane Doe", id.DisplayName)
	require.NotNil(t, id.FirstName)
	assert.Equal(t, "Jane", *id.FirstName)
	require.NotNil(t, id.LastName)
	assert.Equal(t, "Doe", *id.LastName)
	require.NotNil(t, id.Email)
	assert.Equal(t, "jane@example.com", *id.Email)
	require.NotNil(t, id.ProfilePictureURL)
	assert.Equal(t, "fake-access-token", id.AccessToken)
}

func TestExchange_AbsentOptionalFieldsStayNil(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, map[string]interface{}{
		"sub":  "u1",
		"name": "Jane Doe",
	})
	p := providerAgainst(t, srv)

	id, err := p.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Nil(t, id.FirstName)
	assert.Nil(t, id.LastName)
	assert.Nil(t, id.Email)
	assert.Nil(t, id.ProfilePictureURL)
}

func TestExchange_MissingPrincipalIDIsAuthError(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, map[string]interface{}{
		"name": "No Subject",
	})
	p := providerAgainst(t, srv)

	_, err := p.Exchange(context.Background(), "auth-code")
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestExchange_ProviderDenialIsAuthError(t *testing.T) {
	srv := fakeProvider(t, http.StatusUnauthorized, nil)
	p := providerAgainst(t, srv)

	_, err := p.Exchange(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestExchange_TokenNeverSerializedToClients(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, map[string]interface{}{
		"sub":  "u1",
		"name": "Jane Doe",
	})
	p := providerAgainst(t, srv)

	id, err := p.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)

	b, err := json.Marshal(id)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "fake-access-token")
}

func TestDisplayName_FallsBackToNameParts(t *testing.T) {
	assert.Equal(t, "Jane Doe", displayName(linkedInUserInfo{Name: "Jane Doe"}))
	assert.Equal(t, "Jane Doe", displayName(linkedInUserInfo{GivenName: "Jane", FamilyName: "Doe"}))
	assert.Equal(t, "Jane", displayName(linkedInUserInfo{GivenName: "Jane"}))
}
