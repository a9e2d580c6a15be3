package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadgen_backend/internal/common"
	"leadgen_backend/internal/config"
	"leadgen_backend/internal/identity"
	"leadgen_backend/internal/lead"
	"leadgen_backend/internal/profile"
	"leadgen_backend/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var serviceTestSchema = profile.Schema{"Phone", "Country", "Industry", "Annual Revenue", "Employee Count", "Capability Needed"}

var serviceTestPayload = map[string]string{
	"Phone":             "555-0100",
	"Country":           "US",
	"Industry":          "Tech",
	"Annual Revenue":    "1M",
	"Employee Count":    "50",
	"Capability Needed": "X",
}

type stubProvider struct {
	identity *identity.Identity
	err      error
}

func (p *stubProvider) AuthCodeURL(state string) string {
	return "https://provider.example.com/authorize?state=" + state
}

func (p *stubProvider) Exchange(ctx context.Context, code string) (*identity.Identity, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.identity, nil
}

type failingRepository struct{}

func (failingRepository) Append(ctx context.Context, ownerID, ownerEmail string, payload map[string]string) (*lead.LeadRecord, error) {
	return nil, errors.New("storage down")
}

func (failingRepository) ListFor(ctx context.Context, ownerID string) ([]lead.LeadRecord, error) {
	return nil, errors.New("storage down")
}

func serviceIdentity() *identity.Identity {
	email := "jane@example.com"
	return &identity.Identity{ID: "u1", DisplayName: "Jane Doe", Email: &email}
}

func newTestService(t *testing.T, provider identity.Provider, leads lead.Repository) (*Service, *session.Manager) {
	t.Helper()
	cfg := &config.Config{
		SessionSecret:     "test-secret",
		SessionCookieName: "lead_session",
		SessionTTL:        24 * time.Hour,
	}
	sessions := session.NewManager(session.NewMemoryStore(), cfg, zap.NewNop())
	if leads == nil {
		leads = lead.NewMemoryRepository()
	}
	return NewService(provider, sessions, serviceTestSchema, leads, zap.NewNop()), sessions
}

func TestBeginAuth_DelegatesToProvider(t *testing.T) {
	svc, _ := newTestService(t, &stubProvider{}, nil)

	url := svc.BeginAuth("state-abc")

	assert.Contains(t, url, "state=state-abc")
}

func TestCompleteAuth_NewVisitorIsIncomplete(t *testing.T) {
	svc, sessions := newTestService(t, &stubProvider{identity: serviceIdentity()}, nil)

	token, state, err := svc.CompleteAuth(context.Background(), "code")
	require.NoError(t, err)

	assert.Equal(t, StateAuthenticatedIncomplete, state)
	resolved := sessions.Resolve(token)
	require.NotNil(t, resolved)
	assert.Equal(t, "u1", resolved.ID)
}

func TestCompleteAuth_PriorLeadMakesVisitorComplete(t *testing.T) {
	repo := lead.NewMemoryRepository()
	_, err := repo.Append(context.Background(), "u1", "jane@example.com", serviceTestPayload)
	require.NoError(t, err)

	svc, _ := newTestService(t, &stubProvider{identity: serviceIdentity()}, repo)

	_, state, err := svc.CompleteAuth(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticatedComplete, state)
}

func TestCompleteAuth_ProviderDenialStaysAnonymous(t *testing.T) {
	svc, _ := newTestService(t, &stubProvider{err: identity.ErrAuthFailed}, nil)

	token, state, err := svc.CompleteAuth(context.Background(), "bad-code")

	assert.ErrorIs(t, err, identity.ErrAuthFailed)
	assert.Equal(t, StateAnonymous, state)
	assert.Empty(t, token)
}

func TestSubmitProfile_FullPayloadAppendsRecord(t *testing.T) {
	repo := lead.NewMemoryRepository()
	svc, _ := newTestService(t, &stubProvider{}, repo)
	id := serviceIdentity()

	record, err := svc.SubmitProfile(context.Background(), id, serviceTestPayload)
	require.NoError(t, err)
	assert.Equal(t, "u1", record.UserID)
	assert.Equal(t, "jane@example.com", record.UserEmail)

	eval := svc.EvaluateIdentity(context.Background(), id)
	assert.True(t, eval.Complete())
}

func TestSubmitProfile_BlankFieldNamesExactlyThatField(t *testing.T) {
	repo := lead.NewMemoryRepository()
	svc, _ := newTestService(t, &stubProvider{}, repo)
	id := serviceIdentity()

	payload := map[string]string{}
	for k, v := range serviceTestPayload {
		payload[k] = v
	}
	payload["Industry"] = "   "

	_, err := svc.SubmitProfile(context.Background(), id, payload)

	var apiErr *common.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.StatusCode)
	assert.Equal(t, []string{"Industry"}, apiErr.MissingFields)

	// A rejected submission leaves nothing on file.
	records, listErr := repo.ListFor(context.Background(), "u1")
	require.NoError(t, listErr)
	assert.Empty(t, records)
}

func TestSubmitProfile_PriorRecordFillsTheGaps(t *testing.T) {
	repo := lead.NewMemoryRepository()
	_, err := repo.Append(context.Background(), "u1", "jane@example.com", serviceTestPayload)
	require.NoError(t, err)

	svc, _ := newTestService(t, &stubProvider{}, repo)

	// Only one field in the new payload; the rest is already on file.
	record, err := svc.SubmitProfile(context.Background(), serviceIdentity(), map[string]string{"Phone": "555-0199"})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", record.Payload["Phone"])
	assert.Equal(t, "US", record.Payload["Country"])
}

func TestSubmitProfile_StorageFailureIsRepositoryError(t *testing.T) {
	svc, _ := newTestService(t, &stubProvider{}, failingRepository{})

	_, err := svc.SubmitProfile(context.Background(), serviceIdentity(), serviceTestPayload)

	assert.ErrorIs(t, err, common.ErrRepository)
}

func TestLeads_NilBecomesEmptySlice(t *testing.T) {
	svc, _ := newTestService(t, &stubProvider{}, nil)

	records, err := svc.Leads(context.Background(), serviceIdentity())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestLeads_StorageFailureIsRepositoryError(t *testing.T) {
	svc, _ := newTestService(t, &stubProvider{}, failingRepository{})

	_, err := svc.Leads(context.Background(), serviceIdentity())
	assert.ErrorIs(t, err, common.ErrRepository)
}

func TestEvaluateIdentity_RepositoryFailureDegradesToNothingOnFile(t *testing.T) {
	svc, _ := newTestService(t, &stubProvider{}, failingRepository{})

	eval := svc.EvaluateIdentity(context.Background(), serviceIdentity())

	assert.False(t, eval.Complete())
	assert.Len(t, eval.Missing, len(serviceTestSchema))
}

func TestLogout_Idempotent(t *testing.T) {
	svc, sessions := newTestService(t, &stubProvider{identity: serviceIdentity()}, nil)

	token, _, err := svc.CompleteAuth(context.Background(), "code")
	require.NoError(t, err)

	assert.False(t, svc.Logout(token))
	assert.Nil(t, sessions.Resolve(token))
	assert.True(t, svc.Logout(token))
	assert.True(t, svc.Logout(""))
}
