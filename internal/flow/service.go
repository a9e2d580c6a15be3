// File: internal/flow/service.go
package flow

import (
	"context"
	"errors"

	"leadgen_backend/internal/common"
	"leadgen_backend/internal/identity"
	"leadgen_backend/internal/lead"
	"leadgen_backend/internal/profile"
	"leadgen_backend/internal/session"

	"go.uber.org/zap"
)

// Service is the workflow controller. It orchestrates the identity provider,
// the session manager, the completeness evaluator and the lead repository
// into the visitor state machine:
//
//	Anonymous -> AuthPending -> AuthenticatedIncomplete | AuthenticatedComplete -> Anonymous
type Service struct {
	provider identity.Provider
	sessions *session.Manager
	schema   profile.Schema
	leads    lead.Repository
	logger   *zap.Logger
}

// NewService creates the workflow controller.
func NewService(
	provider identity.Provider,
	sessions *session.Manager,
	schema profile.Schema,
	leads lead.Repository,
	logger *zap.Logger,
) *Service {
	return &Service{
		provider: provider,
		sessions: sessions,
		schema:   schema,
		leads:    leads,
		logger:   logger.Named("FlowService"),
	}
}

// BeginAuth moves Anonymous to AuthPending: it yields the provider redirect
// target for the given CSRF state. No session exists yet.
func (s *Service) BeginAuth(state string) string {
	return s.provider.AuthCodeURL(state)
}

// CompleteAuth handles a successful provider callback. It exchanges the
// code, creates the session and immediately evaluates completeness against
// whatever attributes are already on file. On a provider denial the visitor
// stays anonymous and the wrapped identity.ErrAuthFailed propagates.
func (s *Service) CompleteAuth(ctx context.Context, code string) (string, State, error) {
	id, err := s.provider.Exchange(ctx, code)
	if err != nil {
		if errors.Is(err, identity.ErrAuthFailed) {
			s.logger.Warn("Provider callback failed, staying anonymous", zap.Error(err))
		} else {
			s.logger.Error("Provider exchange error", zap.Error(err))
		}
		return "", StateAnonymous, err
	}

	token, err := s.sessions.Create(id)
	if err != nil {
		s.logger.Error("Failed to create session after exchange", zap.Error(err))
		return "", StateAnonymous, err
	}

	eval := s.EvaluateIdentity(ctx, id)
	st := StateAuthenticatedIncomplete
	if eval.Complete() {
		st = StateAuthenticatedComplete
	}
	s.logger.Info("Authentication completed",
		zap.String("principal_id", id.ID),
		zap.String("state", string(st)),
		zap.Int("missing_fields", len(eval.Missing)),
	)
	return token, st, nil
}

// EvaluateIdentity computes the completeness evaluation for an identity
// using the payload of its most recent lead record. A repository read
// failure degrades to "nothing on file" rather than failing the login.
func (s *Service) EvaluateIdentity(ctx context.Context, id *identity.Identity) profile.Evaluation {
	return profile.Evaluate(s.schema, s.knownAttributes(ctx, id))
}

// SubmitProfile validates that the payload, together with attributes already
// on file, leaves no required field blank, then appends one lead record.
// Validation failure leaves all state untouched and names the still-missing
// fields; a storage failure is the one case surfaced as a server error.
func (s *Service) SubmitProfile(ctx context.Context, id *identity.Identity, payload map[string]string) (*lead.LeadRecord, error) {
	merged := s.knownAttributes(ctx, id)
	for k, v := range payload {
		merged[k] = v
	}

	eval := profile.Evaluate(s.schema, merged)
	if !eval.Complete() {
		s.logger.Debug("Profile submission rejected",
			zap.String("principal_id", id.ID),
			zap.Strings("missing", eval.Missing),
		)
		return nil, common.NewMissingFieldsError(eval.Missing)
	}

	email := ""
	if id.Email != nil {
		email = *id.Email
	}
	record, err := s.leads.Append(ctx, id.ID, email, merged)
	if err != nil {
		s.logger.Error("Failed to append lead record", zap.Error(err), zap.String("principal_id", id.ID))
		return nil, common.ErrRepository
	}

	s.logger.Info("Lead saved successfully",
		zap.String("lead_id", record.ID),
		zap.String("principal_id", id.ID),
	)
	return record, nil
}

// Leads returns the caller's own records, oldest first.
func (s *Service) Leads(ctx context.Context, id *identity.Identity) ([]lead.LeadRecord, error) {
	records, err := s.leads.ListFor(ctx, id.ID)
	if err != nil {
		s.logger.Error("Failed to list lead records", zap.Error(err), zap.String("principal_id", id.ID))
		return nil, common.ErrRepository
	}
	if records == nil {
		records = []lead.LeadRecord{}
	}
	return records, nil
}

// Logout destroys the session for the token and reports whether the visitor
// was already signed out. Idempotent: a second call is not an error.
func (s *Service) Logout(token string) bool {
	err := s.sessions.Destroy(token)
	if errors.Is(err, session.ErrNotFound) {
		return true
	}
	return false
}

// knownAttributes gathers attributes already on file for the identity: the
// payload of the most recent lead record. The identity document itself
// carries none of the schema fields.
func (s *Service) knownAttributes(ctx context.Context, id *identity.Identity) map[string]string {
	known := make(map[string]string)
	records, err := s.leads.ListFor(ctx, id.ID)
	if err != nil {
		s.logger.Warn("Could not read prior leads for completeness check", zap.Error(err))
		return known
	}
	if len(records) == 0 {
		return known
	}
	for k, v := range records[len(records)-1].Payload {
		known[k] = v
	}
	return known
}
