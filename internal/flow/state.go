// File: internal/flow/state.go
package flow

// State names a position in the visitor workflow. Anonymous is both the
// initial and the post-logout state, so the machine is cyclic.
type State string

const (
	StateAnonymous               State = "anonymous"
	StateAuthPending             State = "auth_pending"
	StateAuthenticatedIncomplete State = "authenticated_incomplete"
	StateAuthenticatedComplete   State = "authenticated_complete"
)
