// File: internal/session/store.go
package session

import (
	"sync"
	"time"
)

// Store is the token -> session binding. Implementations must make each
// per-token operation a single atomic read-modify-write so that a token
// never resolves inconsistently while being created or destroyed.
type Store interface {
	Save(s *Session)
	Get(token string) (*Session, bool)
	Delete(token string) bool
	DeleteExpired(now time.Time) int
}

// memoryStore keeps sessions in a process-local map. Sessions are
// deliberately not durable; a restart signs everyone out.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]Session)}
}

func (m *memoryStore) Save(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = *s
}

func (m *memoryStore) Get(token string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, false
	}
	return &s, true
}

func (m *memoryStore) Delete(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[token]; !ok {
		return false
	}
	delete(m.sessions, token)
	return true
}

func (m *memoryStore) DeleteExpired(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for token, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}
