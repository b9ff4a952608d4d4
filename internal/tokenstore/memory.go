package tokenstore

import (
	"context"
	"sync"

	"fitmrp-client/internal/auth"
)

// MemoryStore is a process-local Store for tests and ephemeral runs.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]auth.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]auth.Session)}
}

func (m *MemoryStore) Save(_ context.Context, profile string, s *auth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[profile] = *s
	return nil
}

func (m *MemoryStore) Load(_ context.Context, profile string) (*auth.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[profile]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Clear(_ context.Context, profile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, profile)
	return nil
}
