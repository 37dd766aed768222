package storage

import (
	"context"
	"sync"

	"github.com/investbank/pipeline-client/internal/core/domain"
)

// MemoryStorage is an in-process SlotStorage. Sessions do not survive a
// restart; intended for tests and throwaway environments.
type MemoryStorage struct {
	mu       sync.Mutex
	token    string
	identity *domain.Identity
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Save(_ context.Context, token string, identity *domain.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	if identity != nil {
		clone := *identity
		identity = &clone
	}
	m.identity = identity
	return nil
}

func (m *MemoryStorage) Load(_ context.Context) (string, *domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", nil, nil
	}
	identity := m.identity
	if identity != nil {
		clone := *identity
		identity = &clone
	}
	return m.token, identity, nil
}

func (m *MemoryStorage) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.identity = nil
	return nil
}
