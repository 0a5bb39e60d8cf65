package cache

import (
	"context"
	"sync"
	"time"
)

// memoryStore is an in-process Store for single-node deployments and tests.
type memoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	expiry map[string]time.Time
}

// NewMemoryStore creates an in-memory TTL store.
func NewMemoryStore() Store {
	return &memoryStore{
		values: make(map[string]string),
		expiry: make(map[string]time.Time),
	}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	exp, ok := m.expiry[key]
	if !ok || time.Now().After(exp) {
		return "", ErrKeyNotFound{Key: key}
	}
	return m.values[key], nil
}

func (m *memoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	m.expiry[key] = time.Now().Add(ttl)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	delete(m.expiry, key)
	return nil
}

func (m *memoryStore) Close() error {
	return nil
}
