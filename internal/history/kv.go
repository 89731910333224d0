// Package history keeps each user's recent spreads in a scoped key-value store.
package history

import (
	"context"
	"sync"
)

// KV is a string store partitioned by scope (one scope per user)
type KV interface {
	Get(ctx context.Context, scope, key string) (string, bool, error)
	Set(ctx context.Context, scope, key, value string) error
	Delete(ctx context.Context, scope, key string) error
}

// MemoryKV is an in-process KV
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[scope][key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[scope]
	if !ok {
		s = make(map[string]string)
		m.data[scope] = s
	}
	s[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[scope], key)
	return nil
}
