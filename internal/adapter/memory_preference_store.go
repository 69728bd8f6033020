package adapter

import (
	"context"
	"sync"

	"quiz-forge/internal/domain"
)

// MemoryPreferenceStore keeps preferences for the lifetime of the process.
// It is used when no Redis address is configured.
type MemoryPreferenceStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryPreferenceStore(initial map[string]string) *MemoryPreferenceStore {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &MemoryPreferenceStore{values: values}
}

func (m *MemoryPreferenceStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", domain.ErrPreferenceNotSet
	}
	return v, nil
}

func (m *MemoryPreferenceStore) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

var _ domain.PreferenceStore = (*MemoryPreferenceStore)(nil)
