package snapshot

import (
	"context"
	"sync"
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// MemoryStore holds the snapshot in process memory. Useful for tests and
// for running without a Redis backend; state is lost on exit.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

func (m *MemoryStore) Get(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil, ErrNoSnapshot
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}
