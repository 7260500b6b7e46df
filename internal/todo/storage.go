package todo

import (
	"context"
	"sync"
)

// Storage persists the whole list as one blob under a single key.
type Storage interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, value []byte) error
}

// MemoryStorage is a Storage that lives only as long as the process.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

func (m *MemoryStorage) Get(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryStorage) Set(ctx context.Context, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), value...)
	return nil
}
