package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// MemoryStore keeps saved media in process memory. It backs tests and hosts
// that have no object store configured; the minted memory:// URLs identify
// objects for the lifetime of the run only.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore returns an empty in-memory asset store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Save reads the content into memory and returns its memory:// location.
func (m *MemoryStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	key := strings.TrimLeft(name, "/")
	if key == "" {
		return "", fmt.Errorf("memory store: empty key")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("memory store read %s: %w", key, err)
	}

	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()

	return "memory://" + key, nil
}

// Get returns a previously saved object.
func (m *MemoryStore) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[strings.TrimLeft(name, "/")]
	return data, ok
}
