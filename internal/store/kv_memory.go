package store

import (
	"bytes"
	"context"
	"strings"
	"sync"
)

// MemoryKV is a map-backed [KV]. It keeps nothing across restarts and is
// used by tests and by the "memory" storage driver.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string][]byte
	closed  bool
}

// NewMemoryKV returns an empty [MemoryKV].
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	v, ok := m.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return bytes.Clone(v), nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	m.entries[key] = bytes.Clone(value)
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.entries, key)
	return nil
}

func (m *MemoryKV) Scan(_ context.Context, prefix string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	entries := make(map[string][]byte)
	for k, v := range m.entries {
		if strings.HasPrefix(k, prefix) {
			entries[k] = bytes.Clone(v)
		}
	}
	return entries, nil
}

// Len returns the number of stored keys across all namespaces.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
