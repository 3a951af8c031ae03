// Package memory provides an in-process KVStore for tests and --ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"github.com/iudanet/cartkeeper/internal/client/storage"
)

// KV потокобезопасное in-memory хранилище ключ/значение
type KV struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewKV creates an empty store.
func NewKV() *KV {
	return &KV{data: make(map[string][]byte)}
}

// Get returns a copy of the value.
func (m *KV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, storage.ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a copy of the value.
func (m *KV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

// Delete removes the key.
func (m *KV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Len returns the number of stored keys.
func (m *KV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
