package storage

import "context"

//go:generate moq -out kvstore_mock.go . KVStore

// KVStore namespaced durable key/value store used by the local cart cache.
// Keys are opaque strings; values are raw bytes.
type KVStore interface {
	// Get returns ErrKeyNotFound if the key is absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores or overwrites the value
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}
