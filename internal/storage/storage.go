// Package storage provides the persistent key-value layer that all hub
// state lives in. Records are opaque JSON blobs stored under namespaced
// keys; there are no transactions across keys and the last writer wins.
package storage

import "context"

// Store exposes the key-value operations used by the domain stores.
type Store interface {
	// Get returns the raw value for key. The second result is false when
	// the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
