// Package storage provides the durable key-value store the client keeps
// its cart and session state in. Values are JSON-serializable blobs under
// well-known keys; every write replaces the whole value for a key.
package storage

import "errors"

// ErrNoValue indicates no value is stored under the requested key.
var ErrNoValue = errors.New("no value for key")

// Store is a small key-value abstraction so callers are testable without
// a real on-disk implementation.
type Store interface {
	// Get unmarshals the value under key into v. Returns ErrNoValue when
	// the key is absent.
	Get(key string, v any) error
	// Set marshals v and stores it under key, replacing any prior value.
	Set(key string, v any) error
	// Delete removes the value under key. Deleting an absent key is a no-op.
	Delete(key string) error
}
