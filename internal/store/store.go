// Package store is the durable key-value layer behind the studio state.
// Backends move opaque bytes; Adapter adds JSON encoding and the
// "absent or unreadable means no prior state" contract on top.
package store

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned by backends that enforce a size limit when a
// write would push them over it.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Backend defines the persistence interface for serialized records.
type Backend interface {
	// Get returns the stored blob for key. ok is false when nothing is stored.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Put replaces the blob stored under key.
	Put(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)

	// Lifecycle
	Close() error
}
