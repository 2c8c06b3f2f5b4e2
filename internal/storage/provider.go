// Package storage defines the key-value blob abstraction the card store
// persists through.
package storage

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Get when the key has no value.
var ErrNotExist = errors.New("storage: key does not exist")

// Provider stores opaque blobs by key.
type Provider interface {
	// Get returns the blob stored under key, or ErrNotExist.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the blob stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
