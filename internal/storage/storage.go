package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("key not found")
)

// Store defines the key-value operations the goal repository persists through.
// Every Set is a full overwrite of the key.
type Store interface {
	// Get returns the value stored under key or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key; removing a missing key is not an error
	Remove(ctx context.Context, key string) error
}
