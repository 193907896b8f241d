// Package kv provides the string-keyed document store that holds all
// application state. Every collection is serialized whole into a single key,
// mirroring the storage layout this service inherited.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored document.
var ErrNotFound = errors.New("kv: key not found")

// Store is the storage medium contract. Implementations must treat values
// as opaque bytes and must not retain the slices passed to Set.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
