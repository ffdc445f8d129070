package cache

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get for an absent key.
var ErrNotFound = errors.New("cache: key not found")

// Store is a flat string key-value backend. Values are opaque JSON blobs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
