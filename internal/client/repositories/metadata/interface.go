// Package metadata implements the durable client-side key-value store that
// backs the persisted session (token and serialized user).
package metadata

import "context"

// Repository is a small durable key-value store. Get returns nil (not an
// error) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
