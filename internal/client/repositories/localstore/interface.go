// Package localstore is the client's persisted key-value storage surface.
// The session layer keeps its two named slots (auth token, cached user
// snapshot) here; the backing store is a local SQLite database.
package localstore

import "context"

type Repository interface {
	// Get returns the value for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Clear removes every slot at once, the logout path.
	Clear(ctx context.Context) error
}
