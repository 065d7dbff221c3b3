// Package credentials holds the durable side of a dashboard session: the
// access/refresh token pair, persisted under two fixed keys so that it
// survives restarts, and the Vault the gateway reads it through.
package credentials

import "context"

// Durable storage keys. They are written together and cleared together.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Storage is a small key/value slot, the server-side stand-in for browser
// local storage.
type Storage interface {
	// Get returns the value and whether the key was present
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes all items in one operation
	Set(ctx context.Context, items map[string]string) error
	// Delete removes the keys; missing keys are not an error
	Delete(ctx context.Context, keys ...string) error
}

// Backend hands out one Storage per namespace (one per browser).
type Backend interface {
	Scope(namespace string) Storage
}
