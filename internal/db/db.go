package db

import (
	"context"
	"time"
)

// Store is the key-value store contract used by the embedding cache and the
// healthcheck. Consumers depend on the narrow sub-interfaces.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations. Expiry is store-managed:
// SetWithTTL delegates destruction to the server, the application never
// deletes cache entries itself.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
