package providers

import (
	"context"
)

// CacheProvider stores serialized responses under a key for a bounded time.
// Get reports a miss as an error; callers treat any Get error as a miss.
type CacheProvider interface {
	Get(ctx context.Context, key string) ([]byte, error)

	// Set rejects a non-positive expirationSeconds.
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	Delete(ctx context.Context, key string) error
}
