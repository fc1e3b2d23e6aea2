package reports

import (
	"context"
	"errors"
	"time"
)

// ErrNotCached signals a cache miss.
var ErrNotCached = errors.New("reports: not cached")

// Cache stores computed report payloads under derived keys. Values are JSON
// documents and must round-trip faithfully.
type Cache interface {
	// Get returns the stored value for key, or ErrNotCached.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
