package domain

import (
	"context"
	"io"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque encoded payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// DatasetSource opens the raw CSV dataset. Each call is a single attempt.
type DatasetSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Location() string
}
