package domain

import (
	"context"
	"time"
)

// CacheRepository keeps raw catalog text between loads. Get returns
// ErrCacheMiss for absent or expired keys.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// CatalogSource retrieves the raw catalog text
type CatalogSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Kind names the transport ("http" or "file") for logs and metrics.
	Kind() string
	Location() string
}

// CatalogLoader fetches and parses the catalog
type CatalogLoader interface {
	Load(ctx context.Context) (*Catalog, error)
}
