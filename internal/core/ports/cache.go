// internal/core/ports/cache.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CacheRepository defines the interface for cache operations
type CacheRepository interface {
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error

	// GetOrSet loads dest from the cache or fills it from fetch on a miss
	GetOrSet(ctx context.Context, key string, dest interface{},
		fetch func() (interface{}, error), ttl time.Duration) error

	Increment(ctx context.Context, key string) (int64, error)
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Ping(ctx context.Context) error
}

// StockCacheInvalidator drops cached views derived from item stock
type StockCacheInvalidator interface {
	InvalidateStock(ctx context.Context, itemIDs ...uuid.UUID) error
}
