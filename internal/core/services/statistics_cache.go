// internal/core/services/statistics_cache.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ammerola/stockledger/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

// StatisticsCacheKeyPrefix namespaces cached statistics; stock mutations drop every key under it
const StatisticsCacheKeyPrefix = "stats:"

// CachedStatistics serves statistics from the cache and collapses concurrent misses
type CachedStatistics struct {
	next   ports.StatisticsService
	cache  ports.CacheRepository
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

var _ ports.StatisticsService = (*CachedStatistics)(nil)

// NewCachedStatistics wraps next with a read-through cache
func NewCachedStatistics(next ports.StatisticsService, cache ports.CacheRepository, ttl time.Duration, logger *slog.Logger) *CachedStatistics {
	return &CachedStatistics{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("service", "statistics_cache")),
	}
}

// GetStatistics returns cached statistics for filter or computes them once
func (c *CachedStatistics) GetStatistics(ctx context.Context, filter ports.StatisticsFilter) (*ports.Statistics, error) {
	key := StatisticsCacheKey(filter)

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		var stats ports.Statistics
		err := c.cache.GetOrSet(ctx, key, &stats, func() (interface{}, error) {
			return c.next.GetStatistics(ctx, filter)
		}, c.ttl)
		if err != nil {
			return nil, err
		}
		return &stats, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.DebugContext(ctx, "statistics load shared", slog.String("key", key))
	}
	return v.(*ports.Statistics), nil
}

// StatisticsCacheKey renders a stable key for filter
func StatisticsCacheKey(f ports.StatisticsFilter) string {
	var b strings.Builder
	b.WriteString(StatisticsCacheKeyPrefix)
	if f.From != nil {
		b.WriteString(f.From.UTC().Format(time.RFC3339))
	}
	b.WriteByte('|')
	if f.To != nil {
		b.WriteString(f.To.UTC().Format(time.RFC3339))
	}
	b.WriteByte('|')
	if f.WarehouseID != nil {
		b.WriteString(f.WarehouseID.String())
	}
	fmt.Fprintf(&b, "|%s|%d", f.Category, f.RecentLimit)
	return b.String()
}
