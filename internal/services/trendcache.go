package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

const trendCacheTTL = 15 * time.Minute

// TrendCache memoizes pass-through trend-index lookups in Redis so repeated
// dashboard queries inside one window don't hammer the upstream source.
type TrendCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

// NewTrendCache connects to Redis using REDIS_ADDR. Returning an error here
// is non-fatal to the caller: lookups simply run uncached.
func NewTrendCache(log *logger.Logger) (*TrendCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &TrendCache{
		log: log.With("service", "TrendCache"),
		rdb: rdb,
	}, nil
}

func (c *TrendCache) Get(ctx context.Context, key string) (*types.TrendStats, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var stats types.TrendStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.log.Warn("Corrupt cache entry dropped", "key", key, "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false
	}
	return &stats, true
}

func (c *TrendCache) Set(ctx context.Context, key string, stats *types.TrendStats) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, trendCacheTTL).Err(); err != nil {
		c.log.Warn("Cache write failed", "key", key, "error", err)
	}
}

func (c *TrendCache) Close() {
	if c == nil {
		return
	}
	_ = c.rdb.Close()
}

// TrendLookupService is the cached pass-through for trend-index lookups.
// Nothing is persisted; synthetic fallback results are served and cached the
// same way live ones are, tagged with their source.
type TrendLookupService struct {
	log       *logger.Logger
	collector *TrendCollector
	cache     *TrendCache
}

func NewTrendLookupService(baseLog *logger.Logger, collector *TrendCollector, cache *TrendCache) *TrendLookupService {
	return &TrendLookupService{
		log:       baseLog.With("service", "TrendLookupService"),
		collector: collector,
		cache:     cache,
	}
}

func (s *TrendLookupService) Lookup(ctx context.Context, title, timeframe string) *types.TrendStats {
	key := trendCacheKey(title, timeframe)
	if stats, ok := s.cache.Get(ctx, key); ok {
		return stats
	}
	stats := s.collector.Lookup(ctx, title, timeframe)
	s.cache.Set(ctx, key, stats)
	return stats
}

// trendCacheKey applies the same timeframe default the collector does, so an
// omitted timeframe and an explicit default share one cache entry.
func trendCacheKey(title, timeframe string) string {
	if timeframe == "" {
		timeframe = defaultTrendTimeframe
	}
	return "trends:" + strings.ToLower(title) + ":" + timeframe
}
