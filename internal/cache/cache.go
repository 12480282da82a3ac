package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

// Cached views.
const (
	ViewAnalytics   = "analytics"
	ViewTrend       = "trend"
	ViewTrendFilled = "trend:filled"
	ViewCategories  = "categories"
	ViewRestaurants = "restaurants"
)

const (
	keyPrefix     = "tastepulse:analytics:"
	generationKey = keyPrefix + "gen"
)

var lookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "analytics_cache_lookups_total",
		Help: "Analytics cache lookups by view and result (hit, miss, error).",
	},
	[]string{"view", "result"},
)

// Key addresses one view within one cache generation. Get resolves it before
// the caller takes its snapshot, so a value stored under it becomes
// unreachable as soon as a later write bumps the generation. The zero Key is
// never stored.
type Key string

// AnalyticsCache holds derived analytics views. Invalidate makes every
// previously resolved Key unreachable.
type AnalyticsCache interface {
	Get(ctx context.Context, view string, dst any) (Key, bool, error)
	Set(ctx context.Context, key Key, v any) error
	Invalidate(ctx context.Context) error
}

// Noop is an AnalyticsCache that stores nothing.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (Key, bool, error) { return "", false, nil }
func (Noop) Set(context.Context, Key, any) error                 { return nil }
func (Noop) Invalidate(context.Context) error                    { return nil }

// RedisCache stores views as JSON under a generation-scoped key:
// tastepulse:analytics:{gen}:{view}. Invalidate increments the generation.
// Because the generation is read once per lookup, a view computed while a
// write lands is stored under the generation it was read at and is never
// served after that write.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache creates a cache with the given per-view TTL.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get loads view into dst. It reports false on a miss. The returned Key is
// where a freshly computed view should be stored; it is empty when the
// generation could not be read.
func (c *RedisCache) Get(ctx context.Context, view string, dst any) (Key, bool, error) {
	key, err := c.viewKey(ctx, view)
	if err != nil {
		lookupsTotal.WithLabelValues(view, "error").Inc()
		return "", false, err
	}

	data, err := c.client.Get(ctx, string(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		lookupsTotal.WithLabelValues(view, "miss").Inc()
		return key, false, nil
	}
	if err != nil {
		lookupsTotal.WithLabelValues(view, "error").Inc()
		return key, false, fmt.Errorf("get cached %s: %w", view, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		lookupsTotal.WithLabelValues(view, "error").Inc()
		return key, false, fmt.Errorf("decode cached %s: %w", view, err)
	}
	lookupsTotal.WithLabelValues(view, "hit").Inc()
	return key, true, nil
}

// Set stores v under key. An empty key is ignored.
func (c *RedisCache) Set(ctx context.Context, key Key, v any) error {
	if key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, string(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached %s: %w", key, err)
	}
	return nil
}

// Invalidate bumps the generation.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("bump cache generation: %w", err)
	}
	return nil
}

func (c *RedisCache) viewKey(ctx context.Context, view string) (Key, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0
	} else if err != nil {
		return "", fmt.Errorf("get cache generation: %w", err)
	}
	return Key(keyPrefix + strconv.FormatInt(gen, 10) + ":" + view), nil
}
