package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/tair/qr-order/internal/inventory/domain"
	"github.com/tair/qr-order/pkg/logger"
)

const menuKey = "qrmenu:menu:v1"

var menuLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "menu_cache_lookups_total",
	Help: "Menu cache lookups by result.",
}, []string{"result"})

// MenuCache holds the rendered customer menu between catalogue changes
type MenuCache interface {
	Get(ctx context.Context) ([]domain.MenuCategory, bool)
	Set(ctx context.Context, menu []domain.MenuCategory)
	Invalidate(ctx context.Context)
}

// RedisMenuCache stores the menu as JSON under a single key
type RedisMenuCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisMenuCache creates a new redis menu cache
func NewRedisMenuCache(client *redis.Client, ttl time.Duration) *RedisMenuCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisMenuCache{client: client, ttl: ttl}
}

func (c *RedisMenuCache) Get(ctx context.Context) ([]domain.MenuCategory, bool) {
	raw, err := c.client.Get(ctx, menuKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx).Err(err).Msg("Menu cache read failed")
		}
		menuLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	var menu []domain.MenuCategory
	if err := json.Unmarshal(raw, &menu); err != nil {
		logger.Warn(ctx).Err(err).Msg("Menu cache entry is corrupt")
		menuLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	menuLookups.WithLabelValues("hit").Inc()
	return menu, true
}

func (c *RedisMenuCache) Set(ctx context.Context, menu []domain.MenuCategory) {
	raw, err := json.Marshal(menu)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to encode menu for cache")
		return
	}
	if err := c.client.Set(ctx, menuKey, raw, c.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to cache menu")
		return
	}
	logger.Debug(ctx).Dur("ttl", c.ttl).Int("size", len(raw)).Msg("Menu cached")
}

func (c *RedisMenuCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, menuKey).Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to invalidate menu cache")
	}
}

// NopMenuCache never caches. It is used when Redis is not configured.
type NopMenuCache struct{}

func (NopMenuCache) Get(context.Context) ([]domain.MenuCategory, bool) {
	menuLookups.WithLabelValues("disabled").Inc()
	return nil, false
}

func (NopMenuCache) Set(context.Context, []domain.MenuCategory) {}

func (NopMenuCache) Invalidate(context.Context) {}
