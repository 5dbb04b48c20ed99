package places

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"coffee-tournament/internal/common/database"
	"coffee-tournament/internal/common/logger"
	"coffee-tournament/internal/common/metrics"
)

// Cache is a read-through store for provider responses. A nil *Cache is a
// valid, always-missing cache. Failures are logged and never returned.
type Cache struct {
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

// NewCache returns nil when rc is nil or ttl is not positive.
func NewCache(rc *database.RedisClient, ttl time.Duration, log logger.Logger) *Cache {
	if rc == nil || ttl <= 0 {
		return nil
	}
	return &Cache{
		redis:  rc,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "places-cache"}),
	}
}

func geocodeKey(query string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(query))))
	return "places:geocode:" + hex.EncodeToString(sum[:])
}

func nearbyKey(lat, lng float64, radius int) string {
	return fmt.Sprintf("places:nearby:%.5f,%.5f:%d", lat, lng, radius)
}

func (c *Cache) get(ctx context.Context, endpoint, key string, out interface{}) bool {
	if c == nil {
		return false
	}

	found, err := c.redis.GetJSON(ctx, key, out)
	switch {
	case err != nil:
		metrics.PlacesCache.WithLabelValues(endpoint, "error").Inc()
		c.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	case !found:
		metrics.PlacesCache.WithLabelValues(endpoint, "miss").Inc()
		return false
	default:
		metrics.PlacesCache.WithLabelValues(endpoint, "hit").Inc()
		return true
	}
}

func (c *Cache) set(ctx context.Context, key string, v interface{}) {
	if c == nil {
		return
	}
	if err := c.redis.SetJSON(ctx, key, v, c.ttl); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
