package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coffee-tournament/internal/common/config"
	"coffee-tournament/internal/common/logger"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// tokenBucket refills refill_tokens every interval_ms up to capacity and
// takes one token per call. Returns {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = interval_ms - (now_ms - last_refill)
		if retry_after_ms < 0 then retry_after_ms = 0 end
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// RateLimiter throttles expensive endpoints per client IP and route using a
// token bucket kept in redis. It fails open when redis is unavailable.
type RateLimiter struct {
	cfg    config.RateLimitConfig
	rdb    *redis.Client
	logger logger.Logger
	now    func() time.Time
}

// NewRateLimiter returns nil when rate limiting is disabled or no redis
// client is available; a nil limiter passes every request through.
func NewRateLimiter(cfg config.RateLimitConfig, rdb *redis.Client, log logger.Logger) *RateLimiter {
	if !cfg.Enabled || rdb == nil || cfg.Capacity <= 0 {
		return nil
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "rl:battle"
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &RateLimiter{
		cfg:    cfg,
		rdb:    rdb,
		logger: log.With(map[string]interface{}{"component": "ratelimit"}),
		now:    time.Now,
	}
}

func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if rl == nil {
			return next
		}
		return func(c echo.Context) error {
			key := rl.key(c)
			args := []interface{}{
				rl.now().UnixMilli(),
				rl.cfg.Capacity,
				rl.cfg.RefillTokens,
				rl.cfg.RefillIntervalMs,
				rl.ttlSeconds(),
			}

			vals, err := tokenBucket.Run(c.Request().Context(), rl.rdb, []string{key}, args...).Result()
			if err != nil {
				rl.logger.Warn("rate limit check failed, allowing request", map[string]interface{}{
					"key":   key,
					"error": err,
				})
				return next(c)
			}

			arr, ok := vals.([]interface{})
			if !ok || len(arr) != 3 {
				rl.logger.Warn("unexpected rate limit script result", map[string]interface{}{
					"key":    key,
					"result": fmt.Sprintf("%#v", vals),
				})
				return next(c)
			}
			allowed := asInt64(arr[0]) == 1
			remaining := asInt64(arr[1])
			retryMs := asInt64(arr[2])

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000.0))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, errorResponse{
					Success: false,
					Error:   fmt.Sprintf("Too many requests. Try again in %d seconds.", secs),
				})
			}
			return next(c)
		}
	}
}

func (rl *RateLimiter) key(c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return strings.Join([]string{rl.cfg.Prefix, "ip", ip, "route", c.Path()}, ":")
}

// ttlSeconds keeps an idle bucket around for two full refill cycles.
func (rl *RateLimiter) ttlSeconds() int64 {
	ttl := int64(2*rl.cfg.RefillIntervalMs) / 1000
	if ttl < 60 {
		ttl = 60
	}
	return ttl
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
