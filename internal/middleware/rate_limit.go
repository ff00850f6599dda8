package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/damoang/angple-content/internal/common"
	"github.com/damoang/angple-content/pkg/i18n"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig configures the rate limiter
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyPrefix         string
}

// DefaultRateLimitConfig returns default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 120,
		KeyPrefix:         "content:ratelimit:",
	}
}

// rateLimitScript is an atomic sliding window over a sorted set
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('PEXPIRE', key, window + 1000)
    return {1, limit - count - 1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local reset_at = 0
if #oldest >= 2 then
    reset_at = tonumber(oldest[2]) + window
end
return {0, 0, reset_at}
`)

// rateLimitKey keys authenticated requests by principal, the rest by client IP
func rateLimitKey(c *gin.Context, prefix string) string {
	if p := GetPrincipal(c); p.UserID != "" {
		return prefix + "user:" + p.UserID
	}
	return prefix + "ip:" + c.ClientIP()
}

// RateLimit limits requests per principal in a one minute sliding window.
// A nil client or a Redis error lets the request through.
func RateLimit(redisClient *redis.Client, messages *i18n.Bundle, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRateLimitConfig().RequestsPerMinute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultRateLimitConfig().KeyPrefix
	}
	window := time.Minute.Milliseconds()

	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		now := time.Now().UnixMilli()
		result, err := rateLimitScript.Run(c.Request.Context(), redisClient,
			[]string{rateLimitKey(c, cfg.KeyPrefix)},
			cfg.RequestsPerMinute, window, now,
		).Int64Slice()
		if err != nil || len(result) != 3 {
			Logger(c).Warn().Err(err).Msg("rate limit check skipped")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result[1], 10))

		if result[0] != 1 {
			retryAfter := (result[2] - now) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			rateLimitedTotal.Inc()
			common.ErrorResponse(c, http.StatusTooManyRequests, messages.T(GetLocale(c), "error.rate_limited"), nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
