package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/aklinic/internal/httperr"
)

const (
	defaultRateLimit  = 10
	defaultRateWindow = 15 * time.Minute
)

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// RateLimiter counts requests per path and client IP in Redis. A nil
// client or a Redis error lets the request through.
func RateLimiter(rdb redis.Cmdable, cfg RateLimitConfig, logger zerolog.Logger) gin.HandlerFunc {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultRateLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultRateWindow
	}

	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		key := RateLimitKey(c.Request.URL.Path, clientIP)

		allowed, err := checkRateLimit(c.Request.Context(), rdb, key, cfg.Limit, cfg.Window)
		if err != nil {
			logger.Warn().Err(err).Str("remote_ip", clientIP).Msg("rate limit check failed")
			c.Next()
			return
		}

		if !allowed {
			logger.Warn().Str("remote_ip", clientIP).Str("path", c.Request.URL.Path).Msg("rate limit exceeded")
			httperr.TooManyRequests(c, "Too many requests. Please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}

func RateLimitKey(path, ip string) string {
	return fmt.Sprintf("ratelimit:%s:%s", path, ip)
}

func checkRateLimit(ctx context.Context, rdb redis.Cmdable, key string, limit int, window time.Duration) (bool, error) {
	pipe := rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return false, fmt.Errorf("check rate limit: %w", err)
	}

	return incr.Val() <= int64(limit), nil
}
