package security

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/redis/go-redis/v9"
)

// RateLimiter caps requests per caller per minute with a Redis counter. A
// limiter without a Redis client lets everything through.
type RateLimiter struct {
	redis     *redis.Client
	perMinute int
	window    time.Duration
}

func NewRateLimiter(redisClient *redis.Client, perMinute int) *RateLimiter {
	return &RateLimiter{redis: redisClient, perMinute: perMinute, window: time.Minute}
}

// Limit returns a middleware counting requests under scope, keyed by
// session id when present and by client IP otherwise.
func (r *RateLimiter) Limit(scope string, sessionHeader string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r.redis == nil || r.perMinute <= 0 {
				return next(c)
			}

			if isSuspiciousUserAgent(c.Request().Header.Get("User-Agent")) {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "Access denied",
				})
			}

			caller := c.Request().Header.Get(sessionHeader)
			if caller == "" {
				caller = c.RealIP()
			}
			key := fmt.Sprintf("ratelimit:%s:%s", scope, caller)
			ctx := c.Request().Context()

			count, err := r.redis.Incr(ctx, key).Result()
			if err != nil {
				// fail open: the limiter must not take the queue down with it
				slog.Warn("rate limiter unavailable", "key", key, "error", err)
				return next(c)
			}
			if count == 1 {
				r.redis.Expire(ctx, key, r.window)
			}
			if count > int64(r.perMinute) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "Rate limit exceeded. Please try again later.",
				})
			}

			return next(c)
		}
	}
}

func isSuspiciousUserAgent(ua string) bool {
	suspicious := []string{"bot", "crawler", "spider", "scraper"}
	for _, pattern := range suspicious {
		if strings.Contains(strings.ToLower(ua), pattern) {
			return true
		}
	}
	return false
}
