package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"safegenie/pkg/errors"
	"safegenie/pkg/metrics"
)

type Config struct {
	Window          time.Duration
	Quota           int64
	CleanupInterval time.Duration
	MaxAge          time.Duration
}

func DefaultConfig() Config {
	return Config{
		Window:          60 * time.Second,
		Quota:           20,
		CleanupInterval: 5 * time.Minute,
		MaxAge:          10 * time.Minute,
	}
}

// Middleware gates requests per client IP with a fixed-window counter.
// A store failure admits the request: for an emergency endpoint,
// availability wins over strict accounting. The store owns its own cleanup
// lifecycle; the middleware only counts.
func Middleware(config Config, store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientKey := c.ClientIP()
		if clientKey == "" {
			clientKey = c.RemoteIP()
		}

		count, err := store.Incr(c.Request.Context(), clientKey, config.Window)
		if err != nil {
			metrics.RateLimitStoreErrorsTotal.Inc()
			c.Next()
			return
		}

		if count > config.Quota {
			metrics.RateLimitRequestsTotal.WithLabelValues("limited").Inc()
			c.Header("X-RateLimit-Limit", strconv.FormatInt(config.Quota, 10))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(config.Window.Seconds())))
			c.JSON(http.StatusTooManyRequests, errors.ToErrorResponse(errors.ErrRateLimited))
			c.Abort()
			return
		}

		metrics.RateLimitRequestsTotal.WithLabelValues("allowed").Inc()

		remaining := config.Quota - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(config.Quota, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		c.Next()
	}
}
