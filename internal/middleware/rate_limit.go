package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Counter counts hits on key inside a fixed window that starts at the first hit.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

type redisCounter struct {
	client redis.UniversalClient
}

// RedisCounter returns nil for a nil client, which turns rate limiting off.
func RedisCounter(client redis.UniversalClient) Counter {
	if client == nil {
		return nil
	}
	return &redisCounter{client: client}
}

func (r *redisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimit allows limit requests per window for each key. Counter errors let
// the request through.
func RateLimit(counter Counter, name string, limit int, window time.Duration, keyFn func(*gin.Context) string) gin.HandlerFunc {
	if counter == nil || limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := keyFn(c)
		if key == "" {
			c.Next()
			return
		}
		hits, err := counter.Hit(c.Request.Context(), "ratelimit:"+name+":"+key, window)
		if err != nil {
			log.WithError(err).WithField("limit", name).Warn("rate limit check failed")
			c.Next()
			return
		}
		remaining := int64(limit) - hits
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if hits > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many requests, slow down",
				"retry_after": int(window.Seconds()),
			})
			return
		}
		c.Next()
	}
}

// APIRateLimit limits requests per client IP.
func APIRateLimit(counter Counter, perMinute int) gin.HandlerFunc {
	return RateLimit(counter, "api", perMinute, time.Minute, func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// CartRateLimit limits cart additions per session.
func CartRateLimit(counter Counter, perMinute int) gin.HandlerFunc {
	return RateLimit(counter, "cart", perMinute, time.Minute, SessionID)
}
