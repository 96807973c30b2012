package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateCounter counts hits on key within a fixed window starting at the first hit.
type RateCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

type redisRateCounter struct {
	client *redis.Client
}

func NewRedisRateCounter(client *redis.Client) RateCounter {
	return &redisRateCounter{client: client}
}

func (r *redisRateCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		r.client.Expire(ctx, key, window)
	}
	return count, nil
}

// RateLimitMiddleware limits requests per scope and caller. Callers are identified by the
// authenticated user id, then client IP. Counter failures let the request through.
func RateLimitMiddleware(counter RateCounter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.GetString("user_id")
		if caller == "" {
			caller = "ip:" + c.ClientIP()
		}

		key := fmt.Sprintf("rate_limit:%s:%s", scope, caller)
		count, err := counter.Hit(c.Request.Context(), key, window)
		if err != nil {
			c.Next()
			return
		}

		if count > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
