package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// RateLimiter is a fixed-window counter per client IP kept in redis.
// A nil client or an unreachable redis lets every request through.
type RateLimiter struct {
	redisClient *redis.Client
}

// NewRateLimiter creates a limiter; client may be nil
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{redisClient: client}
}

// Limit allows at most limit requests per window for each client IP under keySuffix
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.redisClient == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, c.ClientIP())
		ctx := c.Request.Context()

		count, err := rl.hit(ctx, key, window)
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		if count > int64(limit) {
			ttl, err := rl.redisClient.TTL(ctx, key).Result()
			if err != nil || ttl < 0 {
				ttl = window
			}
			seconds := int(ttl.Round(time.Second).Seconds())
			c.Header("Retry-After", strconv.Itoa(seconds))

			errorDetail := dto.NewErrorDetail(dto.ErrorCodeRateLimited, "Too many requests")
			errorDetail = errorDetail.WithDetails(map[string]interface{}{"retryAfterSeconds": seconds})
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}

// hit counts one request and opens the window on the first one. INCR and EXPIRE NX
// run in one MULTI so a counter never outlives its window.
func (rl *RateLimiter) hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := rl.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
