package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	loginMaxAttempts = 5
	loginCooldown    = 15 * time.Minute
	apiMaxRequests   = 100
	apiWindow        = time.Minute
)

// APIRateLimit is a fixed-window per-IP limiter. Disabled when Redis is not
// wired (rdb nil), so local development works without a Redis instance.
func APIRateLimit(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}
		ctx := context.Background()
		key := "ratelimit:api:" + c.ClientIP()

		requests, _ := rdb.Get(ctx, key).Int()
		if requests >= apiMaxRequests {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"message":     "too many requests, retry in a minute",
				"retry_after": int(apiWindow.Seconds()),
			})
			c.Abort()
			return
		}

		pipe := rdb.Pipeline()
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, apiWindow)
		pipe.Exec(ctx)

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", apiMaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", apiMaxRequests-requests-1))
		c.Next()
	}
}

// LoginRateLimit throttles failed logins per IP. Counting happens after the
// handler runs, keyed off the response status.
func LoginRateLimit(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}
		ctx := context.Background()
		ip := c.ClientIP()
		key := "ratelimit:login:" + ip
		cooldownKey := "ratelimit:login_cooldown:" + ip

		if rdb.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := rdb.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"message":     fmt.Sprintf("too many failed logins, retry in %d minutes", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		attempts, _ := rdb.Get(ctx, key).Int()
		if attempts >= loginMaxAttempts {
			rdb.Set(ctx, cooldownKey, "1", loginCooldown)
			rdb.Del(ctx, key)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"message":     fmt.Sprintf("too many failed logins, blocked for %d minutes", int(loginCooldown.Minutes())),
				"retry_after": int(loginCooldown.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			rdb.Incr(ctx, key)
			rdb.Expire(ctx, key, loginCooldown)
		case http.StatusOK:
			rdb.Del(ctx, key)
			rdb.Del(ctx, cooldownKey)
		}
	}
}
