package middleware

import (
	"log"
	"net/http"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware applies a per-client-IP sliding-window limit backed by
// Redis, so the limit holds across gateway replicas. The limiter fails open:
// if Redis is unreachable the request is allowed and the error logged, since
// dropping traffic on a cache outage would be worse than briefly not
// limiting it.
func RateLimitMiddleware(client *redis.Client, perMinute int) gin.HandlerFunc {
	limiter := redis_rate.NewLimiter(client)
	limit := redis_rate.PerMinute(perMinute)

	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), "ratelimit:"+c.ClientIP(), limit)
		if err != nil {
			log.Printf("Rate limiter unavailable, failing open: %v", err)
			c.Next()
			return
		}
		if res.Allowed == 0 {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
