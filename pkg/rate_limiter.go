package pkg

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter rejects requests from a client arriving faster than the
// configured interval. Compiles are heavyweight; one per client per interval
// is plenty for an editor that triggers on explicit user action.
type RateLimiter struct {
	lastRequest map[string]time.Time
	interval    time.Duration
	mu          sync.Mutex
}

func NewRateLimiter(interval time.Duration) *RateLimiter {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &RateLimiter{
		lastRequest: make(map[string]time.Time),
		interval:    interval,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		client := c.ClientIP()
		if client == "::1" {
			client = "localhost"
		}

		rl.mu.Lock()
		last, exists := rl.lastRequest[client]
		if exists && time.Since(last) < rl.interval {
			rl.mu.Unlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded, try again later",
			})
			return
		}
		rl.lastRequest[client] = time.Now()
		rl.mu.Unlock()

		c.Next()
	}
}
