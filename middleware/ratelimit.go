package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit applies a per-client-IP token bucket. r is the refill rate in
// requests per second, b the burst. Buckets idle for over ten minutes are
// dropped so the map stays bounded.
func RateLimit(r rate.Limit, b int) gin.HandlerFunc {
	type bucket struct {
		lim  *rate.Limiter
		seen time.Time
	}
	var (
		mu      sync.Mutex
		buckets = map[string]*bucket{}
	)

	go func() {
		for range time.Tick(5 * time.Minute) {
			cutoff := time.Now().Add(-10 * time.Minute)
			mu.Lock()
			for ip, bk := range buckets {
				if bk.seen.Before(cutoff) {
					delete(buckets, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		bk, ok := buckets[ip]
		if !ok {
			bk = &bucket{lim: rate.NewLimiter(r, b)}
			buckets[ip] = bk
		}
		bk.seen = time.Now()
		mu.Unlock()

		if !bk.lim.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
