package middleware

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wandero/wanderobackend/httperr"
)

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter is an in-process token bucket per client IP. The budget
// refills continuously, a full window restores the full budget.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	max     float64
	window  time.Duration
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		max:     float64(max),
		window:  window,
	}
}

func (rl *RateLimiter) allow(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.max, lastSeen: now}
		rl.buckets[key] = b
	}

	refill := now.Sub(b.lastSeen).Seconds() * rl.max / rl.window.Seconds()
	b.tokens = math.Min(rl.max, b.tokens+refill)
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// prune drops buckets idle long enough to have refilled completely.
func (rl *RateLimiter) prune(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > rl.window {
			delete(rl.buckets, key)
		}
	}
}

// Janitor prunes idle buckets until the context ends. Run it in its own
// goroutine.
func (rl *RateLimiter) Janitor(ctx context.Context) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.prune(now)
		}
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			abort(c, httperr.RateLimited("too many requests from this IP, please try again later"))
			return
		}
		c.Next()
	}
}
