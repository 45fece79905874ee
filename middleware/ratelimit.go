package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type visitorTable struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

func (t *visitorTable) get(ip string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.rps, t.burst)}
		t.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (t *visitorTable) sweep(olderThan time.Duration) {
	cutoff := time.Now().Add(-olderThan)
	t.mu.Lock()
	for ip, v := range t.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(t.visitors, ip)
		}
	}
	t.mu.Unlock()
}

// RateLimit applies a per-IP token bucket. r is the refill rate in
// requests per second, b the burst size. Idle buckets are swept so the
// table does not grow without bound.
func RateLimit(r rate.Limit, b int) gin.HandlerFunc {
	table := &visitorTable{
		visitors: make(map[string]*visitor),
		rps:      r,
		burst:    b,
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			table.sweep(10 * time.Minute)
		}
	}()

	return func(c *gin.Context) {
		if !table.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
