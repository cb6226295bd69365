package mw

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// idleLimiter is how long an unused client bucket is kept.
const idleLimiter = 10 * time.Minute

// Limiter stores a token bucket for each client key. Buckets of clients
// that stay quiet for idleLimiter are dropped.
type Limiter struct {
	buckets *cache.Cache
	mu      sync.Mutex
	r       rate.Limit
	b       int
}

// NewLimiter creates a Limiter allowing r events per second with burst b.
func NewLimiter(r rate.Limit, b int) *Limiter {
	return &Limiter{
		buckets: cache.New(idleLimiter, idleLimiter),
		r:       r,
		b:       b,
	}
}

// Get returns the bucket of key, creating it on first use.
func (l *Limiter) Get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.buckets.Get(key); ok {
		limiter := v.(*rate.Limiter)
		l.buckets.SetDefault(key, limiter)
		return limiter
	}
	limiter := rate.NewLimiter(l.r, l.b)
	l.buckets.SetDefault(key, limiter)
	return limiter
}

// Allow reports whether key may perform one more request now.
func (l *Limiter) Allow(key string) bool {
	return l.Get(key).Allow()
}

// RateLimit is a middleware limiting requests per client IP.
func RateLimit(l *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		c.Header("Retry-After", "1")
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Quá nhiều yêu cầu, vui lòng thử lại sau."})
			return
		}
		c.AbortWithStatus(http.StatusTooManyRequests)
	}
}
