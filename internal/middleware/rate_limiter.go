package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	every    rate.Limit
	burst    int
	idle     time.Duration
	log      *zap.Logger
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(perMinute int, log *zap.Logger) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 120
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RateLimiter{
		limiters: make(map[string]*visitor),
		every:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		idle:     10 * time.Minute,
		log:      log,
	}
}

func (rl *RateLimiter) get(ip string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.limiters[ip] = v
	}
	v.lastSeen = now

	// Forget idle visitors once the map grows.
	if len(rl.limiters) > 10000 {
		for k, old := range rl.limiters {
			if now.Sub(old.lastSeen) > rl.idle {
				delete(rl.limiters, k)
			}
		}
	}
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.get(ip, time.Now()).Allow() {
			rl.log.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error_code": "rate_limited",
				"message":    "Too many requests. Try again later.",
			})
			return
		}
		c.Next()
	}
}
