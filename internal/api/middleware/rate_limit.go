package middleware

import (
	"sync"
	"time"

	"comment-go/internal/api/response"
	"comment-go/internal/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterSweepEvery = 5 * time.Minute
)

type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

// IPRateLimiter 按客户端 IP 的令牌桶限流
type IPRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterInfo
	every     time.Duration
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(cfg *config.RateLimitConfig) *IPRateLimiter {
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{
		limiters:  make(map[string]*limiterInfo),
		every:     time.Minute / time.Duration(perMinute),
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow 判断该 IP 此刻能否再发一次请求
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterSweepEvery {
		for key, info := range l.limiters {
			if now.Sub(info.lastAccessed) > limiterIdleTTL {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}

	info, ok := l.limiters[ip]
	if !ok {
		info = &limiterInfo{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.limiters[ip] = info
	}
	info.lastAccessed = now

	return info.limiter.AllowN(now, 1)
}

// RateLimit 超出频率时返回 429
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			response.TooManyRequests(c, "提交过于频繁，请稍后再试")
			c.Abort()
			return
		}
		c.Next()
	}
}
