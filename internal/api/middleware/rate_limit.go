package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kuomat/penn-labs/pkg/redis"
	"github.com/kuomat/penn-labs/pkg/response"
)

// IPRateLimiter 进程内按 IP 限流（令牌桶）
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiterEntry
	rate     rate.Limit
	burst    int
}

type ipLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewIPRateLimiter window 内平均 limit 次，允许 limit 次突发
func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*ipLimiterEntry),
		rate:     rate.Limit(float64(limit) / window.Seconds()),
		burst:    limit,
	}
}

// Allow 本次请求是否放行
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastAccess = time.Now()
	limiter := entry.limiter
	l.mu.Unlock()

	return limiter.Allow()
}

// Cleanup 移除 idle 时长内未访问的条目
func (l *IPRateLimiter) Cleanup(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	threshold := time.Now().Add(-idle)
	for ip, entry := range l.limiters {
		if !entry.lastAccess.After(threshold) {
			delete(l.limiters, ip)
		}
	}
}

// RateLimit 按客户端 IP 限流
// rdb 非 nil 时使用 Redis 滑动窗口，Redis 出错或未配置时降级为进程内限流
func RateLimit(rdb *redis.Client, local *IPRateLimiter, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed := true
		useLocal := rdb == nil
		if rdb != nil {
			ok, err := rdb.CheckRateLimit(c.Request.Context(), "login:"+ip, limit, window)
			if err != nil {
				logger.Warn("Redis 限流失败，降级为本地限流", zap.Error(err))
				useLocal = true
			} else {
				allowed = ok
			}
		}
		if useLocal && local != nil {
			allowed = local.Allow(ip)
		}

		if !allowed {
			response.TooManyRequests(c, "too many requests, try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
