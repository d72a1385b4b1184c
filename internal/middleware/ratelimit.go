package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/client-onboarding/internal/httperr"
	"github.com/BruksfildServices01/client-onboarding/internal/logger"
)

// ======================================================
// PER-IP LIMITER
// ======================================================

type ipLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func (l *ipLimiter) get(key string) *rate.Limiter {
	if lim, ok := l.limiters.Load(key); ok {
		return lim.(*rate.Limiter)
	}

	actual, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	l.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose bucket is full again, at most every 5 minutes.
func (l *ipLimiter) maybeCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCleanup) < 5*time.Minute {
		return
	}
	l.lastCleanup = time.Now()

	l.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(l.burst) {
			l.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitPerMinute allows perMinute requests per client IP, all of them
// available as a burst. Zero disables the limit.
func RateLimitPerMinute(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	l := &ipLimiter{
		rate:        rate.Limit(float64(perMinute) / time.Minute.Seconds()),
		burst:       perMinute,
		lastCleanup: time.Now(),
	}

	return func(c *gin.Context) {
		key := c.ClientIP()
		lim := l.get(key)

		if !lim.Allow() {
			r := lim.Reserve()
			delay := r.Delay()
			r.Cancel()

			retryAfter := max(int(delay.Seconds()), 1)
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logger.FromContext(c.Request.Context(), zap.NewNop()).Warn("rate limit exceeded",
				zap.String("key", key),
				zap.String("endpoint", c.Request.URL.Path),
				zap.Int("retry_after", retryAfter),
			)

			httperr.TooManyRequests(c, "rate_limit_exceeded", "Too many requests. Please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}
