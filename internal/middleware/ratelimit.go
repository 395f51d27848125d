package middleware

import (
	"fmt"
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IPRateLimit applies the in-memory token bucket per client IP.
func IPRateLimit(l *ratelimit.IPLimiter, m *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			m.RateLimitedTotal.WithLabelValues("ip").Inc()
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// AuthRateLimit caps login and refresh attempts per IP across instances.
// A redis outage lets requests through.
func AuthRateLimit(w *ratelimit.RedisWindow, m *metrics.Collector, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter, err := w.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("auth rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			m.RateLimitedTotal.WithLabelValues("auth").Inc()
			c.Header("Retry-After", fmt.Sprint(int(retryAfter.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many authentication attempts"})
			return
		}
		c.Next()
	}
}
