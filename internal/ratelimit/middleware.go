package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"notify-gateway/internal/store"

	"github.com/gin-gonic/gin"
)

// Middleware applies the general per-caller API limit, keyed by client
// IP (X-Forwarded-For preferred behind a proxy). Degraded decisions
// pass through without headers.
func Middleware(l *Limiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.GetHeader("X-Forwarded-For")
		if ip == "" {
			ip = c.ClientIP()
		}
		clientID := "ip:" + strings.TrimSpace(strings.Split(ip, ",")[0])

		d := l.Check(c.Request.Context(), store.NamespaceAPIRate, clientID, limit, window)
		if d.Degraded {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
