// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/integration/entrypoint/dto"
)

const (
	// defaultMaxRequests is the default number of scans allowed per window.
	defaultMaxRequests = 10
	// defaultWindowDuration is the default time window for rate limiting.
	defaultWindowDuration = 1 * time.Minute
	// sweepEvery is how many decisions pass between removals of expired windows.
	sweepEvery = 256
)

// window tracks the requests of a single key in the current window.
type window struct {
	requests int
	resetAt  time.Time
}

// decision is the outcome of a rate limit check.
type decision struct {
	allowed    bool
	remaining  int
	retryAfter time.Duration
}

// RateLimiter provides fixed-window rate limiting keyed by the authenticated
// user, or by client IP for anonymous requests.
type RateLimiter struct {
	mu          sync.Mutex
	windows     map[string]*window
	maxRequests int
	duration    time.Duration
	decisions   int
	now         func() time.Time
}

// NewRateLimiterWithConfig creates a new rate limiter with custom settings.
// Non-positive values fall back to the defaults.
func NewRateLimiterWithConfig(maxRequests int, duration time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = defaultMaxRequests
	}
	if duration <= 0 {
		duration = defaultWindowDuration
	}
	return &RateLimiter{
		windows:     make(map[string]*window),
		maxRequests: maxRequests,
		duration:    duration,
		now:         time.Now,
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
// It must run after authentication so requests are keyed by user.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := rl.check(rateLimitKey(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.remaining))

		if !d.allowed {
			seconds := int(math.Ceil(d.retryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many scan requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			return
		}

		c.Next()
	}
}

func rateLimitKey(c *gin.Context) string {
	if userID, ok := GetUserIDFromContext(c); ok {
		return "user:" + userID.String()
	}

	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = c.Request.RemoteAddr
	}
	return "ip:" + clientIP
}

// check records a request for key and reports whether it may proceed.
func (rl *RateLimiter) check(key string) decision {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	rl.decisions++
	if rl.decisions%sweepEvery == 0 {
		rl.sweep(now)
	}

	w, ok := rl.windows[key]
	if !ok || !now.Before(w.resetAt) {
		rl.windows[key] = &window{requests: 1, resetAt: now.Add(rl.duration)}
		return decision{allowed: true, remaining: rl.maxRequests - 1}
	}

	if w.requests >= rl.maxRequests {
		return decision{retryAfter: w.resetAt.Sub(now)}
	}

	w.requests++
	return decision{allowed: true, remaining: rl.maxRequests - w.requests}
}

// sweep drops windows that have already expired. Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, w := range rl.windows {
		if !now.Before(w.resetAt) {
			delete(rl.windows, key)
		}
	}
}
