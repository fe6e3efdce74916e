package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"cruzados-backend/internal/shared/server/respond"
)

// Rate limit groups.
const (
	RateLimitDefault = "DEFAULT"
	RateLimitForms   = "FORMS"
)

const msgRateLimited = "Demasiadas peticiones. Probad de nuevo en unos instantes."

// RateLimitRule is a token bucket refilled at Rate tokens per second and
// holding at most Burst tokens.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

func (r RateLimitRule) unlimited() bool {
	return r.Rate <= 0 || r.Burst <= 0
}

// RateLimitConfig maps groups to rules. A group without a rule is not
// limited.
type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

// RateLimiter keeps one bucket per caller and group. Buckets idle for
// longer than IdleTTL are dropped on the next sweep.
type RateLimiter struct {
	IdleTTL time.Duration

	mu        sync.Mutex
	buckets   map[bucketKey]*rateBucket
	now       func() time.Time
	lastSweep time.Time
}

type bucketKey struct {
	caller string
	group  string
}

type rateBucket struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter builds a limiter; a nil now uses time.Now.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		IdleTTL: 10 * time.Minute,
		buckets: make(map[bucketKey]*rateBucket),
		now:     now,
	}
}

// RateLimit throttles each signed-in member by user id and anonymous
// callers by client IP.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = NewRateLimiter(nil)
	}
	fallback := cfg.DefaultGroup
	if fallback == "" {
		fallback = RateLimitDefault
	}

	return func(c *gin.Context) {
		group := fallback
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}

		caller := UserIDFromContext(c)
		if caller == "" {
			caller = "ip:" + c.ClientIP()
		}
		allowed, wait := limiter.take(bucketKey{caller: caller, group: group}, rule)
		if allowed {
			c.Next()
			return
		}

		waitMs := wait.Milliseconds()
		if waitMs <= 0 {
			waitMs = 1000
		}
		c.Header("Retry-After", strconv.FormatInt(int64(math.Ceil(float64(waitMs)/1000)), 10))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", msgRateLimited, gin.H{
			"retryAfterMs": waitMs,
		})
	}
}

// Allow takes a token for key under rule, or reports how long until one is
// available.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	return l.take(bucketKey{caller: key}, rule)
}

func (l *RateLimiter) take(key bucketKey, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.unlimited() {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &rateBucket{tokens: float64(rule.Burst), seen: now}
		l.buckets[key] = b
	}
	if elapsed := now.Sub(b.seen).Seconds(); elapsed > 0 {
		b.tokens = math.Min(float64(rule.Burst), b.tokens+elapsed*rule.Rate)
	}
	b.seen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	wait := (1 - b.tokens) / rule.Rate
	return false, time.Duration(math.Ceil(wait*1000)) * time.Millisecond
}

// sweep drops idle buckets at most once per IdleTTL. Callers hold l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	if l.IdleTTL <= 0 || now.Sub(l.lastSweep) < l.IdleTTL {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.seen) >= l.IdleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// size reports the tracked bucket count.
func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
