package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"gymflow/internal/apperr"
	"gymflow/internal/audit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter allows each client IP perMinute requests per minute, with
// bursts up to the same amount.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	audit     *audit.Logger
	now       func() time.Time
}

func NewRateLimiter(perMinute int, auditLog *audit.Logger) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 50
	}
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		audit:   auditLog,
		now:     time.Now,
	}
}

// reserve takes a token for ip and returns how long the caller must wait
// when none is left.
func (l *RateLimiter) reserve(ip string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for key, client := range l.clients {
			if now.Sub(client.lastSeen) > limiterIdleTTL {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}

	client, ok := l.clients[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = client
	}
	client.lastSeen = now

	r := client.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
	}
	return delay
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		delay := l.reserve(c.ClientIP())
		if delay <= 0 {
			c.Next()
			return
		}

		retryAfter := int(math.Ceil(delay.Seconds()))
		l.audit.Record(c.Request.Context(), audit.RateLimited, zap.Int("retry_after", retryAfter))
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		abort(c, apperr.ErrRateLimited.With("retryAfter", retryAfter))
	}
}
