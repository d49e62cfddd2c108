package httpkit

import (
	"net/http"
	"sync"
	"time"

	"raf_pnp_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client's bucket survives without requests.
const limiterIdleTTL = 10 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	name  string
	limit rate.Limit
	burst int
	log   *logger.Logger
	now   func() time.Time

	mu      sync.Mutex
	clients map[string]*clientBucket
	swept   time.Time
}

// NewRateLimiter returns a limiter allowing limit requests per second with
// the given burst for each client IP. name appears in rejection logs.
func NewRateLimiter(name string, limit rate.Limit, burst int, log *logger.Logger) *RateLimiter {
	return &RateLimiter{
		name:    name,
		limit:   limit,
		burst:   burst,
		log:     log,
		now:     time.Now,
		clients: make(map[string]*clientBucket),
	}
}

// NewOutboundLimiter guards endpoints that make the server send WhatsApp
// messages or verification codes: five per minute per client.
func NewOutboundLimiter(log *logger.Logger) *RateLimiter {
	return NewRateLimiter("outbound", rate.Every(12*time.Second), 5, log)
}

// Allow reports whether the client at ip may proceed now.
func (l *RateLimiter) Allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.swept) > limiterIdleTTL {
		for key, b := range l.clients {
			if now.Sub(b.lastSeen) > limiterIdleTTL {
				delete(l.clients, key)
			}
		}
		l.swept = now
	}

	b, ok := l.clients[ip]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		if l.log != nil {
			l.log.RateLimited(l.name, c.ClientIP(), c.Request.URL.Path)
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
	}
}
