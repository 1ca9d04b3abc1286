package httputil

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// RateLimiter throttles each authenticated user independently.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[uuid.UUID]*entry
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewRateLimiter allows perSecond events per user with the given burst.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[uuid.UUID]*entry),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

// Allow reports whether user may act now and consumes a token if so.
func (l *RateLimiter) Allow(user uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.limiters[user]
	if !ok {
		l.prune(now)
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[user] = e
	}
	e.lastUsed = now
	return e.limiter.AllowN(now, 1)
}

// prune drops limiters unused for longer than idle; they would be full again.
func (l *RateLimiter) prune(now time.Time) {
	for user, e := range l.limiters {
		if now.Sub(e.lastUsed) > l.idle {
			delete(l.limiters, user)
		}
	}
}

// Middleware answers 429 once the caller exceeds the limit. It must run after
// the authenticator.
func (l *RateLimiter) Middleware() Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			uid, err := UserID(ctx)
			if err == nil && !l.Allow(uid) {
				WriteErrorResponse(ctx, "rate limit exceeded", fasthttp.StatusTooManyRequests)
				return
			}
			next(ctx)
		}
	}
}
