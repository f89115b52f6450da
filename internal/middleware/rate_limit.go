package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	sweepInterval = 5 * time.Minute
	idleTTL       = 10 * time.Minute
)

// RateLimiter throttles mutations per client address with a token bucket each
type RateLimiter struct {
	perMinute int
	burst     int
	every     rate.Limit

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// verdict is the outcome of one take from a client's bucket
type verdict struct {
	allowed    bool
	remaining  int
	retryAfter time.Duration
}

// NewRateLimiter allows perMinute mutations per client on average with bursts of
// up to burst. Call Stop to end the idle-bucket sweeper.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	rl := &RateLimiter{
		perMinute: perMinute,
		burst:     burst,
		every:     rate.Every(time.Minute / time.Duration(perMinute)),
		buckets:   make(map[string]*bucket),
		stop:      make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Allow takes one token for the client and reports whether it was available
func (r *RateLimiter) Allow(client string) bool {
	return r.take(client, time.Now()).allowed
}

func (r *RateLimiter) take(client string, now time.Time) verdict {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[client]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(r.every, r.burst)}
		r.buckets[client] = b
	}
	b.lastSeen = now

	res := b.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return verdict{retryAfter: delay}
	}
	return verdict{allowed: true, remaining: int(b.limiter.TokensAt(now))}
}

func (r *RateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			r.mu.Lock()
			for client, b := range r.buckets {
				if now.Sub(b.lastSeen) > idleTTL {
					delete(r.buckets, client)
				}
			}
			r.mu.Unlock()
		case <-r.stop:
			return
		}
	}
}

// Stop ends the sweeper; safe to call more than once
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// RateLimitMiddleware throttles POST, PUT, PATCH and DELETE by c.RealIP().
// Reads pass through untouched.
func RateLimitMiddleware(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !isMutation(c.Request().Method) {
				return next(c)
			}

			client := c.RealIP()
			v := rl.take(client, time.Now())
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rl.perMinute))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(v.remaining))

			if !v.allowed {
				seconds := int(v.retryAfter.Round(time.Second) / time.Second)
				if seconds < 1 {
					seconds = 1
				}
				h.Set("Retry-After", strconv.Itoa(seconds))
				log.Warn().
					Str("client", client).
					Str("method", c.Request().Method).
					Str("path", c.Request().URL.Path).
					Int("retry_after", seconds).
					Msg("Mutation rate limit exceeded")
				return rateLimitedError(c, "Too many changes. Please retry after "+strconv.Itoa(seconds)+" seconds.")
			}

			return next(c)
		}
	}
}
