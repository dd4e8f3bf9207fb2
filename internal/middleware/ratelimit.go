package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/traini8/traini8/internal/database"
	"golang.org/x/time/rate"
)

type limitResult struct {
	Allowed   bool
	Remaining int
	Reset     time.Duration
}

type limiter interface {
	Allow(ctx context.Context, key string) (limitResult, error)
	Limit() int
}

// RateLimit rejects requests once a client exceeds the configured limit.
// Limiter errors fail open.
func (m *Middleware) RateLimit(keyFn func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.cfg.RateLimiting.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			key := fmt.Sprintf("ratelimit:%s:%s", r.URL.Path, keyFn(r))
			res, err := m.limiter.Allow(r.Context(), key)
			if err != nil {
				m.log.Error().Err(err).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.limiter.Limit()))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.Reset).Unix(), 10))

			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.FormatInt(int64(res.Reset.Seconds()+0.5), 10))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"Too many requests. Please try again later."}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// redisLimiter is a fixed-window counter shared by every instance
type redisLimiter struct {
	rdb    *database.Redis
	limit  int
	window time.Duration
}

func (l *redisLimiter) Limit() int { return l.limit }

func (l *redisLimiter) Allow(ctx context.Context, key string) (limitResult, error) {
	count, ttl, err := l.rdb.IncrWindow(ctx, key, l.window)
	if err != nil {
		return limitResult{}, err
	}
	if ttl < 0 {
		ttl = l.window
	}
	return limitResult{
		Allowed:   int(count) <= l.limit,
		Remaining: max(0, l.limit-int(count)),
		Reset:     ttl,
	}, nil
}

// memoryLimiter is a per-key token bucket refilling limit tokens per window
type memoryLimiter struct {
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	limit     int
	rps       rate.Limit
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type memoryEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newMemoryLimiter(limit int, window time.Duration) *memoryLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryLimiter{
		entries: make(map[string]*memoryEntry),
		limit:   limit,
		rps:     rate.Limit(float64(limit) / window.Seconds()),
		idleTTL: 2 * window,
		now:     time.Now,
	}
}

func (l *memoryLimiter) Limit() int { return l.limit }

func (l *memoryLimiter) Allow(_ context.Context, key string) (limitResult, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.idleTTL {
		l.sweep(now)
	}

	ent, ok := l.entries[key]
	if !ok {
		ent = &memoryEntry{lim: rate.NewLimiter(l.rps, l.limit)}
		l.entries[key] = ent
	}
	ent.lastSeen = now

	allowed := ent.lim.AllowN(now, 1)
	tokens := ent.lim.TokensAt(now)

	res := limitResult{Allowed: allowed, Remaining: max(0, int(tokens))}
	if tokens < 1 {
		res.Reset = time.Duration((1 - tokens) / float64(l.rps) * float64(time.Second))
	}
	return res, nil
}

// sweep drops limiters idle for longer than idleTTL. Caller holds l.mu.
func (l *memoryLimiter) sweep(now time.Time) {
	cutoff := now.Add(-l.idleTTL)
	for k, ent := range l.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(l.entries, k)
		}
	}
	l.lastSweep = now
}
