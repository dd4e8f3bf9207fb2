package middleware

import (
	"github.com/traini8/traini8/internal/config"
	"github.com/traini8/traini8/internal/database"
	"github.com/traini8/traini8/internal/logger"
)

// Middleware holds all HTTP middleware
type Middleware struct {
	log     *logger.Logger
	cfg     *config.Config
	limiter limiter
}

// New creates a new Middleware instance. rdb may be nil when Redis is disabled,
// in which case rate limiting falls back to the in-process limiter.
func New(rdb *database.Redis, log *logger.Logger, cfg *config.Config) *Middleware {
	m := &Middleware{
		log: log.WithComponent("middleware"),
		cfg: cfg,
	}

	rl := cfg.RateLimiting
	if rl.Backend == "redis" && rdb != nil {
		m.limiter = &redisLimiter{rdb: rdb, limit: rl.Limit, window: rl.Window}
	} else {
		m.limiter = newMemoryLimiter(rl.Limit, rl.Window)
	}
	return m
}
