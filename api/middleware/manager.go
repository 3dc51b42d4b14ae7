package middleware

import (
	"context"
	"njatashiz_server/services"
	"njatashiz_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
)

// RateLimiter counts requests per client and endpoint in a fixed window
type RateLimiter interface {
	IncrementRateLimit(ctx context.Context, ip, endpoint string, window time.Duration) (int, error)
}

type Middleware struct {
	logger   *gecho.Logger
	cfg      *structs.Config
	sessions services.SessionVerifier
	limiter  RateLimiter
}

// NewMiddleware creates the middleware set; limiter may be nil, which
// disables rate limiting
func NewMiddleware(logger *gecho.Logger, cfg *structs.Config, sessions services.SessionVerifier, limiter RateLimiter) *Middleware {
	return &Middleware{
		logger:   logger,
		cfg:      cfg,
		sessions: sessions,
		limiter:  limiter,
	}
}
