package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// getClientIP extracts the real client IP from request headers
func (mw *Middleware) getClientIP(r *http.Request) string {
	// Try X-Forwarded-For first (if behind proxy/load balancer)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}

// endpointKey groups requests by route pattern so /sr/gallery/{id}/inquiry
// shares one counter across pieces
func endpointKey(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return r.Method + " " + pattern
		}
	}
	return r.Method + " " + strings.TrimSuffix(r.URL.Path, "/")
}

// AuthRateLimit limits login attempts
func (mw *Middleware) AuthRateLimit() func(http.Handler) http.Handler {
	return mw.RateLimit(mw.cfg.RateLimit.AuthLimit, mw.cfg.RateLimit.AuthWindow)
}

// InquiryRateLimit limits inquiry mails
func (mw *Middleware) InquiryRateLimit() func(http.Handler) http.Handler {
	return mw.RateLimit(mw.cfg.RateLimit.InquiryLimit, mw.cfg.RateLimit.InquiryWindow)
}

// RateLimit implements a fixed window limit per client and route. Cache
// errors let the request through.
func (mw *Middleware) RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled || mw.limiter == nil || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := mw.getClientIP(r)
			endpoint := endpointKey(r)

			count, err := mw.limiter.IncrementRateLimit(r.Context(), clientIP, endpoint, window)
			if err != nil {
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("ip", clientIP),
					gecho.Field("endpoint", endpoint),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, limit-count)))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(window).Unix()))

			if count > limit {
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("ip", clientIP),
					gecho.Field("endpoint", endpoint),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)

				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				gecho.TooManyRequests(w,
					gecho.WithMessage("Rate limit exceeded. Please try again later."),
					gecho.WithData(map[string]any{
						"limit":       limit,
						"window":      window.String(),
						"retry_after": int(window.Seconds()),
					}),
					gecho.Send(),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
