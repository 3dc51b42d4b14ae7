package middleware

import (
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
)

// SetupLoggerMiddleware logs every request except metrics scrapes and
// uploaded media, which would drown out the gallery and admin traffic.
func (mw *Middleware) SetupLoggerMiddleware() func(http.Handler) http.Handler {
	logged := gecho.Handlers.CreateLoggingMiddleware(mw.logger)
	mediaPrefix := "/" + strings.Trim(mw.cfg.Storage.PublicPath, "/") + "/"

	return func(next http.Handler) http.Handler {
		withLog := logged(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" || strings.HasPrefix(r.URL.Path, mediaPrefix) {
				next.ServeHTTP(w, r)
				return
			}
			withLog.ServeHTTP(w, r)
		})
	}
}
