package middleware

import (
	"context"
	"njatashiz_server/lib"
	"njatashiz_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

type contextKey string

const SessionContextKey contextKey = "session"

// AdminAuthMiddleware protects routes to only logged-in admins
func (mw *Middleware) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := lib.SessionToken(r)
		if token == "" {
			gecho.Unauthorized(w, gecho.WithMessage("Unauthorized"), gecho.Send())
			return
		}

		session, err := mw.sessions.VerifySession(r.Context(), token)
		if err != nil {
			mw.logger.Warn("Rejected admin request", gecho.Field("error", err), gecho.Field("path", r.URL.Path))
			gecho.Unauthorized(w, gecho.WithMessage("Unauthorized"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionFromContext returns the session stored by AdminAuthMiddleware
func GetSessionFromContext(ctx context.Context) (*structs.Session, bool) {
	session, ok := ctx.Value(SessionContextKey).(*structs.Session)
	return session, ok
}
