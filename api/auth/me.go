package auth

import (
	"njatashiz_server/api/middleware"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("Unauthorized"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(session),
		gecho.Send(),
	)
}
