package auth

import (
	"njatashiz_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token := lib.SessionToken(r)
	lib.ClearCookie(lib.AccessCookieName, w)

	if token == "" {
		gecho.Success(w,
			gecho.WithMessage("No session found"),
			gecho.Send(),
		)
		return
	}

	if err := arm.authService.Logout(r.Context(), token); err != nil {
		arm.logger.Warn("Failed to revoke session token during logout", gecho.Field("error", err))
	}

	gecho.Success(w,
		gecho.WithMessage("Logged out successfully"),
		gecho.Send(),
	)
}
