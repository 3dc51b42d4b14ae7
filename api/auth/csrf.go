package auth

import (
	"njatashiz_server/lib"
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
)

// HandleCSRF generates and sets a CSRF token
func (arm *AuthRoutesManager) HandleCSRF(w http.ResponseWriter, r *http.Request) {
	token, err := lib.GenerateRandomToken()
	if err != nil {
		arm.logger.Error("Failed to generate CSRF token", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to generate CSRF token"),
			gecho.Send(),
		)
		return
	}

	expiry := time.Now().Add(arm.cfg.Auth.CSRFTokenExpiry)
	lib.SetCSRFCookie(token, expiry, w)

	arm.logger.Debug("CSRF token issued",
		gecho.Field("origin", r.Header.Get("Origin")),
		gecho.Field("expiry", expiry),
	)

	gecho.Success(w,
		gecho.WithData(map[string]string{
			"csrf_token": token,
		}),
		gecho.Send(),
	)
}
