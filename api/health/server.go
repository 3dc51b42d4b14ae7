package health

import (
	"context"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// GetReadiness reports 200 while the database answers, even when the cache
// is down, since the gallery falls back to reading from the database.
func (hrm *HealthRoutesManager) GetReadiness(w http.ResponseWriter, r *http.Request) {
	status := hrm.healthService.Readiness(r.Context())
	if !status.Ready {
		gecho.ServiceUnavailable(w,
			gecho.WithMessage("Gallery is not ready"),
			gecho.WithData(status),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(status),
		gecho.Send(),
	)
}

func (hrm *HealthRoutesManager) GetServerHealth(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(hrm.healthService.GetServerHealthStatus()),
		gecho.Send(),
	)
}

func (hrm *HealthRoutesManager) GetDatabaseHealth(w http.ResponseWriter, r *http.Request) {
	writeDependency(w, r, "Database health check failed", hrm.healthService.GetDatabaseHealthStatus)
}

func (hrm *HealthRoutesManager) GetCacheHealth(w http.ResponseWriter, r *http.Request) {
	writeDependency(w, r, "Cache health check failed", hrm.healthService.GetCacheHealthStatus)
}

func writeDependency[S any](w http.ResponseWriter, r *http.Request, failure string, check func(context.Context) (S, error)) {
	status, err := check(r.Context())
	if err != nil {
		gecho.ServiceUnavailable(w,
			gecho.WithMessage(failure),
			gecho.WithData(status),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(status),
		gecho.Send(),
	)
}
