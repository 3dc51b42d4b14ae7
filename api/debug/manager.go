package debug

import (
	"njatashiz_server/api/middleware"
	"njatashiz_server/config"
	"njatashiz_server/services"

	"github.com/go-chi/chi/v5"
)

type DebugRoutesManager struct {
	cacheService *services.CacheService
	mw           *middleware.Middleware
}

// NewDebugRoutesManager creates the debug routes; cacheService may be nil
func NewDebugRoutesManager(cacheService *services.CacheService, mw *middleware.Middleware) *DebugRoutesManager {
	return &DebugRoutesManager{
		cacheService: cacheService,
		mw:           mw,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	// Debug routes - only in non-production environments
	if config.IsProduction() || drm.cacheService == nil {
		return
	}

	r.Route("/debug", func(r chi.Router) {
		r.Use(drm.mw.AdminAuthMiddleware)
		r.Get("/cache/stats", drm.CacheStats)
		r.Post("/cache/clear", drm.ClearCache)
	})
}
