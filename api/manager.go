package api

import (
	"njatashiz_server/api/admin"
	"njatashiz_server/api/auth"
	"njatashiz_server/api/debug"
	"njatashiz_server/api/gallery"
	"njatashiz_server/api/health"

	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	galleryRoutes *gallery.GalleryRoutesManager
	healthRoutes  *health.HealthRoutesManager
	authRoutes    *auth.AuthRoutesManager
	adminRoutes   *admin.AdminRoutesManager
	debugRoutes   *debug.DebugRoutesManager
}

func NewRouterManager(
	galleryRoutes *gallery.GalleryRoutesManager,
	healthRoutes *health.HealthRoutesManager,
	authRoutes *auth.AuthRoutesManager,
	adminRoutes *admin.AdminRoutesManager,
	debugRoutes *debug.DebugRoutesManager,
) *routerManager {
	return &routerManager{
		galleryRoutes: galleryRoutes,
		healthRoutes:  healthRoutes,
		authRoutes:    authRoutes,
		adminRoutes:   adminRoutes,
		debugRoutes:   debugRoutes,
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.galleryRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)
}
