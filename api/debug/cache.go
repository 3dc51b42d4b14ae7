package debug

import (
	"net/http"
	"njatashiz_server/services"

	"github.com/MonkyMars/gecho"
)

// ClearCache drops every cached gallery and admin representation
func (drm *DebugRoutesManager) ClearCache(w http.ResponseWriter, r *http.Request) {
	for _, path := range []string{services.AdminListPath, services.GalleryListPath} {
		if err := drm.cacheService.Invalidate(r.Context(), path); err != nil {
			gecho.InternalServerError(w,
				gecho.WithMessage("Failed to clear cache"),
				gecho.Send(),
			)
			return
		}
	}
	if _, err := drm.cacheService.DeletePattern(r.Context(), services.PieceCachePattern); err != nil {
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to clear cache"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Cache cleared"),
		gecho.Send(),
	)
}

func (drm *DebugRoutesManager) CacheStats(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(drm.cacheService.GetConnectionStats()),
		gecho.Send(),
	)
}
