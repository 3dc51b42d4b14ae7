package admin

import (
	"njatashiz_server/api/middleware"
	"njatashiz_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger         *gecho.Logger
	galleryService *services.GalleryService
	pieceService   *services.PieceService
	mw             *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	galleryService *services.GalleryService,
	pieceService *services.PieceService,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:         logger,
		galleryService: galleryService,
		pieceService:   pieceService,
		mw:             mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.AdminAuthMiddleware)
		r.Get("/pieces", ar.ListPieces)
		r.Get("/pieces/{id}", ar.GetPiece)

		// Protected routes behind CSRF
		r.Group(func(r chi.Router) {
			r.Use(ar.mw.CSRFMiddleware())
			r.Post("/pieces", ar.CreatePiece)
			r.Put("/pieces/{id}", ar.UpdatePiece)
			r.Delete("/pieces/{id}", ar.DeletePiece)
		})
	})
}
