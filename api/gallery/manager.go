package gallery

import (
	"njatashiz_server/api/middleware"
	"njatashiz_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type GalleryRoutesManager struct {
	logger         *gecho.Logger
	galleryService *services.GalleryService
	emailService   *services.EmailService
	mw             *middleware.Middleware
}

func NewGalleryRoutesManager(
	logger *gecho.Logger,
	galleryService *services.GalleryService,
	emailService *services.EmailService,
	mw *middleware.Middleware,
) *GalleryRoutesManager {
	return &GalleryRoutesManager{
		logger:         logger,
		galleryService: galleryService,
		emailService:   emailService,
		mw:             mw,
	}
}

func (grm *GalleryRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/gallery", grm.RedirectToLocale)
	r.Get("/categories", grm.ListCategories)

	r.Route("/{locale}/gallery", func(r chi.Router) {
		r.Get("/", grm.ListPieces)
		r.Get("/{id}", grm.GetPiece)

		r.With(grm.mw.CSRFMiddleware(), grm.mw.InquiryRateLimit()).
			Post("/{id}/inquiry", grm.SendInquiry)
	})
}
