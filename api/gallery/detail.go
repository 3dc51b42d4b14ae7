package gallery

import (
	"errors"
	"net/http"
	"njatashiz_server/handling"
	"njatashiz_server/lib"
	"njatashiz_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// loadPiece resolves the locale and id path parameters to a published piece.
// It writes the error response itself and returns false on failure.
func (grm *GalleryRoutesManager) loadPiece(w http.ResponseWriter, r *http.Request) (*structs.PieceDetail, bool) {
	q, err := handling.ParseGalleryQuery(r)
	if err != nil {
		gecho.NotFound(w, gecho.WithMessage("Piece not found"), gecho.Send())
		return nil, false
	}

	id, err := handling.ParsePieceID(r)
	if err != nil {
		gecho.NotFound(w, gecho.WithMessage("Piece not found"), gecho.Send())
		return nil, false
	}

	return grm.piece(w, r, id, q.Locale)
}

func (grm *GalleryRoutesManager) piece(w http.ResponseWriter, r *http.Request, id uuid.UUID, locale structs.Locale) (*structs.PieceDetail, bool) {
	detail, err := grm.galleryService.Piece(r.Context(), id, locale)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			gecho.NotFound(w, gecho.WithMessage("Piece not found"), gecho.Send())
			return nil, false
		}
		handling.HandleError(err, "failed to load piece", grm.logger, w)
		return nil, false
	}
	return detail, true
}

// GetPiece handles GET /{locale}/gallery/{id}
func (grm *GalleryRoutesManager) GetPiece(w http.ResponseWriter, r *http.Request) {
	detail, ok := grm.loadPiece(w, r)
	if !ok {
		return
	}

	gecho.Success(w,
		gecho.WithData(detail),
		gecho.Send(),
	)
}
