package admin

import (
	"errors"
	"net/http"
	"njatashiz_server/handling"
	"njatashiz_server/lib"

	"github.com/MonkyMars/gecho"
)

// ListPieces returns every piece with all translations, published or not
func (ar *AdminRoutesManager) ListPieces(w http.ResponseWriter, r *http.Request) {
	pieces, err := ar.galleryService.AdminPieces(r.Context())
	if err != nil {
		handling.HandleError(err, "failed to list pieces", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(pieces),
		gecho.Send(),
	)
}

// GetPiece loads a piece for the editor
func (ar *AdminRoutesManager) GetPiece(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParsePieceID(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid piece id"), gecho.Send())
		return
	}

	piece, err := ar.galleryService.AdminPiece(r.Context(), id)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			gecho.NotFound(w, gecho.WithMessage("Piece not found"), gecho.Send())
			return
		}
		handling.HandleError(err, "failed to load piece", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(piece),
		gecho.Send(),
	)
}
