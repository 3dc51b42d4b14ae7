package admin

import (
	"net/http"
	"njatashiz_server/api/health"
	"njatashiz_server/handling"
	"njatashiz_server/lib"
	"njatashiz_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) CreatePiece(w http.ResponseWriter, r *http.Request) {
	sub, err := handling.ParsePieceSubmission(r)
	if err != nil {
		ar.logger.Debug("Failed to parse piece submission", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Please check the piece information and try again"), gecho.Send())
		return
	}

	respond(w, "create", ar.pieceService.Create(r.Context(), lib.SessionToken(r), sub))
}

func (ar *AdminRoutesManager) UpdatePiece(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParsePieceID(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid piece id"), gecho.Send())
		return
	}

	sub, err := handling.ParsePieceSubmission(r)
	if err != nil {
		ar.logger.Debug("Failed to parse piece submission", gecho.Field("error", err), gecho.Field("piece_id", id))
		gecho.BadRequest(w, gecho.WithMessage("Please check the piece information and try again"), gecho.Send())
		return
	}

	respond(w, "update", ar.pieceService.Update(r.Context(), lib.SessionToken(r), id, sub))
}

func (ar *AdminRoutesManager) DeletePiece(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParsePieceID(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid piece id"), gecho.Send())
		return
	}

	respond(w, "delete", ar.pieceService.Delete(r.Context(), lib.SessionToken(r), id))
}

func respond(w http.ResponseWriter, operation string, result structs.MutationResult) {
	outcome := "success"
	if !result.Success {
		outcome = string(result.Reason)
	}
	health.PieceMutations.WithLabelValues(operation, outcome).Inc()

	handling.WriteMutationResult(w, result)
}
