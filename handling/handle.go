package handling

import (
	"net/http"
	"njatashiz_server/structs"

	"github.com/MonkyMars/gecho"
)

func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	return gecho.InternalServerError(w, gecho.Send())
}

// WriteMutationResult responds with a mutation result, picking the status
// from its failure reason
func WriteMutationResult(w http.ResponseWriter, result structs.MutationResult) error {
	if result.Success {
		return gecho.Success(w, gecho.WithData(result), gecho.Send())
	}

	switch result.Reason {
	case structs.FailureUnauthorized:
		return gecho.Unauthorized(w, gecho.WithMessage(result.Error), gecho.WithData(result), gecho.Send())
	case structs.FailureNotFound:
		return gecho.NotFound(w, gecho.WithMessage(result.Error), gecho.WithData(result), gecho.Send())
	case structs.FailureInvalid, structs.FailureUpload:
		return gecho.BadRequest(w, gecho.WithMessage(result.Error), gecho.WithData(result), gecho.Send())
	default:
		return gecho.InternalServerError(w, gecho.WithMessage(result.Error), gecho.WithData(result), gecho.Send())
	}
}
