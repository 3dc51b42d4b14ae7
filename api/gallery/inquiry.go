package gallery

import (
	"errors"
	"net/http"
	"njatashiz_server/api/health"
	"njatashiz_server/lib"
	"njatashiz_server/services"
	"njatashiz_server/structs"

	"github.com/MonkyMars/gecho"
)

// SendInquiry handles POST /{locale}/gallery/{id}/inquiry
func (grm *GalleryRoutesManager) SendInquiry(w http.ResponseWriter, r *http.Request) {
	detail, ok := grm.loadPiece(w, r)
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.InquiryRequest](r)
	if err != nil {
		var ve *lib.ValidationError
		if errors.As(err, &ve) {
			gecho.BadRequest(w, gecho.WithMessage("Please check your inquiry and try again"), gecho.WithData(ve.Errors), gecho.Send())
			return
		}
		gecho.BadRequest(w, gecho.WithMessage("Please check your inquiry and try again"), gecho.Send())
		return
	}

	body.Name = lib.SanitizeText(body.Name)
	body.Phone = lib.SanitizeText(body.Phone)
	body.Message = lib.SanitizeText(body.Message)

	if err := grm.emailService.SendInquiry(r.Context(), detail, body); err != nil {
		if errors.Is(err, services.ErrEmailDisabled) {
			health.Inquiries.WithLabelValues(string(detail.Locale), "disabled").Inc()
			gecho.ServiceUnavailable(w, gecho.WithMessage("Inquiries are currently unavailable"), gecho.Send())
			return
		}
		health.Inquiries.WithLabelValues(string(detail.Locale), "error").Inc()
		grm.logger.Error("Failed to send inquiry", gecho.Field("error", err), gecho.Field("piece_id", detail.ID))
		gecho.InternalServerError(w, gecho.WithMessage("Unable to send your inquiry. Please try again"), gecho.Send())
		return
	}

	health.Inquiries.WithLabelValues(string(detail.Locale), "sent").Inc()
	gecho.Success(w,
		gecho.WithMessage("Inquiry sent"),
		gecho.Send(),
	)
}
