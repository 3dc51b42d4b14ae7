package gallery

import (
	"errors"
	"net/http"
	"net/url"
	"njatashiz_server/handling"
	"njatashiz_server/lib"
	"njatashiz_server/structs"

	"github.com/MonkyMars/gecho"
)

// ListPieces handles GET /{locale}/gallery
func (grm *GalleryRoutesManager) ListPieces(w http.ResponseWriter, r *http.Request) {
	q, err := handling.ParseGalleryQuery(r)
	if err != nil {
		if errors.Is(err, lib.ErrInvalidLocale) {
			gecho.NotFound(w, gecho.WithMessage("Page not found"), gecho.Send())
			return
		}
		gecho.BadRequest(w, gecho.WithMessage("Invalid gallery filter"), gecho.Send())
		return
	}

	page, err := grm.galleryService.List(r.Context(), q)
	if err != nil {
		handling.HandleError(err, "failed to list gallery", grm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(page),
		gecho.Send(),
	)
}

// RedirectToLocale handles GET /gallery by sending the visitor to the
// gallery in their preferred locale
func (grm *GalleryRoutesManager) RedirectToLocale(w http.ResponseWriter, r *http.Request) {
	locale := lib.PreferredLocale(r)

	target := "/" + string(locale) + "/gallery"
	if category := structs.CategoryKey(r.URL.Query().Get("category")); category.Valid() {
		target += "?" + url.Values{"category": {string(category)}}.Encode()
	}

	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// ListCategories handles GET /categories
func (grm *GalleryRoutesManager) ListCategories(w http.ResponseWriter, r *http.Request) {
	locale := lib.PreferredLocale(r)

	categories := make([]structs.Category, 0, len(structs.Categories)+1)
	categories = append(categories, structs.Category{Key: structs.CategoryAll, Name: structs.CategoryAll.DisplayName(locale)})
	for _, c := range structs.Categories {
		categories = append(categories, structs.Category{Key: c, Name: c.DisplayName(locale)})
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"locale":     locale,
			"categories": categories,
		}),
		gecho.Send(),
	)
}
