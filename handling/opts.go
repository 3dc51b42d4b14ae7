package handling

import (
	"fmt"
	"net/http"
	"njatashiz_server/lib"
	"njatashiz_server/structs"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// MaxGalleryPage bounds the page query parameter
const MaxGalleryPage = 1000

// ParseGalleryQuery reads the locale path parameter and the category and
// page query parameters of a public gallery request
func ParseGalleryQuery(r *http.Request) (structs.GalleryQuery, error) {
	locale, err := lib.ParseLocale(chi.URLParam(r, "locale"))
	if err != nil {
		return structs.GalleryQuery{}, err
	}

	q := structs.GalleryQuery{Locale: locale, Page: 1}
	query := r.URL.Query()

	if category := strings.ToLower(strings.TrimSpace(query.Get("category"))); category != "" {
		q.Category = structs.CategoryKey(category)
		if q.Category != structs.CategoryAll && !q.Category.Valid() {
			return structs.GalleryQuery{}, fmt.Errorf("%w: %q", lib.ErrInvalidCategory, category)
		}
	}

	if page := query.Get("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 || n > MaxGalleryPage {
			return structs.GalleryQuery{}, fmt.Errorf("invalid page %q", page)
		}
		q.Page = n
	}

	return q, nil
}

// ParsePieceID reads the id path parameter
func ParsePieceID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
