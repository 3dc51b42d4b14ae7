package handling

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"njatashiz_server/lib"
	"njatashiz_server/services"
	"njatashiz_server/structs"
	"strings"
)

// Multipart form field names of the admin piece editor
const (
	formCategoryKey  = "categoryKey"
	formPrice        = "price"
	formExistingURLs = "existingUrls"
	formImages       = "files"
)

// memory kept per request before multipart files spill to disk
const multipartMemory = 8 << 20

// ParsePieceSubmission reads the admin piece form. Translation fields are
// stripped of markup; existing media references keep their submitted order.
func ParsePieceSubmission(r *http.Request) (*structs.PieceSubmission, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	sub := &structs.PieceSubmission{
		CategoryKey: strings.TrimSpace(r.FormValue(formCategoryKey)),
		Price:       strings.TrimSpace(r.FormValue(formPrice)),
		Fields:      make(map[string]string),
	}

	for _, l := range structs.Locales {
		for _, suffix := range []string{services.TitleField, services.DescriptionField, services.CategoryField} {
			name := services.FormField(l, suffix)
			if v := lib.SanitizeText(r.FormValue(name)); v != "" {
				sub.Fields[name] = v
			}
		}
	}

	if raw := strings.TrimSpace(r.FormValue(formExistingURLs)); raw != "" {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", formExistingURLs, err)
		}
		for _, u := range urls {
			if u = strings.TrimSpace(u); u != "" {
				sub.ExistingURLs = append(sub.ExistingURLs, u)
			}
		}
	}

	for _, header := range r.MultipartForm.File[formImages] {
		f, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", header.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Filename, err)
		}
		sub.Files = append(sub.Files, structs.Upload{Name: header.Filename, Data: data})
	}

	return sub, nil
}
