package lib

import (
	"fmt"
	"njatashiz_server/structs"
	"net/http"

	"golang.org/x/text/language"
)

// supportedTags must stay in the order of structs.Locales
var supportedTags = []language.Tag{language.Serbian, language.Russian, language.English}

var localeMatcher = language.NewMatcher(supportedTags)

// ParseLocale normalises a locale code such as "sr", "sr-Latn-RS" or "EN"
// to one of the supported locales.
func ParseLocale(s string) (structs.Locale, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocale, s)
	}

	base, _ := tag.Base()
	locale := structs.Locale(base.String())
	if !locale.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocale, s)
	}
	return locale, nil
}

// PreferredLocale picks the locale for a request from the locale query
// parameter, the locale cookie, then Accept-Language, then the default.
func PreferredLocale(r *http.Request) structs.Locale {
	if q := r.URL.Query().Get("locale"); q != "" {
		if l, err := ParseLocale(q); err == nil {
			return l
		}
	}

	if c, err := GetCookieValue(LocaleCookieName, r); err == nil {
		if l, err := ParseLocale(c); err == nil {
			return l
		}
	}

	if header := r.Header.Get("Accept-Language"); header != "" {
		tags, _, err := language.ParseAcceptLanguage(header)
		if err == nil && len(tags) > 0 {
			_, idx, confidence := localeMatcher.Match(tags...)
			if confidence != language.No {
				return structs.Locales[idx]
			}
		}
	}

	return structs.DefaultLocale
}
