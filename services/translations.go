package services

import (
	"njatashiz_server/structs"
)

// Form field suffixes; a full field name is the locale code followed by the
// suffix, e.g. "srTitle" or "enCategory".
const (
	TitleField       = "Title"
	DescriptionField = "Description"
	CategoryField    = "Category"
)

// FormField returns the submission field name for locale l
func FormField(l structs.Locale, suffix string) string {
	return string(l) + suffix
}

// BuildTranslations turns raw form fields into translation records, one per
// locale whose title, description and category name are all non-empty.
// Incomplete locales are dropped without error. Records and locales follow
// the order of structs.Locales.
func BuildTranslations(fields map[string]string) ([]structs.TranslationRecord, []structs.Locale) {
	records := make([]structs.TranslationRecord, 0, len(structs.Locales))

	for _, l := range structs.Locales {
		record := structs.TranslationRecord{
			Locale:       l,
			Title:        fields[FormField(l, TitleField)],
			Description:  fields[FormField(l, DescriptionField)],
			CategoryName: fields[FormField(l, CategoryField)],
		}
		if !complete(record) {
			continue
		}
		records = append(records, record)
	}

	return records, DerivePublishedLocales(records)
}

// DerivePublishedLocales returns the locales that have a complete translation
// record. It is the only source of a piece's published locales.
func DerivePublishedLocales(records []structs.TranslationRecord) []structs.Locale {
	locales := make([]structs.Locale, 0, len(structs.Locales))

	for _, l := range structs.Locales {
		for _, r := range records {
			if r.Locale == l && complete(r) {
				locales = append(locales, l)
				break
			}
		}
	}

	return locales
}

func complete(r structs.TranslationRecord) bool {
	return r.Locale.Valid() && r.Title != "" && r.Description != "" && r.CategoryName != ""
}
