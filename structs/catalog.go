package structs

// Locale is a supported site language
type Locale string

const (
	LocaleSerbian Locale = "sr"
	LocaleRussian Locale = "ru"
	LocaleEnglish Locale = "en"
)

// DefaultLocale is served when nothing better is known about the visitor
const DefaultLocale = LocaleSerbian

// Locales lists the supported locales in form order
var Locales = []Locale{LocaleSerbian, LocaleRussian, LocaleEnglish}

var LocaleNames = map[Locale]string{
	LocaleSerbian: "Srpski",
	LocaleRussian: "Русский",
	LocaleEnglish: "English",
}

func (l Locale) Valid() bool {
	switch l {
	case LocaleSerbian, LocaleRussian, LocaleEnglish:
		return true
	}
	return false
}

// CategoryKey is one of the closed set of jewelry categories
type CategoryKey string

const (
	CategoryNecklaces CategoryKey = "necklaces"
	CategoryBracelets CategoryKey = "bracelets"
	CategoryStatement CategoryKey = "statement"

	// CategoryAll is accepted by gallery filters and means no filter
	CategoryAll CategoryKey = "all"
)

var Categories = []CategoryKey{CategoryNecklaces, CategoryBracelets, CategoryStatement}

var categoryNames = map[CategoryKey]map[Locale]string{
	CategoryAll: {
		LocaleSerbian: "Sve",
		LocaleRussian: "Все",
		LocaleEnglish: "All",
	},
	CategoryNecklaces: {
		LocaleSerbian: "Ogrlice",
		LocaleRussian: "Ожерелья",
		LocaleEnglish: "Necklaces",
	},
	CategoryBracelets: {
		LocaleSerbian: "Narukvice",
		LocaleRussian: "Браслеты",
		LocaleEnglish: "Bracelets",
	},
	CategoryStatement: {
		LocaleSerbian: "Statement Komadi",
		LocaleRussian: "Эффектные Изделия",
		LocaleEnglish: "Statement Pieces",
	},
}

func (c CategoryKey) Valid() bool {
	switch c {
	case CategoryNecklaces, CategoryBracelets, CategoryStatement:
		return true
	}
	return false
}

// DisplayName returns the catalogue name of the category in locale l,
// falling back to the key itself for unknown categories.
func (c CategoryKey) DisplayName(l Locale) string {
	if names, ok := categoryNames[c]; ok {
		if name, ok := names[l]; ok {
			return name
		}
	}
	return string(c)
}

type Category struct {
	Key  CategoryKey `json:"key"`
	Name string      `json:"name"`
}
