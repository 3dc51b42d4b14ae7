package tables

import (
	"njatashiz_server/structs"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type JewelryPiece struct {
	bun.BaseModel    `bun:"table:jewelry_pieces,alias:jp"`
	ID               uuid.UUID            `bun:"id,pk,type:uuid" json:"id"`
	CategoryKey      structs.CategoryKey  `bun:"category_key,notnull" json:"category_key"`
	Price            decimal.NullDecimal  `bun:"price,type:numeric(12,2)" json:"price"` // RSD, null means price on inquiry
	MediaURLs        []string             `bun:"media_urls" json:"media_urls"`           // index 0 is the cover image
	PublishedLocales []structs.Locale     `bun:"published_locales" json:"published_locales"`
	CreatedAt        time.Time            `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt        time.Time            `bun:"updated_at,notnull" json:"updated_at"`
	Translations     []JewelryTranslation `bun:"rel:has-many,join:id=piece_id" json:"translations,omitempty"`
}

// PublishedIn reports whether the piece is publicly visible in locale l
func (p *JewelryPiece) PublishedIn(l structs.Locale) bool {
	for _, published := range p.PublishedLocales {
		if published == l {
			return true
		}
	}
	return false
}

// Translation returns the translation for locale l, if any
func (p *JewelryPiece) Translation(l structs.Locale) (*JewelryTranslation, bool) {
	for i := range p.Translations {
		if p.Translations[i].Locale == l {
			return &p.Translations[i], true
		}
	}
	return nil, false
}

// CoverImage returns the first media reference or the placeholder image
func (p *JewelryPiece) CoverImage() string {
	if len(p.MediaURLs) == 0 {
		return structs.PlaceholderImage
	}
	return p.MediaURLs[0]
}

type JewelryTranslation struct {
	bun.BaseModel `bun:"table:jewelry_translations,alias:jt"`
	ID            uuid.UUID      `bun:"id,pk,type:uuid" json:"id"`
	PieceID       uuid.UUID      `bun:"piece_id,type:uuid,notnull,unique:piece_locale" json:"piece_id"`
	Locale        structs.Locale `bun:"locale,notnull,unique:piece_locale" json:"locale"`
	Title         string         `bun:"title,notnull" json:"title"`
	Description   string         `bun:"description,notnull" json:"description"`
	CategoryName  string         `bun:"category_name,notnull" json:"category_name"`
}
