package services

import (
	"context"
	"errors"
	"njatashiz_server/database"
	"njatashiz_server/lib"
	"njatashiz_server/structs"
	"njatashiz_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// GalleryCache caches public gallery reads and the admin list
type GalleryCache interface {
	GetGalleryPage(ctx context.Context, q structs.GalleryQuery) (*structs.GalleryPage, error)
	SetGalleryPage(ctx context.Context, q structs.GalleryQuery, page *structs.GalleryPage) error
	GetPieceDetail(ctx context.Context, id uuid.UUID, locale structs.Locale) (*structs.PieceDetail, error)
	SetPieceDetail(ctx context.Context, detail *structs.PieceDetail) error
	GetAdminPieces(ctx context.Context) ([]tables.JewelryPiece, error)
	SetAdminPieces(ctx context.Context, pieces []tables.JewelryPiece) error
}

// GalleryService serves reads. Public reads only see a piece in the locales
// it is published in; admin reads see everything.
type GalleryService struct {
	logger   *gecho.Logger
	store    PieceStore
	cache    GalleryCache
	pageSize int
}

// NewGalleryService creates the read service; cache may be nil
func NewGalleryService(logger *gecho.Logger, store PieceStore, cache GalleryCache, pageSize int) *GalleryService {
	return &GalleryService{
		logger:   logger,
		store:    store,
		cache:    cache,
		pageSize: pageSize,
	}
}

// VisiblePieces keeps the pieces published in locale, preserving order
func VisiblePieces(pieces []tables.JewelryPiece, locale structs.Locale) []tables.JewelryPiece {
	visible := make([]tables.JewelryPiece, 0, len(pieces))
	for _, p := range pieces {
		if p.PublishedIn(locale) {
			visible = append(visible, p)
		}
	}
	return visible
}

// Summarize exposes only the translation for locale
func Summarize(p *tables.JewelryPiece, locale structs.Locale) structs.PieceSummary {
	summary := structs.PieceSummary{
		ID:          p.ID,
		CategoryKey: p.CategoryKey,
		CoverImage:  p.CoverImage(),
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
	}
	if t, ok := p.Translation(locale); ok {
		summary.Title = t.Title
		summary.CategoryName = t.CategoryName
	}
	return summary
}

// Detail exposes the piece in locale, or false when it is not published there
func Detail(p *tables.JewelryPiece, locale structs.Locale) (*structs.PieceDetail, bool) {
	if !p.PublishedIn(locale) {
		return nil, false
	}
	t, ok := p.Translation(locale)
	if !ok {
		return nil, false
	}

	media := p.MediaURLs
	if media == nil {
		media = []string{}
	}

	return &structs.PieceDetail{
		ID:           p.ID,
		Locale:       locale,
		CategoryKey:  p.CategoryKey,
		CoverImage:   p.CoverImage(),
		MediaURLs:    media,
		Title:        t.Title,
		Description:  t.Description,
		CategoryName: t.CategoryName,
		Price:        p.Price,
		CreatedAt:    p.CreatedAt,
	}, true
}

// List returns one page of pieces published in q.Locale, newest first,
// optionally restricted to one category.
func (gs *GalleryService) List(ctx context.Context, q structs.GalleryQuery) (*structs.GalleryPage, error) {
	startTime := time.Now()

	if !q.Locale.Valid() {
		return nil, lib.ErrInvalidLocale
	}
	if q.Category == structs.CategoryAll {
		q.Category = ""
	}
	if q.Category != "" && !q.Category.Valid() {
		return nil, lib.ErrInvalidCategory
	}
	q.Page = max(q.Page, 1)

	if gs.cache != nil {
		if cached, err := gs.cache.GetGalleryPage(ctx, q); err == nil && cached != nil {
			return cached, nil
		}
	}

	pieces, err := gs.store.ListPublished(ctx, q.Locale, q.Category)
	if err != nil {
		gs.logger.Error("Failed to list gallery pieces", gecho.Field("error", err), gecho.Field("locale", q.Locale))
		return nil, err
	}

	visible := VisiblePieces(pieces, q.Locale)
	pageItems, pagination := database.Paginate(visible, q.Page, gs.pageSize)

	summaries := make([]structs.PieceSummary, len(pageItems))
	for i := range pageItems {
		summaries[i] = Summarize(&pageItems[i], q.Locale)
	}

	page := &structs.GalleryPage{Pieces: summaries, Pagination: pagination}

	// only real pages are cached so junk page numbers cannot grow the cache
	if gs.cache != nil && q.Page <= max(pagination.TotalPages, 1) {
		if err := gs.cache.SetGalleryPage(ctx, q, page); err != nil {
			gs.logger.Warn("Failed to cache gallery page", gecho.Field("error", err))
		}
	}

	gs.logger.Debug("Gallery listed",
		gecho.Field("locale", q.Locale),
		gecho.Field("category", q.Category),
		gecho.Field("count", len(summaries)),
		gecho.Field("duration", time.Since(startTime)),
	)

	return page, nil
}

// Piece returns a published piece in locale. A missing piece and a piece
// that is not published in locale both yield lib.ErrNotFound.
func (gs *GalleryService) Piece(ctx context.Context, id uuid.UUID, locale structs.Locale) (*structs.PieceDetail, error) {
	if !locale.Valid() {
		return nil, lib.ErrNotFound
	}

	if gs.cache != nil {
		if cached, err := gs.cache.GetPieceDetail(ctx, id, locale); err == nil && cached != nil {
			return cached, nil
		}
	}

	piece, err := gs.store.GetPiece(ctx, id)
	if err != nil {
		if !errors.Is(err, lib.ErrNotFound) {
			gs.logger.Error("Failed to load piece", gecho.Field("error", err), gecho.Field("piece_id", id))
		}
		return nil, err
	}

	detail, ok := Detail(piece, locale)
	if !ok {
		return nil, lib.ErrNotFound
	}

	if gs.cache != nil {
		if err := gs.cache.SetPieceDetail(ctx, detail); err != nil {
			gs.logger.Warn("Failed to cache piece detail", gecho.Field("error", err), gecho.Field("piece_id", id))
		}
	}

	return detail, nil
}

// AdminPieces lists every piece with all translations, published or not
func (gs *GalleryService) AdminPieces(ctx context.Context) ([]tables.JewelryPiece, error) {
	if gs.cache != nil {
		if cached, err := gs.cache.GetAdminPieces(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	pieces, err := gs.store.ListPieces(ctx, "")
	if err != nil {
		return nil, err
	}
	if pieces == nil {
		pieces = []tables.JewelryPiece{}
	}

	if gs.cache != nil {
		if err := gs.cache.SetAdminPieces(ctx, pieces); err != nil {
			gs.logger.Warn("Failed to cache admin piece list", gecho.Field("error", err))
		}
	}

	return pieces, nil
}

// AdminPiece loads a piece for the editor regardless of its published locales
func (gs *GalleryService) AdminPiece(ctx context.Context, id uuid.UUID) (*tables.JewelryPiece, error) {
	return gs.store.GetPiece(ctx, id)
}

