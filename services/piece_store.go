package services

import (
	"context"
	"fmt"
	"njatashiz_server/database"
	"njatashiz_server/lib"
	"njatashiz_server/structs"
	"njatashiz_server/structs/tables"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PieceStore is the persistence boundary for jewelry pieces
type PieceStore interface {
	CreatePiece(ctx context.Context, piece *tables.JewelryPiece) error
	// UpdatePiece replaces the translation set and the mutable fields of an
	// existing piece in one transaction.
	UpdatePiece(ctx context.Context, piece *tables.JewelryPiece) error
	DeletePiece(ctx context.Context, id uuid.UUID) error
	GetPiece(ctx context.Context, id uuid.UUID) (*tables.JewelryPiece, error)
	// ListPieces returns pieces newest first with all their translations.
	// An empty category lists every piece.
	ListPieces(ctx context.Context, category structs.CategoryKey) ([]tables.JewelryPiece, error)
	// ListPublished returns the pieces published in locale, newest first,
	// carrying only that locale's translation.
	ListPublished(ctx context.Context, locale structs.Locale, category structs.CategoryKey) ([]tables.JewelryPiece, error)
}

const storeTimeout = 10 * time.Second

type BunPieceStore struct {
	db *database.DB

	// afterReplace runs between translation replacement and the field update
	afterReplace func(ctx context.Context) error
}

func NewBunPieceStore(db *database.DB) *BunPieceStore {
	return &BunPieceStore{db: db}
}

func translationRows(pieceID uuid.UUID, translations []tables.JewelryTranslation) []tables.JewelryTranslation {
	rows := make([]tables.JewelryTranslation, len(translations))
	for i, t := range translations {
		t.ID = uuid.New()
		t.PieceID = pieceID
		rows[i] = t
	}
	return rows
}

func (s *BunPieceStore) CreatePiece(ctx context.Context, piece *tables.JewelryPiece) error {
	return database.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.Query[tables.JewelryPiece](tx).Insert(ctx, piece); err != nil {
			return lib.MapPgError(err)
		}
		rows := translationRows(piece.ID, piece.Translations)
		if err := database.Query[tables.JewelryTranslation](tx).InsertMany(ctx, rows); err != nil {
			return lib.MapPgError(err)
		}
		piece.Translations = rows
		return nil
	})
}

// replaceTranslations swaps the whole translation set of a piece
func replaceTranslations(ctx context.Context, db bun.IDB, pieceID uuid.UUID, translations []tables.JewelryTranslation) ([]tables.JewelryTranslation, error) {
	if _, err := database.Query[tables.JewelryTranslation](db).Where("piece_id", pieceID).Delete(ctx); err != nil {
		return nil, fmt.Errorf("failed to delete translations: %w", err)
	}

	rows := translationRows(pieceID, translations)
	if err := database.Query[tables.JewelryTranslation](db).InsertMany(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to insert translations: %w", lib.MapPgError(err))
	}
	return rows, nil
}

func (s *BunPieceStore) UpdatePiece(ctx context.Context, piece *tables.JewelryPiece) error {
	return database.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		count, err := database.Query[tables.JewelryPiece](tx).Where("id", piece.ID).Count(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			return lib.ErrNotFound
		}

		rows, err := replaceTranslations(ctx, tx, piece.ID, piece.Translations)
		if err != nil {
			return err
		}

		if s.afterReplace != nil {
			if err := s.afterReplace(ctx); err != nil {
				return err
			}
		}

		_, err = tx.NewUpdate().
			Model(piece).
			Column("category_key", "price", "media_urls", "published_locales", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update piece fields: %w", lib.MapPgError(err))
		}

		piece.Translations = rows
		return nil
	})
}

func (s *BunPieceStore) DeletePiece(ctx context.Context, id uuid.UUID) error {
	return database.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.Query[tables.JewelryTranslation](tx).Where("piece_id", id).Delete(ctx); err != nil {
			return err
		}
		deleted, err := database.Query[tables.JewelryPiece](tx).Where("id", id).Delete(ctx)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return lib.ErrNotFound
		}
		return nil
	})
}

func (s *BunPieceStore) GetPiece(ctx context.Context, id uuid.UUID) (*tables.JewelryPiece, error) {
	piece, err := database.Query[tables.JewelryPiece](s.db).
		Where("id", id).
		Relation("Translations").
		Timeout(storeTimeout).
		First(ctx)
	if err != nil {
		return nil, err
	}
	if piece == nil {
		return nil, lib.ErrNotFound
	}
	return piece, nil
}

func (s *BunPieceStore) ListPieces(ctx context.Context, category structs.CategoryKey) ([]tables.JewelryPiece, error) {
	q := database.Query[tables.JewelryPiece](s.db).
		Relation("Translations").
		OrderBy("created_at", database.DESC).
		OrderBy("id", database.DESC).
		Timeout(storeTimeout)

	if category != "" && category != structs.CategoryAll {
		q = q.Where("category_key", category)
	}

	return q.All(ctx)
}

// a piece is published in a locale exactly when it has a translation row for it
const publishedInLocale = `EXISTS (SELECT 1 FROM "jewelry_translations" AS "pt" WHERE "pt"."piece_id" = "jp"."id" AND "pt"."locale" = ?)`

func (s *BunPieceStore) ListPublished(ctx context.Context, locale structs.Locale, category structs.CategoryKey) ([]tables.JewelryPiece, error) {
	q := database.Query[tables.JewelryPiece](s.db).
		WhereExpr(publishedInLocale, string(locale)).
		RelationWhere("Translations", "locale", string(locale)).
		OrderBy("created_at", database.DESC).
		OrderBy("id", database.DESC).
		Timeout(storeTimeout)

	if category != "" && category != structs.CategoryAll {
		q = q.Where("category_key", category)
	}

	return q.All(ctx)
}
