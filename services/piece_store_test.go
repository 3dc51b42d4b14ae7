package services

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"njatashiz_server/lib"
	"njatashiz_server/structs"
	"njatashiz_server/structs/tables"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func storedPiece(t *testing.T, store *BunPieceStore, category structs.CategoryKey, createdAt time.Time, locales ...structs.Locale) tables.JewelryPiece {
	t.Helper()

	piece := testPiece(category, createdAt.UTC().Truncate(time.Second), locales...)
	piece.Price = decimal.NewNullDecimal(decimal.NewFromInt(4500))
	if err := store.CreatePiece(context.Background(), &piece); err != nil {
		t.Fatalf("CreatePiece() error = %v", err)
	}
	return piece
}

func TestBunPieceStoreCreateAndGet(t *testing.T) {
	t.Parallel()

	store := NewBunPieceStore(newTestDB(t))
	created := storedPiece(t, store, structs.CategoryNecklaces, time.Now(), "sr", "en")

	got, err := store.GetPiece(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetPiece() error = %v", err)
	}
	if !slices.Equal(got.PublishedLocales, []structs.Locale{"sr", "en"}) {
		t.Fatalf("PublishedLocales = %v", got.PublishedLocales)
	}
	if len(got.Translations) != 2 {
		t.Fatalf("got %d translations, want 2", len(got.Translations))
	}
	if !got.Price.Valid || !got.Price.Decimal.Equal(decimal.NewFromInt(4500)) {
		t.Fatalf("Price = %v, want 4500", got.Price)
	}
	if !slices.Equal(got.MediaURLs, created.MediaURLs) {
		t.Fatalf("MediaURLs = %v, want %v", got.MediaURLs, created.MediaURLs)
	}

	if _, err := store.GetPiece(context.Background(), uuid.New()); !errors.Is(err, lib.ErrNotFound) {
		t.Fatalf("GetPiece(missing) error = %v, want ErrNotFound", err)
	}
}

func TestBunPieceStoreUpdateReplacesTranslations(t *testing.T) {
	t.Parallel()

	store := NewBunPieceStore(newTestDB(t))
	created := storedPiece(t, store, structs.CategoryNecklaces, time.Now(), "sr", "ru", "en")

	records, locales := BuildTranslations(completeFields("en"))
	update := &tables.JewelryPiece{
		ID:               created.ID,
		CategoryKey:      structs.CategoryStatement,
		MediaURLs:        []string{"B", "A"},
		PublishedLocales: locales,
		UpdatedAt:        time.Now().UTC(),
		Translations:     translationModels(records),
	}
	if err := store.UpdatePiece(context.Background(), update); err != nil {
		t.Fatalf("UpdatePiece() error = %v", err)
	}

	got, err := store.GetPiece(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetPiece() error = %v", err)
	}
	if len(got.Translations) != 1 || got.Translations[0].Locale != "en" {
		t.Fatalf("Translations = %+v, want only en", got.Translations)
	}
	if got.CategoryKey != structs.CategoryStatement || got.Price.Valid {
		t.Fatalf("fields not updated: category %s price %v", got.CategoryKey, got.Price)
	}
	if !slices.Equal(got.MediaURLs, []string{"B", "A"}) {
		t.Fatalf("MediaURLs = %v", got.MediaURLs)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("CreatedAt changed from %v to %v", created.CreatedAt, got.CreatedAt)
	}
}

func TestBunPieceStoreUpdateIsAtomic(t *testing.T) {
	t.Parallel()

	store := NewBunPieceStore(newTestDB(t))
	created := storedPiece(t, store, structs.CategoryNecklaces, time.Now(), "sr", "ru")

	store.afterReplace = func(context.Context) error {
		return errors.New("connection lost")
	}

	records, locales := BuildTranslations(completeFields("en"))
	err := store.UpdatePiece(context.Background(), &tables.JewelryPiece{
		ID:               created.ID,
		CategoryKey:      structs.CategoryBracelets,
		PublishedLocales: locales,
		UpdatedAt:        time.Now().UTC(),
		Translations:     translationModels(records),
	})
	if err == nil {
		t.Fatal("UpdatePiece() error = nil, want injected failure")
	}

	store.afterReplace = nil
	got, err := store.GetPiece(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetPiece() error = %v", err)
	}
	if got.CategoryKey != structs.CategoryNecklaces {
		t.Fatalf("CategoryKey = %s, want necklaces", got.CategoryKey)
	}
	if !slices.Equal(got.PublishedLocales, []structs.Locale{"sr", "ru"}) {
		t.Fatalf("PublishedLocales = %v, want [sr ru]", got.PublishedLocales)
	}
	if len(got.Translations) != 2 {
		t.Fatalf("got %d translations after a failed update, want 2", len(got.Translations))
	}
}

func TestBunPieceStoreUpdateMissing(t *testing.T) {
	t.Parallel()

	store := NewBunPieceStore(newTestDB(t))
	err := store.UpdatePiece(context.Background(), &tables.JewelryPiece{ID: uuid.New(), CategoryKey: structs.CategoryNecklaces})
	if !errors.Is(err, lib.ErrNotFound) {
		t.Fatalf("UpdatePiece(missing) error = %v, want ErrNotFound", err)
	}
}

func TestBunPieceStoreDelete(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	store := NewBunPieceStore(db)
	created := storedPiece(t, store, structs.CategoryNecklaces, time.Now(), "sr")

	if err := store.DeletePiece(context.Background(), created.ID); err != nil {
		t.Fatalf("DeletePiece() error = %v", err)
	}

	count, err := db.NewSelect().Model((*tables.JewelryTranslation)(nil)).Where("piece_id = ?", created.ID).Count(context.Background())
	if err != nil {
		t.Fatalf("count translations: %v", err)
	}
	if count != 0 {
		t.Fatalf("%d translations left after delete", count)
	}

	if err := store.DeletePiece(context.Background(), created.ID); !errors.Is(err, lib.ErrNotFound) {
		t.Fatalf("second DeletePiece() error = %v, want ErrNotFound", err)
	}
}

func TestBunPieceStoreListNewestFirst(t *testing.T) {
	t.Parallel()

	store := NewBunPieceStore(newTestDB(t))
	now := time.Now()
	oldest := storedPiece(t, store, structs.CategoryNecklaces, now.Add(-2*time.Hour), "sr")
	middle := storedPiece(t, store, structs.CategoryBracelets, now.Add(-time.Hour), "sr")
	newest := storedPiece(t, store, structs.CategoryNecklaces, now, "en")

	all, err := store.ListPieces(context.Background(), "")
	if err != nil {
		t.Fatalf("ListPieces() error = %v", err)
	}
	ids := make([]uuid.UUID, len(all))
	for i, p := range all {
		ids[i] = p.ID
	}
	if !slices.Equal(ids, []uuid.UUID{newest.ID, middle.ID, oldest.ID}) {
		t.Fatalf("ListPieces() order = %v", ids)
	}
	if len(all[0].Translations) != 1 {
		t.Fatalf("translations not loaded: %+v", all[0])
	}

	necklaces, err := store.ListPieces(context.Background(), structs.CategoryNecklaces)
	if err != nil {
		t.Fatalf("ListPieces(necklaces) error = %v", err)
	}
	if len(necklaces) != 2 || necklaces[0].ID != newest.ID || necklaces[1].ID != oldest.ID {
		t.Fatalf("ListPieces(necklaces) = %+v", necklaces)
	}
}

func TestBunPieceStoreListPublished(t *testing.T) {
	t.Parallel()

	store := NewBunPieceStore(newTestDB(t))
	now := time.Now()
	srEn := storedPiece(t, store, structs.CategoryNecklaces, now.Add(-2*time.Hour), "sr", "en")
	srBracelet := storedPiece(t, store, structs.CategoryBracelets, now.Add(-time.Hour), "sr")
	storedPiece(t, store, structs.CategoryNecklaces, now, "en")
	storedPiece(t, store, structs.CategoryStatement, now, "ru")

	sr, err := store.ListPublished(context.Background(), "sr", "")
	if err != nil {
		t.Fatalf("ListPublished(sr) error = %v", err)
	}
	if len(sr) != 2 || sr[0].ID != srBracelet.ID || sr[1].ID != srEn.ID {
		t.Fatalf("ListPublished(sr) = %+v", sr)
	}
	for _, p := range sr {
		if len(p.Translations) != 1 || p.Translations[0].Locale != "sr" {
			t.Fatalf("piece %s translations = %+v, want only sr", p.ID, p.Translations)
		}
	}

	necklaces, err := store.ListPublished(context.Background(), "sr", structs.CategoryNecklaces)
	if err != nil {
		t.Fatalf("ListPublished(sr, necklaces) error = %v", err)
	}
	if len(necklaces) != 1 || necklaces[0].ID != srEn.ID {
		t.Fatalf("ListPublished(sr, necklaces) = %+v", necklaces)
	}
}
