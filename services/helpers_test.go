package services

import (
	"context"
	"database/sql"
	"errors"
	"njatashiz_server/database"
	"njatashiz_server/lib"
	"njatashiz_server/structs"
	"njatashiz_server/structs/tables"
	"path"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"
)

func testLogger() *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := database.Wrap(bun.NewDB(sqldb, sqlitedialect.New()))
	t.Cleanup(func() { _ = db.Close() })

	if err := database.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}
	return db
}

// completeFields returns a full submission field set for the given locales
func completeFields(locales ...structs.Locale) map[string]string {
	fields := make(map[string]string)
	for _, l := range locales {
		fields[FormField(l, TitleField)] = "Title " + string(l)
		fields[FormField(l, DescriptionField)] = "Description " + string(l)
		fields[FormField(l, CategoryField)] = "Category " + string(l)
	}
	return fields
}

type fakeSessions struct {
	mu    sync.Mutex
	token string
	calls int
}

func (f *fakeSessions) VerifySession(_ context.Context, token string) (*structs.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if token == "" || token != f.token {
		return nil, lib.ErrUnauthorized
	}
	return &structs.Session{UserID: uuid.New(), Email: "admin@njatashiz.com", Role: "admin"}, nil
}

type fakeBlobs struct {
	mu      sync.Mutex
	failOn  string
	stored  []string
	removed []string
}

func (f *fakeBlobs) Store(_ context.Context, fileName string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fileName == f.failOn {
		return "", errors.New("disk full")
	}
	url := "/uploads/" + fileName
	f.stored = append(f.stored, url)
	return url, nil
}

func (f *fakeBlobs) Remove(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, url)
	return nil
}

func (f *fakeBlobs) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored) + len(f.removed)
}

type fakeRevalidator struct {
	mu    sync.Mutex
	paths []string
}

func (f *fakeRevalidator) Invalidate(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	return nil
}

func (f *fakeRevalidator) invalidated() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := slices.Clone(f.paths)
	sort.Strings(out)
	return out
}

// memStore is an in-memory PieceStore
type memStore struct {
	mu     sync.Mutex
	pieces map[uuid.UUID]tables.JewelryPiece
	calls  int
	err    error
}

func newMemStore(pieces ...tables.JewelryPiece) *memStore {
	s := &memStore{pieces: make(map[uuid.UUID]tables.JewelryPiece)}
	for _, p := range pieces {
		s.pieces[p.ID] = p
	}
	return s
}

func (s *memStore) CreatePiece(_ context.Context, piece *tables.JewelryPiece) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.pieces[piece.ID] = *piece
	return nil
}

func (s *memStore) UpdatePiece(_ context.Context, piece *tables.JewelryPiece) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	existing, ok := s.pieces[piece.ID]
	if !ok {
		return lib.ErrNotFound
	}
	piece.CreatedAt = existing.CreatedAt
	s.pieces[piece.ID] = *piece
	return nil
}

func (s *memStore) DeletePiece(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if _, ok := s.pieces[id]; !ok {
		return lib.ErrNotFound
	}
	delete(s.pieces, id)
	return nil
}

func (s *memStore) GetPiece(_ context.Context, id uuid.UUID) (*tables.JewelryPiece, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pieces[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) ListPieces(_ context.Context, category structs.CategoryKey) ([]tables.JewelryPiece, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []tables.JewelryPiece
	for _, p := range s.pieces {
		if category == "" || category == structs.CategoryAll || p.CategoryKey == category {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) ListPublished(ctx context.Context, locale structs.Locale, category structs.CategoryKey) ([]tables.JewelryPiece, error) {
	pieces, _ := s.ListPieces(ctx, category)

	out := make([]tables.JewelryPiece, 0, len(pieces))
	for _, p := range pieces {
		t, ok := p.Translation(locale)
		if !ok {
			continue
		}
		p.Translations = []tables.JewelryTranslation{*t}
		out = append(out, p)
	}
	return out, nil
}

func (s *memStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// testPiece builds a stored piece with complete translations for locales
func testPiece(category structs.CategoryKey, createdAt time.Time, locales ...structs.Locale) tables.JewelryPiece {
	records, published := BuildTranslations(completeFields(locales...))
	return tables.JewelryPiece{
		ID:               uuid.New(),
		CategoryKey:      category,
		MediaURLs:        []string{"/uploads/" + string(category) + ".jpg"},
		PublishedLocales: published,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
		Translations:     translationModels(records),
	}
}

// memGalleryCache is an in-memory GalleryCache that also invalidates itself
// as a Revalidator, using the same keys and patterns as CacheService
type memGalleryCache struct {
	mu      sync.Mutex
	entries map[string]any
	delay   time.Duration
	sets    int
}

func newMemGalleryCache(delay time.Duration) *memGalleryCache {
	return &memGalleryCache{entries: make(map[string]any), delay: delay}
}

func (c *memGalleryCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *memGalleryCache) set(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[key] = v
}

func (c *memGalleryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *memGalleryCache) GetGalleryPage(_ context.Context, q structs.GalleryQuery) (*structs.GalleryPage, error) {
	if v, ok := c.get(galleryPageKey(q)); ok {
		return v.(*structs.GalleryPage), nil
	}
	return nil, nil
}

func (c *memGalleryCache) SetGalleryPage(_ context.Context, q structs.GalleryQuery, page *structs.GalleryPage) error {
	c.set(galleryPageKey(q), page)
	return nil
}

func (c *memGalleryCache) GetPieceDetail(_ context.Context, id uuid.UUID, locale structs.Locale) (*structs.PieceDetail, error) {
	if v, ok := c.get(pieceDetailKey(id, locale)); ok {
		return v.(*structs.PieceDetail), nil
	}
	return nil, nil
}

func (c *memGalleryCache) SetPieceDetail(_ context.Context, detail *structs.PieceDetail) error {
	c.set(pieceDetailKey(detail.ID, detail.Locale), detail)
	return nil
}

func (c *memGalleryCache) GetAdminPieces(context.Context) ([]tables.JewelryPiece, error) {
	if v, ok := c.get(adminPiecesKey); ok {
		return v.([]tables.JewelryPiece), nil
	}
	return nil, nil
}

func (c *memGalleryCache) SetAdminPieces(_ context.Context, pieces []tables.JewelryPiece) error {
	c.set(adminPiecesKey, pieces)
	return nil
}

func (c *memGalleryCache) Invalidate(_ context.Context, route string) error {
	pattern, err := invalidationPattern(route)
	if err != nil {
		return err
	}

	// a round trip to the cache server
	time.Sleep(c.delay)

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
		}
	}
	return nil
}
