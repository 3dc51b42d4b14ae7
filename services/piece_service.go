package services

import (
	"context"
	"errors"
	"fmt"
	"njatashiz_server/lib"
	"njatashiz_server/structs"
	"njatashiz_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionVerifier resolves a session token to an authenticated session
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*structs.Session, error)
}

// Revalidator drops cached representations of a route pattern
type Revalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// Route patterns whose cached representations depend on piece data
const (
	AdminListPath   = "/admin"
	GalleryListPath = "/[locale]/gallery"
)

func PieceDetailPath(id uuid.UUID) string {
	return GalleryListPath + "/" + id.String()
}

// Messages reported back to the admin form
const (
	msgUnauthorized    = "Unauthorized"
	msgInvalidCategory = "Please choose a valid category"
	msgNegativePrice   = "Price must not be negative"
	msgPieceNotFound   = "Piece not found"
	msgCreateFailed    = "Failed to create piece"
	msgUpdateFailed    = "Failed to update piece"
	msgDeleteFailed    = "Failed to delete piece"
	msgUploadFailed    = "Failed to upload image: %s"
	msgUploadNewFailed = "Failed to upload new image: %s"
)

const revalidationTimeout = 5 * time.Second

type PieceService struct {
	logger            *gecho.Logger
	store             PieceStore
	sessions          SessionVerifier
	blobs             BlobStore
	revalidator       Revalidator
	uploadConcurrency int
	now               func() time.Time
}

func NewPieceService(
	logger *gecho.Logger,
	store PieceStore,
	sessions SessionVerifier,
	blobs BlobStore,
	revalidator Revalidator,
	uploadConcurrency int,
) *PieceService {
	return &PieceService{
		logger:            logger,
		store:             store,
		sessions:          sessions,
		blobs:             blobs,
		revalidator:       revalidator,
		uploadConcurrency: uploadConcurrency,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

func failure(reason structs.FailureReason, msg string) structs.MutationResult {
	return structs.MutationResult{Success: false, Error: msg, Reason: reason}
}

func (ps *PieceService) authorize(ctx context.Context, token string) (*structs.Session, bool) {
	if token == "" {
		return nil, false
	}
	session, err := ps.sessions.VerifySession(ctx, token)
	if err != nil || session == nil {
		ps.logger.Debug("Rejected piece mutation without a valid session", gecho.Field("error", err))
		return nil, false
	}
	return session, true
}

// parseFields validates category and price of a submission. An unparsable
// price is treated as absent, a negative one is rejected.
func parseFields(sub *structs.PieceSubmission) (structs.CategoryKey, decimal.NullDecimal, error) {
	category := structs.CategoryKey(strings.TrimSpace(sub.CategoryKey))
	if !category.Valid() {
		return "", decimal.NullDecimal{}, lib.ErrInvalidCategory
	}

	raw := strings.TrimSpace(sub.Price)
	if raw == "" {
		return category, decimal.NullDecimal{}, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return category, decimal.NullDecimal{}, nil
	}
	if price.IsNegative() {
		return "", decimal.NullDecimal{}, lib.ErrInvalidPrice
	}
	return category, decimal.NewNullDecimal(price), nil
}

func fieldFailure(err error) structs.MutationResult {
	if errors.Is(err, lib.ErrInvalidPrice) {
		return failure(structs.FailureInvalid, msgNegativePrice)
	}
	return failure(structs.FailureInvalid, msgInvalidCategory)
}

func translationModels(records []structs.TranslationRecord) []tables.JewelryTranslation {
	rows := make([]tables.JewelryTranslation, len(records))
	for i, r := range records {
		rows[i] = tables.JewelryTranslation{
			Locale:       r.Locale,
			Title:        r.Title,
			Description:  r.Description,
			CategoryName: r.CategoryName,
		}
	}
	return rows
}

// Create stores a new piece from an admin submission
func (ps *PieceService) Create(ctx context.Context, sessionToken string, sub *structs.PieceSubmission) structs.MutationResult {
	startTime := time.Now()

	session, ok := ps.authorize(ctx, sessionToken)
	if !ok {
		return failure(structs.FailureUnauthorized, msgUnauthorized)
	}

	category, price, err := parseFields(sub)
	if err != nil {
		return fieldFailure(err)
	}

	records, locales := BuildTranslations(sub.Fields)

	media, stored, err := MergeMedia(ctx, ps.blobs, nil, sub.Files, ps.uploadConcurrency)
	if err != nil {
		return ps.uploadFailure(ctx, err, stored, msgUploadFailed)
	}

	now := ps.now()
	piece := &tables.JewelryPiece{
		ID:               uuid.New(),
		CategoryKey:      category,
		Price:            price,
		MediaURLs:        media,
		PublishedLocales: locales,
		CreatedAt:        now,
		UpdatedAt:        now,
		Translations:     translationModels(records),
	}

	if err := ps.store.CreatePiece(ctx, piece); err != nil {
		ps.logger.Error("Failed to create piece", gecho.Field("error", err))
		ps.discardUploads(ctx, stored)
		return failure(structs.FailurePersistence, msgCreateFailed)
	}

	ps.logger.Info("Piece created",
		gecho.Field("piece_id", piece.ID),
		gecho.Field("by", session.Email),
		gecho.Field("published_locales", locales),
		gecho.Field("duration", time.Since(startTime)),
	)

	ps.revalidate(ctx, AdminListPath, GalleryListPath)

	return structs.MutationResult{Success: true, PieceID: &piece.ID}
}

// Update replaces the translations and fields of a piece. Locales missing
// from the submission are unpublished.
func (ps *PieceService) Update(ctx context.Context, sessionToken string, id uuid.UUID, sub *structs.PieceSubmission) structs.MutationResult {
	startTime := time.Now()

	session, ok := ps.authorize(ctx, sessionToken)
	if !ok {
		return failure(structs.FailureUnauthorized, msgUnauthorized)
	}

	category, price, err := parseFields(sub)
	if err != nil {
		return fieldFailure(err)
	}

	records, locales := BuildTranslations(sub.Fields)

	media, stored, err := MergeMedia(ctx, ps.blobs, sub.ExistingURLs, sub.Files, ps.uploadConcurrency)
	if err != nil {
		return ps.uploadFailure(ctx, err, stored, msgUploadNewFailed)
	}

	piece := &tables.JewelryPiece{
		ID:               id,
		CategoryKey:      category,
		Price:            price,
		MediaURLs:        media,
		PublishedLocales: locales,
		UpdatedAt:        ps.now(),
		Translations:     translationModels(records),
	}

	if err := ps.store.UpdatePiece(ctx, piece); err != nil {
		ps.discardUploads(ctx, stored)
		if errors.Is(err, lib.ErrNotFound) {
			ps.logger.Warn("Attempted to update missing piece", gecho.Field("piece_id", id))
			return failure(structs.FailureNotFound, msgPieceNotFound)
		}
		ps.logger.Error("Failed to update piece", gecho.Field("error", err), gecho.Field("piece_id", id))
		return failure(structs.FailurePersistence, msgUpdateFailed)
	}

	ps.logger.Info("Piece updated",
		gecho.Field("piece_id", id),
		gecho.Field("by", session.Email),
		gecho.Field("published_locales", locales),
		gecho.Field("duration", time.Since(startTime)),
	)

	ps.revalidate(ctx, AdminListPath, GalleryListPath, PieceDetailPath(id))

	return structs.MutationResult{Success: true, PieceID: &id}
}

// Delete removes a piece and its translations. Its media blobs are kept.
func (ps *PieceService) Delete(ctx context.Context, sessionToken string, id uuid.UUID) structs.MutationResult {
	session, ok := ps.authorize(ctx, sessionToken)
	if !ok {
		return failure(structs.FailureUnauthorized, msgUnauthorized)
	}

	if err := ps.store.DeletePiece(ctx, id); err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			return failure(structs.FailureNotFound, msgPieceNotFound)
		}
		ps.logger.Error("Failed to delete piece", gecho.Field("error", err), gecho.Field("piece_id", id))
		return failure(structs.FailurePersistence, msgDeleteFailed)
	}

	ps.logger.Info("Piece deleted", gecho.Field("piece_id", id), gecho.Field("by", session.Email))

	ps.revalidate(ctx, AdminListPath, GalleryListPath, PieceDetailPath(id))

	return structs.MutationResult{Success: true, PieceID: &id}
}

func (ps *PieceService) uploadFailure(ctx context.Context, err error, stored []string, format string) structs.MutationResult {
	ps.discardUploads(ctx, stored)

	var uploadErr *UploadError
	if errors.As(err, &uploadErr) {
		ps.logger.Warn("Image upload failed", gecho.Field("file", uploadErr.FileName), gecho.Field("error", uploadErr.Err))
		return failure(structs.FailureUpload, fmt.Sprintf(format, uploadErr.FileName))
	}

	ps.logger.Error("Image upload failed", gecho.Field("error", err))
	return failure(structs.FailureUpload, fmt.Sprintf(format, "unknown"))
}

// discardUploads removes blobs stored for a submission that was not persisted
func (ps *PieceService) discardUploads(ctx context.Context, urls []string) {
	ctx = context.WithoutCancel(ctx)
	for _, url := range urls {
		if err := ps.blobs.Remove(ctx, url); err != nil {
			ps.logger.Warn("Failed to remove orphaned upload", gecho.Field("url", url), gecho.Field("error", err))
		}
	}
}

// revalidate invalidates the given route patterns before the mutation
// returns, so the next read sees the new state. Failures are logged and never
// reach the caller.
func (ps *PieceService) revalidate(ctx context.Context, paths ...string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), revalidationTimeout)
	defer cancel()

	for _, path := range paths {
		if err := ps.revalidator.Invalidate(ctx, path); err != nil {
			ps.logger.Warn("Failed to invalidate cached route", gecho.Field("path", path), gecho.Field("error", err))
		}
	}
}
