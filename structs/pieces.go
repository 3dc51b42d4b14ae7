package structs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceholderImage is shown for pieces without any media
const PlaceholderImage = "/placeholder.jpg"

// TranslationRecord is the localized text of a piece in one locale
type TranslationRecord struct {
	Locale       Locale `json:"locale"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	CategoryName string `json:"category_name"`
}

// Upload is a raw image payload submitted with a piece
type Upload struct {
	Name string
	Data []byte
}

// PieceSubmission is the admin form payload for create and update
type PieceSubmission struct {
	CategoryKey  string
	Price        string
	Fields       map[string]string // e.g. srTitle, ruDescription, enCategory
	ExistingURLs []string          // update only, already in display order
	Files        []Upload
}

// MutationResult is what admin mutations report back to the form
type MutationResult struct {
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
	PieceID *uuid.UUID `json:"piece_id,omitempty"`

	Reason FailureReason `json:"-"`
}

type PieceSummary struct {
	ID           uuid.UUID           `json:"id"`
	CategoryKey  CategoryKey         `json:"category_key"`
	CoverImage   string              `json:"cover_image"`
	Title        string              `json:"title"`
	CategoryName string              `json:"category_name"`
	Price        decimal.NullDecimal `json:"price"`
	CreatedAt    time.Time           `json:"created_at"`
}

type PieceDetail struct {
	ID           uuid.UUID           `json:"id"`
	Locale       Locale              `json:"locale"`
	CategoryKey  CategoryKey         `json:"category_key"`
	CoverImage   string              `json:"cover_image"`
	MediaURLs    []string            `json:"media_urls"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	CategoryName string              `json:"category_name"`
	Price        decimal.NullDecimal `json:"price"`
	CreatedAt    time.Time           `json:"created_at"`
}

type GalleryQuery struct {
	Locale   Locale
	Category CategoryKey // empty or CategoryAll disables the filter
	Page     int
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type GalleryPage struct {
	Pieces     []PieceSummary `json:"pieces"`
	Pagination Pagination     `json:"pagination"`
}

type InquiryRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

// FailureReason classifies a failed mutation for the transport layer
type FailureReason string

const (
	FailureUnauthorized FailureReason = "unauthorized"
	FailureInvalid      FailureReason = "invalid"
	FailureUpload       FailureReason = "upload"
	FailureNotFound     FailureReason = "not_found"
	FailurePersistence  FailureReason = "persistence"
)
