package lib

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Auth errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Submission errors
var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidLocale   = errors.New("invalid locale")
)

// MapPgError translates constraint errors into package sentinels
func MapPgError(err error) error {
	if err == nil {
		return nil
	}

	code := ""
	var pgErr *pgconn.PgError
	var driverErr pgdriver.Error
	switch {
	case errors.As(err, &pgErr):
		code = pgErr.Code
	case errors.As(err, &driverErr):
		code = driverErr.Field('C')
	case strings.Contains(err.Error(), "UNIQUE constraint failed"): // sqlite
		code = "23505"
	}

	switch code {
	case "23505": // unique_violation
		return ErrConflict
	case "P0002": // no_data_found
		return ErrNotFound
	}
	return err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrConflict)
}
