package services

import (
	"context"
	"errors"
	"fmt"
	"njatashiz_server/database"
	"njatashiz_server/lib"
	"njatashiz_server/structs"
	"njatashiz_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

const adminRole = "admin"

// TokenBlacklist tracks revoked session tokens
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti uuid.UUID, exp time.Time) error
	IsTokenBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error)
}

type AuthService struct {
	logger    *gecho.Logger
	cfg       structs.AuthConfig
	db        *database.DB
	blacklist TokenBlacklist
}

// NewAuthService creates the admin auth service; blacklist may be nil
func NewAuthService(logger *gecho.Logger, cfg structs.AuthConfig, db *database.DB, blacklist TokenBlacklist) *AuthService {
	return &AuthService{
		logger:    logger,
		cfg:       cfg,
		db:        db,
		blacklist: blacklist,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks admin credentials
func (as *AuthService) Login(ctx context.Context, req *structs.AuthRequest) (*tables.AdminUser, error) {
	startTime := time.Now()
	email := normalizeEmail(req.Email)

	user, err := database.Query[tables.AdminUser](as.db).Where("email", email).First(ctx)
	if err != nil {
		as.logger.Error("Unexpected database error during login", gecho.Field("error", err))
		return nil, lib.ErrInvalidCredentials
	}
	if user == nil {
		as.logger.Debug("Admin not found during login attempt", gecho.Field("email", email))
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := lib.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return nil, lib.ErrInvalidCredentials
	}
	if !valid {
		as.logger.Debug("Invalid password attempt", gecho.Field("email", email))
		return nil, lib.ErrInvalidCredentials
	}

	as.logger.Debug("Admin logged in", gecho.Field("user_id", user.Id), gecho.Field("duration", time.Since(startTime)))

	user.PasswordHash = ""
	return user, nil
}

// IssueSessionToken signs a session token for user
func (as *AuthService) IssueSessionToken(user *tables.AdminUser) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(as.cfg.AccessTokenExpiry)

	token, err := lib.SignToken(&structs.AuthClaims{
		Sub:   user.Id,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		Iat:   now,
		Exp:   exp,
		Jti:   uuid.New(),
	}, as.cfg.AccessTokenSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// VerifySession resolves a session token. It fails for empty, invalid,
// expired, revoked or non-admin tokens.
func (as *AuthService) VerifySession(ctx context.Context, token string) (*structs.Session, error) {
	if token == "" {
		return nil, lib.ErrUnauthorized
	}

	claims, err := lib.ParseToken(token, as.cfg.AccessTokenSecret)
	if err != nil {
		return nil, err
	}
	if claims.Role != adminRole {
		return nil, lib.ErrUnauthorized
	}

	if as.blacklist != nil {
		revoked, err := as.blacklist.IsTokenBlacklisted(ctx, claims.Jti)
		if err != nil {
			as.logger.Warn("Failed to check token blacklist", gecho.Field("error", err))
		} else if revoked {
			return nil, lib.ErrInvalidToken
		}
	}

	return &structs.Session{
		UserID:    claims.Sub,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      claims.Role,
		ExpiresAt: claims.Exp,
	}, nil
}

// Logout revokes a session token when a blacklist is available
func (as *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := lib.ParseToken(token, as.cfg.AccessTokenSecret)
	if err != nil {
		return err
	}
	if as.blacklist == nil {
		return nil
	}
	return as.blacklist.BlacklistToken(ctx, claims.Jti, claims.Exp)
}

func (as *AuthService) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := database.Query[tables.AdminUser](as.db).Where("id", id).Update(ctx, map[string]any{"last_login": time.Now().UTC()})
	return err
}

// SeedAdmin creates the configured admin account when it does not exist yet
func (as *AuthService) SeedAdmin(ctx context.Context, cfg structs.AdminConfig) error {
	if cfg.Password == "" {
		as.logger.Warn("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	email := normalizeEmail(cfg.Email)
	existing, err := database.Query[tables.AdminUser](as.db).Where("email", email).First(ctx)
	if err != nil {
		return fmt.Errorf("failed to look up admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := lib.HashPassword(cfg.Password, lib.DefaultArgonParams)
	if err != nil {
		return err
	}

	_, err = database.Query[tables.AdminUser](as.db).Insert(ctx, &tables.AdminUser{
		Id:           uuid.New(),
		Email:        email,
		Name:         cfg.Name,
		PasswordHash: hash,
		Role:         adminRole,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(lib.MapPgError(err), lib.ErrConflict) {
			return nil
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	as.logger.Info("Seeded admin account", gecho.Field("email", email))
	return nil
}
