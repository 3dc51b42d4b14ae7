package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"njatashiz_server/database"
	"njatashiz_server/lib"
	"njatashiz_server/structs"
	"njatashiz_server/structs/tables"

	"github.com/google/uuid"
)

var testAdmin = structs.AdminConfig{Email: " Admin@Njatashiz.com ", Password: "correct horse battery", Name: "Admin"}

type memBlacklist struct {
	mu      sync.Mutex
	revoked map[uuid.UUID]time.Time
}

func (b *memBlacklist) BlacklistToken(_ context.Context, jti uuid.UUID, exp time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = exp
	return nil
}

func (b *memBlacklist) IsTokenBlacklisted(_ context.Context, jti uuid.UUID) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[jti]
	return ok, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *database.DB) {
	t.Helper()

	db := newTestDB(t)
	as := NewAuthService(testLogger(), structs.AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
	}, db, &memBlacklist{revoked: make(map[uuid.UUID]time.Time)})

	if err := as.SeedAdmin(context.Background(), testAdmin); err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}
	return as, db
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	t.Parallel()

	as, db := newTestAuthService(t)
	if err := as.SeedAdmin(context.Background(), testAdmin); err != nil {
		t.Fatalf("second SeedAdmin() error = %v", err)
	}

	count, err := database.Query[tables.AdminUser](db).Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d admins, want 1", count)
	}

	if err := as.SeedAdmin(context.Background(), structs.AdminConfig{Email: "other@njatashiz.com"}); err != nil {
		t.Fatalf("SeedAdmin() without password error = %v", err)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	as, _ := newTestAuthService(t)

	user, err := as.Login(context.Background(), &structs.AuthRequest{Email: "admin@njatashiz.com", Password: testAdmin.Password})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.Email != "admin@njatashiz.com" || user.PasswordHash != "" {
		t.Fatalf("Login() user = %+v", user)
	}

	for _, req := range []structs.AuthRequest{
		{Email: "admin@njatashiz.com", Password: "wrong password"},
		{Email: "nobody@njatashiz.com", Password: testAdmin.Password},
	} {
		if _, err := as.Login(context.Background(), &req); !errors.Is(err, lib.ErrInvalidCredentials) {
			t.Fatalf("Login(%s) error = %v, want ErrInvalidCredentials", req.Email, err)
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	as, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := as.Login(ctx, &structs.AuthRequest{Email: testAdmin.Email, Password: testAdmin.Password})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	token, exp, err := as.IssueSessionToken(user)
	if err != nil {
		t.Fatalf("IssueSessionToken() error = %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("token expiry %v is in the past", exp)
	}

	session, err := as.VerifySession(ctx, token)
	if err != nil {
		t.Fatalf("VerifySession() error = %v", err)
	}
	if session.UserID != user.Id || session.Role != "admin" {
		t.Fatalf("VerifySession() = %+v", session)
	}

	if err := as.Logout(ctx, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := as.VerifySession(ctx, token); !errors.Is(err, lib.ErrInvalidToken) {
		t.Fatalf("VerifySession() after logout error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifySessionRejects(t *testing.T) {
	t.Parallel()

	as, _ := newTestAuthService(t)
	ctx := context.Background()

	editor, err := lib.SignToken(&structs.AuthClaims{
		Sub:  uuid.New(),
		Role: "editor",
		Iat:  time.Now(),
		Exp:  time.Now().Add(time.Hour),
		Jti:  uuid.New(),
	}, "test-secret")
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}

	for name, token := range map[string]string{
		"empty":     "",
		"garbage":   "not-a-jwt",
		"non-admin": editor,
	} {
		if _, err := as.VerifySession(ctx, token); err == nil {
			t.Fatalf("%s: VerifySession() error = nil", name)
		}
	}
}
