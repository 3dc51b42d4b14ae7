package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"njatashiz_server/database"
	"njatashiz_server/services"
	"njatashiz_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"
)

const (
	adminEmail    = "admin@njatashiz.com"
	adminPassword = "correct horse battery"
)

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	*httptest.Server
	client *http.Client
	sm     *services.ServiceManager
	csrf   string
}

func newTestServer(t *testing.T) *testServer {
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

	cfg := &structs.Config{
		Cors: structs.CorsConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Auth: structs.AuthConfig{
			AccessTokenSecret: "test-secret",
			AccessTokenExpiry: time.Hour,
			CSRFTokenExpiry:   time.Hour,
		},
		Admin:   structs.AdminConfig{Email: adminEmail, Password: adminPassword, Name: "Admin"},
		Storage: structs.StorageConfig{UploadDir: t.TempDir(), PublicPath: "/uploads", MaxImageWidth: 1600, MaxUploadBytes: 8 << 20, Concurrency: 2},
		Gallery: structs.GalleryConfig{PageSize: 12},
	}

	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
	sm, err := services.NewServiceManager(logger, cfg, db)
	if err != nil {
		t.Fatalf("NewServiceManager() error = %v", err)
	}
	if err := sm.AuthService.SeedAdmin(context.Background(), cfg.Admin); err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}

	srv := httptest.NewServer(App(cfg, sm))
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testServer{Server: srv, client: client, sm: sm}
}

func (ts *testServer) do(t *testing.T, method, path string, body io.Reader, contentType string) (*http.Response, envelope) {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if ts.csrf != "" {
		req.Header.Set("X-CSRF-Token", ts.csrf)
	}

	resp, err := ts.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s error = %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &env)
	return resp, env
}

func (ts *testServer) fetchCSRF(t *testing.T) {
	t.Helper()

	resp, env := ts.do(t, http.MethodGet, "/auth/csrf", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /auth/csrf status = %d", resp.StatusCode)
	}
	var data struct {
		Token string `json:"csrf_token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("csrf token missing: %s", env.Data)
	}
	ts.csrf = data.Token
}

func (ts *testServer) login(t *testing.T) {
	t.Helper()

	ts.fetchCSRF(t)
	body := `{"email":"` + adminEmail + `","password":"` + adminPassword + `"}`
	resp, env := ts.do(t, http.MethodPost, "/auth/login", strings.NewReader(body), "application/json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /auth/login status = %d: %s", resp.StatusCode, env.Message)
	}
}

func pieceForm(t *testing.T, fields map[string]string, files map[string][]byte) (io.Reader, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("CreateFormFile() error = %v", err)
		}
		fw.Write(data)
	}
	mw.Close()
	return &body, mw.FormDataContentType()
}

func TestWelcome(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	resp, _ := ts.do(t, http.MethodGet, "/", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("security headers missing")
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.fetchCSRF(t)

	resp, _ := ts.do(t, http.MethodGet, "/admin/pieces", nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("GET /admin/pieces status = %d, want 401", resp.StatusCode)
	}

	body, ct := pieceForm(t, map[string]string{"categoryKey": "necklaces"}, nil)
	resp, _ = ts.do(t, http.MethodPost, "/admin/pieces", body, ct)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("POST /admin/pieces status = %d, want 401", resp.StatusCode)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.fetchCSRF(t)

	body := `{"email":"` + adminEmail + `","password":"definitely wrong"}`
	resp, _ := ts.do(t, http.MethodPost, "/auth/login", strings.NewReader(body), "application/json")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("POST /auth/login status = %d, want 401", resp.StatusCode)
	}
}

func TestLoginRequiresCSRF(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	body := `{"email":"` + adminEmail + `","password":"` + adminPassword + `"}`
	resp, _ := ts.do(t, http.MethodPost, "/auth/login", strings.NewReader(body), "application/json")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("POST /auth/login without csrf status = %d, want 403", resp.StatusCode)
	}
}

func TestPiecePublishingFlow(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.login(t)

	body, ct := pieceForm(t, map[string]string{
		"categoryKey":   "necklaces",
		"price":         "4500",
		"srTitle":       "Ogrlica Luna",
		"srDescription": "Ručno rađena ogrlica",
		"srCategory":    "Ogrlice",
		"enTitle":       "Luna Necklace",
		"enDescription": "Handmade necklace",
		"enCategory":    "Necklaces",
	}, map[string][]byte{"luna.gif": []byte("GIF89a")})

	resp, env := ts.do(t, http.MethodPost, "/admin/pieces", body, ct)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d: %s", resp.StatusCode, env.Message)
	}
	var created structs.MutationResult
	if err := json.Unmarshal(env.Data, &created); err != nil || created.PieceID == nil {
		t.Fatalf("create result = %s", env.Data)
	}
	id := created.PieceID.String()

	resp, env = ts.do(t, http.MethodGet, "/sr/gallery", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /sr/gallery status = %d", resp.StatusCode)
	}
	var page structs.GalleryPage
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode gallery page: %v", err)
	}
	if len(page.Pieces) != 1 || page.Pieces[0].Title != "Ogrlica Luna" {
		t.Fatalf("sr gallery = %+v", page.Pieces)
	}

	resp, env = ts.do(t, http.MethodGet, "/ru/gallery", nil, "")
	if err := json.Unmarshal(env.Data, &page); err != nil || len(page.Pieces) != 0 {
		t.Fatalf("ru gallery = %s, want empty", env.Data)
	}

	if resp, _ = ts.do(t, http.MethodGet, "/ru/gallery/"+id, nil, ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET /ru/gallery/{id} status = %d, want 404", resp.StatusCode)
	}

	resp, env = ts.do(t, http.MethodGet, "/en/gallery/"+id, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /en/gallery/{id} status = %d", resp.StatusCode)
	}
	var detail structs.PieceDetail
	if err := json.Unmarshal(env.Data, &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Title != "Luna Necklace" || len(detail.MediaURLs) != 1 {
		t.Fatalf("detail = %+v", detail)
	}

	if resp, _ = ts.do(t, http.MethodGet, detail.MediaURLs[0], nil, ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d", detail.MediaURLs[0], resp.StatusCode)
	}

	inquiry := `{"name":"Ana","email":"ana@example.com","message":"Is this piece still available?"}`
	if resp, _ = ts.do(t, http.MethodPost, "/en/gallery/"+id+"/inquiry", strings.NewReader(inquiry), "application/json"); resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("inquiry without email status = %d, want 503", resp.StatusCode)
	}

	// unpublish sr and ru, keep en
	body, ct = pieceForm(t, map[string]string{
		"categoryKey":   "necklaces",
		"enTitle":       "Luna Necklace",
		"enDescription": "Handmade necklace",
		"enCategory":    "Necklaces",
		"existingUrls":  `["` + detail.MediaURLs[0] + `"]`,
	}, nil)
	if resp, env = ts.do(t, http.MethodPut, "/admin/pieces/"+id, body, ct); resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d: %s", resp.StatusCode, env.Message)
	}

	if resp, _ = ts.do(t, http.MethodGet, "/sr/gallery/"+id, nil, ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET /sr/gallery/{id} after update status = %d, want 404", resp.StatusCode)
	}

	resp, env = ts.do(t, http.MethodGet, "/admin/pieces/"+id, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /admin/pieces/{id} status = %d", resp.StatusCode)
	}

	if resp, _ = ts.do(t, http.MethodDelete, "/admin/pieces/"+id, nil, ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	if resp, _ = ts.do(t, http.MethodGet, "/en/gallery/"+id, nil, ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want 404", resp.StatusCode)
	}
	if resp, _ = ts.do(t, http.MethodDelete, "/admin/pieces/"+id, nil, ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestCreatePieceRejectsInvalidCategory(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.login(t)

	body, ct := pieceForm(t, map[string]string{"categoryKey": "rings"}, nil)
	resp, env := ts.do(t, http.MethodPost, "/admin/pieces", body, ct)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("create status = %d, want 400", resp.StatusCode)
	}
	if env.Message != "Please choose a valid category" {
		t.Fatalf("message = %q", env.Message)
	}
}

func TestGalleryRedirectAndCategories(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/gallery?category=bracelets", nil)
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.8")
	resp, err := ts.client.Do(req)
	if err != nil {
		t.Fatalf("GET /gallery error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("GET /gallery status = %d, want 307", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/ru/gallery?category=bracelets" {
		t.Fatalf("Location = %q", loc)
	}

	resp, env := ts.do(t, http.MethodGet, "/categories?locale=en", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /categories status = %d", resp.StatusCode)
	}
	var data struct {
		Categories []structs.Category `json:"categories"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(data.Categories) != 4 || data.Categories[1].Name != "Necklaces" {
		t.Fatalf("categories = %+v", data.Categories)
	}

	if resp, _ = ts.do(t, http.MethodGet, "/de/gallery", nil, ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET /de/gallery status = %d, want 404", resp.StatusCode)
	}
}
