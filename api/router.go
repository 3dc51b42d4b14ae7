package api

import (
	"net/http"
	"njatashiz_server/api/admin"
	"njatashiz_server/api/auth"
	"njatashiz_server/api/debug"
	"njatashiz_server/api/gallery"
	"njatashiz_server/api/health"
	"njatashiz_server/api/middleware"
	"njatashiz_server/config"
	"njatashiz_server/services"
	"njatashiz_server/structs"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

func App(cfg *structs.Config, sm *services.ServiceManager) chi.Router {
	r := chi.NewRouter()

	// create loggers
	logLevel := gecho.ParseLogLevel(config.GetLogLevel())
	mwLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(false), gecho.WithLogLevel(logLevel)))
	standardLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(true), gecho.WithLogLevel(logLevel)))

	var limiter middleware.RateLimiter
	if sm.CacheService != nil {
		limiter = sm.CacheService
	}

	// Initialize middleware
	mw := middleware.NewMiddleware(mwLogger, cfg, sm.AuthService, limiter)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security
	r.Use(mw.BodyLimit(cfg.Storage.MaxUploadBytes))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(mw.SetupLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware)

	// CORS (must be before auth / csrf)
	r.Use(mw.SetupCORS().Handler)

	// Register all routes
	NewRouterManager(
		gallery.NewGalleryRoutesManager(standardLogger, sm.GalleryService, sm.EmailService, mw),
		health.NewHealthRoutesManager(sm.HealthService),
		auth.NewAuthRoutesManager(standardLogger, sm.AuthService, cfg, mw),
		admin.NewAdminRoutesManager(standardLogger, sm.GalleryService, sm.PieceService, mw),
		debug.NewDebugRoutesManager(sm.CacheService, mw),
	).RegisterRoutes(r)

	// Uploaded media
	publicPath := "/" + strings.Trim(cfg.Storage.PublicPath, "/")
	r.Handle(publicPath+"/*", http.StripPrefix(publicPath, noDirListing(http.FileServer(http.Dir(sm.BlobStore.Dir())))))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gecho.Success(w,
			gecho.WithMessage("Welcome to the Njatashiz API"),
			gecho.Send(),
		)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.Send(),
		)
	})

	return r
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			gecho.NotFound(w, gecho.Send())
			return
		}
		next.ServeHTTP(w, r)
	})
}
