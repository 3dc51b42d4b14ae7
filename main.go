package main

import (
	"context"
	"errors"
	"fmt"
	"njatashiz_server/api"
	"njatashiz_server/config"
	"njatashiz_server/database"
	"njatashiz_server/services"
	"njatashiz_server/structs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

var logger *gecho.Logger
var cfg *structs.Config

// init function to load environment variables and initialize logger and database
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	if err := database.Initialize(); err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}
}

func main() {
	sm, err := services.NewServiceManager(logger, cfg, database.GetInstance())
	if err != nil {
		logger.Fatal("Failed to initialize services", gecho.Field("error", err))
	}

	if err := sm.AuthService.SeedAdmin(context.Background(), cfg.Admin); err != nil {
		logger.Fatal("Failed to seed admin account", gecho.Field("error", err))
	}

	srv := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", gecho.Field("error", err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal, draining connections")

	shutdown(srv, sm)
}

// shutdown drains in-flight requests and releases the database and cache
// connections
func shutdown(srv *http.Server, sm *services.ServiceManager) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", gecho.Field("error", err))
	}

	if sm.CacheService != nil {
		if err := sm.CacheService.Close(); err != nil {
			logger.Warn("Failed to close cache connection", gecho.Field("error", err))
		}
	}
	if err := database.CloseInstance(); err != nil {
		logger.Warn("Failed to close database connection", gecho.Field("error", err))
	}

	logger.Info("Server stopped")
}
