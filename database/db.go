package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"njatashiz_server/config"
	"njatashiz_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

// DB wraps the bun database handle
type DB struct {
	*bun.DB
}

var instance *DB

// slowQueryThreshold is the duration above which queries are logged
const slowQueryThreshold = 500 * time.Millisecond

// Connect opens the database configured by DB_DRIVER and verifies it is reachable
func Connect(cfg structs.DatabaseConfig, logger *gecho.Logger) (*DB, error) {
	var db *bun.DB

	switch cfg.Driver {
	case "postgres", "":
		connector := pgdriver.NewConnector(
			pgdriver.WithAddr(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
			pgdriver.WithUser(cfg.User),
			pgdriver.WithPassword(cfg.Password),
			pgdriver.WithDatabase(cfg.Name),
			pgdriver.WithInsecure(cfg.Insecure),
			pgdriver.WithReadTimeout(cfg.ReadTimeout),
			pgdriver.WithWriteTimeout(cfg.WriteTimeout),
		)
		sqldb := sql.OpenDB(connector)
		sqldb.SetMaxOpenConns(cfg.MaxConns)
		sqldb.SetMaxIdleConns(cfg.MinConns)
		sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
		sqldb.SetConnMaxIdleTime(cfg.MaxIdleTime)
		db = bun.NewDB(sqldb, pgdialect.New())
	case "sqlite":
		sqldb, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// sqlite allows a single writer
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db.AddQueryHook(&queryLogHook{logger: logger})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully", gecho.Field("driver", db.Dialect().Name().String()))

	return &DB{db}, nil
}

// Wrap adopts an already opened bun handle
func Wrap(db *bun.DB) *DB {
	return &DB{db}
}

// Initialize sets up the global database instance and its schema
func Initialize() error {
	db, err := Connect(config.GetConfig().Database, config.GetLogger())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := CreateSchema(context.Background(), db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	instance = db
	return nil
}

// GetInstance returns the global database instance
func GetInstance() *DB {
	if instance == nil {
		log.Fatal("Database instance is not initialized. Call Initialize() first.")
	}
	return instance
}

// CloseInstance closes the global database instance
func CloseInstance() error {
	if instance != nil {
		return instance.Close()
	}
	return nil
}

// Health pings the database
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

type queryLogHook struct {
	logger *gecho.Logger
}

func (h *queryLogHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)

	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		h.logger.Warn("Database query failed",
			gecho.Field("operation", event.Operation()),
			gecho.Field("error", event.Err),
			gecho.Field("duration", elapsed),
		)
		return
	}

	if elapsed > slowQueryThreshold {
		h.logger.Warn("Slow database query",
			gecho.Field("operation", event.Operation()),
			gecho.Field("query", event.Query),
			gecho.Field("duration", elapsed),
		)
	}
}
