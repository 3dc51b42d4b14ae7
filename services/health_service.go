package services

import (
	"context"
	"njatashiz_server/database"
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"
	"golang.org/x/sync/errgroup"
)

var uptimeStart time.Time

func init() {
	uptimeStart = time.Now()
}

const healthCheckTimeout = 2 * time.Second

type serverHealthStatus struct {
	Uptime       float64   `json:"uptime"`        // in seconds
	CurrentTime  time.Time `json:"current_time"`  // server current time
	ServiceAlive bool      `json:"service_alive"` // always true if service is running
	RamStats     *RamStats `json:"ram_stats"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

// dependencyHealthStatus is reported for the database and the cache
type dependencyHealthStatus struct {
	Connected      bool      `json:"connected"`
	Enabled        bool      `json:"enabled"`
	LastChecked    time.Time `json:"last_checked"`
	ResponseTimeMs int64     `json:"response_time_ms"`
}

type readinessStatus struct {
	Ready    bool                   `json:"ready"`
	Degraded bool                   `json:"degraded"`
	Database dependencyHealthStatus `json:"database"`
	Cache    dependencyHealthStatus `json:"cache"`
}

type HealthService struct {
	logger *gecho.Logger
	db     *database.DB
	cache  *CacheService
}

// NewHealthService creates the health service; cache is nil when caching is disabled
func NewHealthService(logger *gecho.Logger, db *database.DB, cache *CacheService) *HealthService {
	return &HealthService{
		logger: logger,
		db:     db,
		cache:  cache,
	}
}

func getRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	totalMB := m.Sys / 1024 / 1024
	usedMB := m.Alloc / 1024 / 1024
	freeMB := totalMB - usedMB
	usedPercent := uint64(0)
	if totalMB > 0 {
		usedPercent = (usedMB * 100) / totalMB
	}

	return &RamStats{
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		FreeMB:      freeMB,
		UsedPercent: usedPercent,
	}
}

func (hs *HealthService) GetServerHealthStatus() serverHealthStatus {
	return serverHealthStatus{
		Uptime:       time.Since(uptimeStart).Seconds(),
		CurrentTime:  time.Now(),
		ServiceAlive: true,
		RamStats:     getRamStats(),
	}
}

func check(ctx context.Context, ping func(context.Context) error) (dependencyHealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)

	return dependencyHealthStatus{
		Connected:      err == nil,
		Enabled:        true,
		LastChecked:    time.Now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}, err
}

func (hs *HealthService) GetDatabaseHealthStatus(ctx context.Context) (dependencyHealthStatus, error) {
	status, err := check(ctx, hs.db.Health)
	if err != nil {
		hs.logger.Error("Database health check failed", gecho.Field("error", err))
	}
	return status, err
}

func (hs *HealthService) GetCacheHealthStatus(ctx context.Context) (dependencyHealthStatus, error) {
	if hs.cache == nil {
		return dependencyHealthStatus{LastChecked: time.Now()}, nil
	}

	status, err := check(ctx, hs.cache.Ping)
	if err != nil {
		hs.logger.Error("Cache health check failed", gecho.Field("error", err))
	}
	return status, err
}

// Readiness checks the database and the cache concurrently. The gallery is
// ready while the database answers; a failing cache only degrades it.
func (hs *HealthService) Readiness(ctx context.Context) readinessStatus {
	var (
		status          readinessStatus
		dbErr, cacheErr error
		g               errgroup.Group
	)

	g.Go(func() error {
		status.Database, dbErr = hs.GetDatabaseHealthStatus(ctx)
		return nil
	})
	g.Go(func() error {
		status.Cache, cacheErr = hs.GetCacheHealthStatus(ctx)
		return nil
	})
	_ = g.Wait()

	status.Ready = dbErr == nil
	status.Degraded = cacheErr != nil
	return status
}
