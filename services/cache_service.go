package services

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"njatashiz_server/structs"
	"njatashiz_server/structs/tables"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

const (
	adminPiecesKey    = "admin:pieces"
	galleryListPrefix = "gallery:list:"
	piecePrefix       = "gallery:piece:"
	scanBatchSize     = 100

	// PieceCachePattern matches every cached piece detail
	PieceCachePattern = piecePrefix + "*"
)

// CacheService provides Redis caching and route revalidation
type CacheService struct {
	logger *gecho.Logger
	config structs.CacheConfig
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg structs.CacheConfig) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: getRedisClient(cfg),
	}
}

// getRedisClient returns a singleton Redis client with connection pooling
func getRedisClient(cfg structs.CacheConfig) *redis.Client {
	redisOnce.Do(func() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,

			PoolSize:        cfg.PoolSize,
			MinIdleConns:    cfg.MinIdleConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			PoolTimeout:     cfg.PoolTimeout,
			ConnMaxIdleTime: cfg.IdleTimeout,

			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,

			MaxRetries:      cfg.MaxRetries,
			MinRetryBackoff: cfg.MinRetryBackoff,
			MaxRetryBackoff: cfg.MaxRetryBackoff,
		})
	})
	return redisClient
}

func (cs *CacheService) Close() error {
	return cs.client.Close()
}

// withRetry executes a Redis operation with exponential backoff and jitter
func (cs *CacheService) withRetry(ctx context.Context, operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == maxRetries || !isRetryableCacheError(err) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoffWithJitter(attempt)):
		}
	}

	return fmt.Errorf("redis operation failed: %w", lastErr)
}

// backoffWithJitter returns 100ms * 2^attempt capped at 2s, jittered to 50-100%
func backoffWithJitter(attempt int) time.Duration {
	backoff := min(100*(1<<attempt), 2000)

	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Duration(backoff) * time.Millisecond
	}
	jitter := int(binary.BigEndian.Uint32(b[:]) % uint32(backoff/2+1))

	return time.Duration(backoff/2+jitter) * time.Millisecond
}

func isRetryableCacheError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}

	errStr := err.Error()
	for _, retryable := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	} {
		if strings.Contains(errStr, retryable) {
			return true
		}
	}
	return false
}

// Get returns the value of key, or "" when it does not exist
func (cs *CacheService) Get(ctx context.Context, key string) (string, error) {
	var result string
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			result = ""
			return nil
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	}, 3)
	return result, err
}

func (cs *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Set(ctx, key, value, ttl).Err()
	}, 3)
}

func (cs *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return cs.withRetry(ctx, func() error {
		return cs.client.Del(ctx, keys...).Err()
	}, 3)
}

// DeletePattern removes every key matching a glob pattern
func (cs *CacheService) DeletePattern(ctx context.Context, pattern string) (int, error) {
	var keys []string
	iter := cs.client.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan keys for %s: %w", pattern, err)
	}

	if err := cs.Delete(ctx, keys...); err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (cs *CacheService) Ping(ctx context.Context) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Ping(ctx).Err()
	}, 3)
}

// IncrementRateLimit atomically increments a fixed-window counter
func (cs *CacheService) IncrementRateLimit(ctx context.Context, ip, endpoint string, window time.Duration) (int, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)

	var result int64
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Incr(ctx, key).Result()
		if err != nil {
			return err
		}
		result = val

		if val == 1 {
			return cs.client.Expire(ctx, key, window).Err()
		}
		return nil
	}, 3)

	return int(result), err
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	stats := cs.client.PoolStats()

	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

func getJSON[T any](ctx context.Context, cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(ctx, key)
	if err != nil || val == "" {
		return nil, err
	}

	var out T
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return &out, nil
}

func setJSON(ctx context.Context, cs *CacheService, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(ctx, key, data, ttl)
}

// ============================================================================
// Gallery caching
// ============================================================================

func galleryPageKey(q structs.GalleryQuery) string {
	category := q.Category
	if category == "" {
		category = structs.CategoryAll
	}
	return fmt.Sprintf("%s%s:%s:page:%d", galleryListPrefix, q.Locale, category, q.Page)
}

func pieceDetailKey(id uuid.UUID, locale structs.Locale) string {
	return fmt.Sprintf("%s%s:%s", piecePrefix, id, locale)
}

func (cs *CacheService) GetGalleryPage(ctx context.Context, q structs.GalleryQuery) (*structs.GalleryPage, error) {
	return getJSON[structs.GalleryPage](ctx, cs, galleryPageKey(q))
}

func (cs *CacheService) SetGalleryPage(ctx context.Context, q structs.GalleryQuery, page *structs.GalleryPage) error {
	return setJSON(ctx, cs, galleryPageKey(q), page, cs.config.GalleryTTL)
}

func (cs *CacheService) GetPieceDetail(ctx context.Context, id uuid.UUID, locale structs.Locale) (*structs.PieceDetail, error) {
	return getJSON[structs.PieceDetail](ctx, cs, pieceDetailKey(id, locale))
}

func (cs *CacheService) SetPieceDetail(ctx context.Context, detail *structs.PieceDetail) error {
	return setJSON(ctx, cs, pieceDetailKey(detail.ID, detail.Locale), detail, cs.config.PieceTTL)
}

func (cs *CacheService) GetAdminPieces(ctx context.Context) ([]tables.JewelryPiece, error) {
	pieces, err := getJSON[[]tables.JewelryPiece](ctx, cs, adminPiecesKey)
	if err != nil || pieces == nil {
		return nil, err
	}
	return *pieces, nil
}

func (cs *CacheService) SetAdminPieces(ctx context.Context, pieces []tables.JewelryPiece) error {
	return setJSON(ctx, cs, adminPiecesKey, pieces, cs.config.GalleryTTL)
}

// invalidationPattern maps a route pattern to the cache keys rendered from it
func invalidationPattern(path string) (string, error) {
	switch {
	case path == AdminListPath:
		return adminPiecesKey, nil
	case path == GalleryListPath:
		return galleryListPrefix + "*", nil
	case strings.HasPrefix(path, GalleryListPath+"/"):
		id, err := uuid.Parse(strings.TrimPrefix(path, GalleryListPath+"/"))
		if err != nil {
			return "", fmt.Errorf("invalid piece route %q: %w", path, err)
		}
		return piecePrefix + id.String() + ":*", nil
	}
	return "", fmt.Errorf("no cached representation for route %q", path)
}

// Invalidate drops every cached representation of a route pattern
func (cs *CacheService) Invalidate(ctx context.Context, path string) error {
	pattern, err := invalidationPattern(path)
	if err != nil {
		return err
	}

	removed, err := cs.DeletePattern(ctx, pattern)
	if err != nil {
		return err
	}

	cs.logger.Debug("Invalidated cached route", gecho.Field("path", path), gecho.Field("keys", removed))
	return nil
}

// NopRevalidator is used when caching is disabled
type NopRevalidator struct{}

func (NopRevalidator) Invalidate(context.Context, string) error { return nil }

// BlacklistToken revokes a session token id until it would have expired anyway
func (cs *CacheService) BlacklistToken(ctx context.Context, jti uuid.UUID, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return cs.Set(ctx, "blacklist:"+jti.String(), "true", ttl)
}

func (cs *CacheService) IsTokenBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error) {
	val, err := cs.Get(ctx, "blacklist:"+jti.String())
	if err != nil {
		return false, err
	}
	return val == "true", nil
}
