package services

import (
	"njatashiz_server/database"
	"njatashiz_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService    *AuthService
	EmailService   *EmailService
	CacheService   *CacheService // nil when caching is disabled
	HealthService  *HealthService
	GalleryService *GalleryService
	PieceService   *PieceService
	BlobStore      *LocalBlobStore
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) (*ServiceManager, error) {
	blobStore, err := NewLocalBlobStore(logger, cfg.Storage)
	if err != nil {
		return nil, err
	}

	store := NewBunPieceStore(db)

	var (
		cacheService *CacheService
		galleryCache GalleryCache
		revalidator  Revalidator = NopRevalidator{}
		blacklist    TokenBlacklist
	)
	if cfg.Cache.Enabled {
		cacheService = NewCacheService(logger, cfg.Cache)
		galleryCache = cacheService
		revalidator = cacheService
		blacklist = cacheService
	}

	authService := NewAuthService(logger, cfg.Auth, db, blacklist)

	return &ServiceManager{
		AuthService:    authService,
		EmailService:   NewEmailService(logger, cfg.Email),
		CacheService:   cacheService,
		HealthService:  NewHealthService(logger, db, cacheService),
		GalleryService: NewGalleryService(logger, store, galleryCache, cfg.Gallery.PageSize),
		PieceService:   NewPieceService(logger, store, authService, blobStore, revalidator, cfg.Storage.Concurrency),
		BlobStore:      blobStore,
	}, nil
}
