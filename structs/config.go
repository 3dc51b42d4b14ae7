package structs

import "time"

type Config struct {
	Server    ServerConfig
	Cors      CorsConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Auth      AuthConfig
	Admin     AdminConfig
	Storage   StorageConfig
	Email     EmailConfig
	RateLimit RateLimitConfig
	Gallery   GalleryConfig
}

type ServerConfig struct {
	AppName        string        `env:"APP_NAME" envDefault:"Njatashiz"`
	Environment    string        `env:"APP_ENV" envDefault:"development"` // development, production
	Port           string        `env:"APP_PORT" envDefault:":8082"`
	PublicURL      string        `env:"SERVER_PUBLIC_URL" envDefault:"http://localhost:8082"`
	FrontendURL    string        `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	CookieDomain   string        `env:"COOKIE_DOMAIN"`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIME_OUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIME_OUT" envDefault:"30s"`
	IdleTimeout    time.Duration `env:"SERVER_IDLE_TIME_OUT" envDefault:"60s"`
	MaxHeaderBytes int           `env:"SERVER_MAX_HEADER_BYTES" envDefault:"1048576"`
}

type CorsConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOW_ORIGINS" envDefault:"http://localhost:3000"`
	AllowedMethods   []string `env:"CORS_ALLOW_METHODS" envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOW_HEADERS" envDefault:"Origin,Content-Type,Accept,Authorization,X-CSRF-Token"`
	ExposedHeaders   []string `env:"CORS_EXPOSED_HEADERS" envDefault:"Content-Length"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"300"`
}

type DatabaseConfig struct {
	Driver       string        `env:"DB_DRIVER" envDefault:"postgres"` // postgres, sqlite
	Host         string        `env:"DB_HOST" envDefault:"localhost"`
	Port         int           `env:"DB_PORT" envDefault:"5432"`
	User         string        `env:"DB_USER" envDefault:"postgres"`
	Password     string        `env:"DB_PASSWORD" envDefault:"password"`
	Name         string        `env:"DB_NAME" envDefault:"njatashiz_db"`
	Insecure     bool          `env:"DB_INSECURE" envDefault:"true"`
	SQLitePath   string        `env:"DB_SQLITE_PATH" envDefault:"file:njatashiz.db?_pragma=foreign_keys(1)"`
	MaxConns     int           `env:"DB_MAX_CONNS" envDefault:"10"`
	MinConns     int           `env:"DB_MIN_CONNS" envDefault:"2"`
	MaxLifetime  time.Duration `env:"DB_MAX_LIFETIME" envDefault:"30m"`
	MaxIdleTime  time.Duration `env:"DB_MAX_IDLE_TIME" envDefault:"5m"`
	ReadTimeout  time.Duration `env:"DB_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"DB_WRITE_TIMEOUT" envDefault:"5s"`
}

type CacheConfig struct {
	Enabled         bool          `env:"CACHE_ENABLED" envDefault:"true"`
	Address         string        `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	Username        string        `env:"REDIS_USERNAME"`
	Password        string        `env:"REDIS_PASSWORD"`
	DB              int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns    int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxIdleConns    int           `env:"REDIS_MAX_IDLE_CONNS" envDefault:"5"`
	PoolTimeout     time.Duration `env:"REDIS_POOL_TIMEOUT" envDefault:"4s"`
	IdleTimeout     time.Duration `env:"REDIS_IDLE_TIMEOUT" envDefault:"5m"`
	DialTimeout     time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout     time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout    time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	MaxRetries      int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	MinRetryBackoff time.Duration `env:"REDIS_MIN_RETRY_BACKOFF" envDefault:"8ms"`
	MaxRetryBackoff time.Duration `env:"REDIS_MAX_RETRY_BACKOFF" envDefault:"512ms"`
	GalleryTTL      time.Duration `env:"CACHE_GALLERY_TTL" envDefault:"10m"`
	PieceTTL        time.Duration `env:"CACHE_PIECE_TTL" envDefault:"30m"`
}

type AuthConfig struct {
	AccessTokenSecret string        `env:"AUTH_ACCESS_TOKEN_SECRET" envDefault:"default_access_secret"`
	AccessTokenExpiry time.Duration `env:"AUTH_ACCESS_TOKEN_EXPIRY" envDefault:"24h"`
	CSRFTokenExpiry   time.Duration `env:"AUTH_CSRF_TOKEN_EXPIRY" envDefault:"12h"`
}

// AdminConfig describes the account seeded on startup.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL" envDefault:"admin@njatashiz.com"`
	Password string `env:"ADMIN_PASSWORD"`
	Name     string `env:"ADMIN_NAME" envDefault:"Admin"`
}

type StorageConfig struct {
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"uploads"`
	PublicPath     string `env:"UPLOAD_PUBLIC_PATH" envDefault:"/uploads"`
	MaxImageWidth  uint   `env:"UPLOAD_MAX_IMAGE_WIDTH" envDefault:"1600"`
	MaxUploadBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"33554432"` // 32 MB per request
	Concurrency    int    `env:"UPLOAD_CONCURRENCY" envDefault:"4"`
}

type EmailConfig struct {
	ApiKey    string `env:"RESEND_API_KEY"`
	From      string `env:"EMAIL_FROM" envDefault:"Njatashiz <gallery@njatashiz.com>"`
	InquiryTo string `env:"EMAIL_INQUIRY_TO" envDefault:"admin@njatashiz.com"`
}

type RateLimitConfig struct {
	Enabled       bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	AuthLimit     int           `env:"RATE_LIMIT_AUTH" envDefault:"10"`
	AuthWindow    time.Duration `env:"RATE_LIMIT_AUTH_WINDOW" envDefault:"15m"`
	InquiryLimit  int           `env:"RATE_LIMIT_INQUIRY" envDefault:"5"`
	InquiryWindow time.Duration `env:"RATE_LIMIT_INQUIRY_WINDOW" envDefault:"1h"`
}

type GalleryConfig struct {
	PageSize int `env:"GALLERY_PAGE_SIZE" envDefault:"12"`
}
