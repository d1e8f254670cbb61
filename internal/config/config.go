package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort             = "3000"
	defaultDatabaseURL      = "stressor_leads.db"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultJWTTTL           = "720h"
	defaultUploadDir        = "./uploads"
	defaultMaxUploadSize    = "52428800"
	defaultIngestWorkers    = "4"
	defaultIngestQueueSize  = "64"
	defaultAsynqQueue       = "ingest"
	defaultAsynqConcurrency = "4"
	defaultMinIOBucket      = "dealer-uploads"
	defaultSMTPPort         = "587"
	defaultPhoneRegion      = "US"
	defaultStaleUploadAfter = "1h"
)

type Config struct {
	AppEnv  string
	LogMode string
	Port    string

	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	FrontendURL        string
	CORSAllowedOrigins []string

	UploadDir     string
	MaxUploadSize int64

	IngestWorkers    int
	IngestQueueSize  int
	RedisURL         string
	AsynqQueue       string
	AsynqConcurrency int

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	PhoneRegion      string
	StaleUploadAfter time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)
	cfg.LogMode = strings.TrimSpace(getEnv("LOG_MODE", cfg.AppEnv))
	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))

	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	cfg.FrontendURL = strings.TrimSpace(os.Getenv("FRONTEND_URL"))
	cfg.CORSAllowedOrigins = splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS"))

	cfg.UploadDir = strings.TrimSpace(getEnv("UPLOAD_DIR", defaultUploadDir))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.AsynqQueue = strings.TrimSpace(getEnv("ASYNQ_QUEUE", defaultAsynqQueue))

	cfg.MinIOEndpoint = strings.TrimSpace(os.Getenv("MINIO_ENDPOINT"))
	cfg.MinIOAccessKey = strings.TrimSpace(os.Getenv("MINIO_ACCESS_KEY"))
	cfg.MinIOSecretKey = strings.TrimSpace(os.Getenv("MINIO_SECRET_KEY"))
	cfg.MinIOBucket = strings.TrimSpace(getEnv("MINIO_BUCKET", defaultMinIOBucket))
	cfg.MinIOUseSSL = parseBoolEnv("MINIO_USE_SSL", "false")

	cfg.SMTPHost = strings.TrimSpace(os.Getenv("SMTP_HOST"))
	cfg.SMTPUsername = strings.TrimSpace(os.Getenv("SMTP_USERNAME"))
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.SMTPFrom = strings.TrimSpace(os.Getenv("SMTP_FROM"))

	cfg.PhoneRegion = strings.ToUpper(strings.TrimSpace(getEnv("PHONE_REGION", defaultPhoneRegion)))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.StaleUploadAfter, err = parseDurationEnv("STALE_UPLOAD_AFTER", defaultStaleUploadAfter); err != nil {
		return nil, err
	}
	if cfg.MaxUploadSize, err = parseInt64Env("MAX_UPLOAD_SIZE", defaultMaxUploadSize); err != nil {
		return nil, err
	}
	if cfg.IngestWorkers, err = parseIntEnv("INGEST_WORKERS", defaultIngestWorkers); err != nil {
		return nil, err
	}
	if cfg.IngestQueueSize, err = parseIntEnv("INGEST_QUEUE_SIZE", defaultIngestQueueSize); err != nil {
		return nil, err
	}
	if cfg.AsynqConcurrency, err = parseIntEnv("ASYNQ_CONCURRENCY", defaultAsynqConcurrency); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = parseIntEnv("SMTP_PORT", defaultSMTPPort); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}

func (c *Config) IsRedisEnabled() bool { return c.RedisURL != "" }

func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

func (c *Config) IsSMTPEnabled() bool { return c.SMTPHost != "" && c.SMTPFrom != "" }

// localOrigins are allowed when no origin is configured.
var localOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// AllowedOrigins merges FRONTEND_URL with CORS_ALLOWED_ORIGINS, falling back
// to local development origins.
func (c *Config) AllowedOrigins() []string {
	if c.FrontendURL == "" && len(c.CORSAllowedOrigins) == 0 {
		return append([]string(nil), localOrigins...)
	}
	origins := make([]string, 0, len(c.CORSAllowedOrigins)+1)
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	for _, o := range c.CORSAllowedOrigins {
		if o != c.FrontendURL {
			origins = append(origins, o)
		}
	}
	return origins
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be > 0")
	}
	if cfg.IngestWorkers < 1 {
		return fmt.Errorf("INGEST_WORKERS must be >= 1")
	}
	if cfg.IngestQueueSize < 1 {
		return fmt.Errorf("INGEST_QUEUE_SIZE must be >= 1")
	}
	if cfg.AsynqConcurrency < 1 {
		return fmt.Errorf("ASYNQ_CONCURRENCY must be >= 1")
	}
	if cfg.StaleUploadAfter <= 0 {
		return fmt.Errorf("STALE_UPLOAD_AFTER must be > 0")
	}
	if cfg.IsMinIOEnabled() && (cfg.MinIOAccessKey == "" || cfg.MinIOSecretKey == "") {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.DatabaseURL, defaultDatabaseURL) {
			return fmt.Errorf("in prod/release DATABASE_URL must point at a real database")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseInt64Env(name, fallback string) (int64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
