package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionBackendSQLite = "sqlite"
	SessionBackendRedis  = "redis"
)

const minAdminPasswordLen = 8

type Config struct {
	Addr                  string
	DBPath                string
	LogLevel              string
	SessionBackend        string
	RedisAddr             string
	SessionTTLHours       int
	GeminiAPIKey          string
	GeminiModel           string
	UnsplashAPIKey        string
	ImageRequestInterval  time.Duration
	GenerationWorkerCount int
	GenerationQueueSize   int
	TriggerBatchSize      int
	DownloadDir           string
	YtDlpPath             string
	AdminUser             string
	AdminPassword         string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:rebux.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		SessionBackend:        strings.ToLower(envOr("SESSION_BACKEND", SessionBackendSQLite)),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		SessionTTLHours:       envIntOr("SESSION_TTL_HOURS", 24*14),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiModel:           envOr("GEMINI_MODEL", "gemini-2.5-flash"),
		UnsplashAPIKey:        os.Getenv("UNSPLASH_API_KEY"),
		ImageRequestInterval:  time.Duration(envIntOr("IMAGE_REQUEST_INTERVAL_MS", 1000)) * time.Millisecond,
		GenerationWorkerCount: envIntOr("GENERATION_WORKER_COUNT", 1),
		GenerationQueueSize:   envIntOr("GENERATION_QUEUE_SIZE", 16),
		TriggerBatchSize:      envIntOr("TRIGGER_BATCH_SIZE", 2),
		DownloadDir:           envOr("DOWNLOAD_DIR", "downloads"),
		YtDlpPath:             envOr("YTDLP_PATH", "yt-dlp"),
		AdminUser:             envOr("ADMIN_USER", "admin"),
		AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
	}
}

// SessionTTL returns the configured session lifetime.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	switch c.SessionBackend {
	case SessionBackendSQLite:
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when SESSION_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND must be %q or %q (got %q)", SessionBackendSQLite, SessionBackendRedis, c.SessionBackend))
	}
	if c.SessionTTLHours <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL_HOURS must be positive (got %d)", c.SessionTTLHours))
	}
	if c.ImageRequestInterval < 0 {
		errs = append(errs, fmt.Errorf("IMAGE_REQUEST_INTERVAL_MS cannot be negative (got %v)", c.ImageRequestInterval))
	}
	if c.GenerationWorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("GENERATION_WORKER_COUNT must be positive (got %d)", c.GenerationWorkerCount))
	}
	if c.GenerationQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("GENERATION_QUEUE_SIZE must be positive (got %d)", c.GenerationQueueSize))
	}
	if c.TriggerBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("TRIGGER_BATCH_SIZE must be positive (got %d)", c.TriggerBatchSize))
	}
	if c.DownloadDir == "" {
		errs = append(errs, errors.New("DOWNLOAD_DIR cannot be empty"))
	}

	if c.AdminUser == "" {
		errs = append(errs, errors.New("ADMIN_USER cannot be empty"))
	}
	if len(c.AdminPassword) < minAdminPasswordLen {
		errs = append(errs, fmt.Errorf("ADMIN_PASSWORD must be at least %d characters", minAdminPasswordLen))
	}

	return errors.Join(errs...)
}

// AdminCredentials returns the user/password map guarding the admin routes.
func (c Config) AdminCredentials() map[string]string {
	return map[string]string{c.AdminUser: c.AdminPassword}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
