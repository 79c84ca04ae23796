package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	TablePrefix string
	JWKSURL     string
	DevMemberID int64 // Fixed caller used in dev when JWKSURL is empty
	CORSOrigins string

	// Gallery behaviour
	DefaultPath    string
	PageSize       int
	MaxPageSize    int
	AssetsBaseURL  string
	Timezone       *time.Location
	CategoriesFile string // Optional YAML overriding the embedded categories
	BulkActions    bool

	// Owner lookup cache
	OwnerCacheSize int
	OwnerCacheTTL  time.Duration

	// Logging
	LogFormat   string
	LogDir      string
	LogMaxFiles int

	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", "dev")

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		TablePrefix:    getTablePrefix(env),
		JWKSURL:        getEnv("JWKS_URL", ""),
		CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		DefaultPath:    os.Getenv("GALLERY_DEFAULT_PATH"),
		AssetsBaseURL:  strings.TrimRight(getEnv("ASSETS_BASE_URL", "http://localhost:8080/assets"), "/"),
		CategoriesFile: getEnv("CATEGORIES_FILE", ""),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		LogDir:         getEnv("LOG_DIR", ""),
	}

	// An explicitly empty GALLERY_DEFAULT_PATH means "top level"
	if _, set := os.LookupEnv("GALLERY_DEFAULT_PATH"); !set {
		cfg.DefaultPath = DefaultFolderPath
	}

	var err error
	if cfg.DevMemberID, err = getEnvInt64("DEV_MEMBER_ID", 0); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = getEnvInt("GALLERY_PAGE_SIZE", DefaultPageSize); err != nil {
		return nil, err
	}
	if cfg.MaxPageSize, err = getEnvInt("GALLERY_MAX_PAGE_SIZE", DefaultMaxPageSize); err != nil {
		return nil, err
	}
	if cfg.PageSize < 1 || cfg.PageSize > cfg.MaxPageSize {
		return nil, fmt.Errorf("GALLERY_PAGE_SIZE: must be between 1 and %d, got %d", cfg.MaxPageSize, cfg.PageSize)
	}
	if cfg.BulkActions, err = getEnvBool("GALLERY_BULK_ACTIONS", true); err != nil {
		return nil, err
	}
	if cfg.OwnerCacheSize, err = getEnvInt("OWNER_CACHE_SIZE", 512); err != nil {
		return nil, err
	}
	if cfg.OwnerCacheTTL, err = getEnvDuration("OWNER_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.LogMaxFiles, err = getEnvInt("LOG_MAX_FILES", 10); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("LOG_FORMAT: invalid format %q (json, text)", cfg.LogFormat)
	}

	tz := getEnv("GALLERY_TIMEZONE", "UTC")
	if cfg.Timezone, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("GALLERY_TIMEZONE: %w", err)
	}

	if env == "prod" && cfg.JWKSURL == "" {
		return nil, fmt.Errorf("JWKS_URL is required in prod")
	}

	return cfg, nil
}

// IsDev reports whether dev-only conveniences (debug logs, fixed caller) apply
func (c *Config) IsDev() bool {
	return c.Environment == "dev"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, val)
	}
	return n, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, val)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q (use Go format: 30s, 1m)", key, val)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, val)
	}
	return b, nil
}
