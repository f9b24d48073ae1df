package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds all application configuration loaded from environment variables.
// It is built once at startup and handed to the components that need it.
type Config struct {
	Port        string
	Env         string
	StoreDriver string

	DB      DatabaseConfig
	Redis   RedisConfig
	S3      S3Config
	Catalog CatalogConfig
	Worker  WorkerConfig
	CORS    CORSConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MigrationsPath string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// S3Config contains the bucket used to archive uploaded price lists.
// Archiving is disabled when Bucket is empty.
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// CatalogConfig tunes price list uploads.
type CatalogConfig struct {
	MaxUploadBytes   int64
	DefaultCurrency  string
	UploadsPerMinute int
	JobTTL           time.Duration
}

// WorkerConfig contains timing for background workers.
type WorkerConfig struct {
	PollTimeout time.Duration
}

// CORSConfig lists the browser origins (host[:port]) allowed to call the API.
type CORSConfig struct {
	AllowedHosts []string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.StoreDriver = getEnv("STORE_DRIVER", StoreDriverPostgres)

	// Database
	cfg.DB = DatabaseConfig{
		Host:           getEnv("DB_HOST", ""),
		Port:           getEnv("DB_PORT", "5432"),
		User:           getEnv("DB_USER", ""),
		Password:       getEnv("DB_PASSWORD", ""),
		Name:           getEnv("DB_NAME", ""),
		SSLMode:        getEnv("DB_SSLMODE", "disable"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// S3 upload archive
	cfg.S3 = S3Config{
		Region:          getEnv("S3_REGION", "us-east-1"),
		Bucket:          getEnv("S3_BUCKET", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	// Catalog uploads
	cfg.Catalog = CatalogConfig{
		MaxUploadBytes:   int64(getEnvInt("CATALOG_MAX_UPLOAD_BYTES", 10<<20)),
		DefaultCurrency:  getEnv("CATALOG_DEFAULT_CURRENCY", "USD"),
		UploadsPerMinute: getEnvInt("CATALOG_UPLOADS_PER_MINUTE", 10),
	}

	cfg.CORS = CORSConfig{
		AllowedHosts: splitList(getEnv("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000")),
	}

	var err error
	if cfg.Catalog.JobTTL, err = parseDurationEnv("CATALOG_JOB_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_JOB_TTL: %w", err)
	}
	if cfg.Worker.PollTimeout, err = parseDurationEnv("WORKER_POLL_TIMEOUT", "5s"); err != nil {
		return nil, fmt.Errorf("invalid WORKER_POLL_TIMEOUT: %w", err)
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
			return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
		}
	case StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q: use %q or %q", cfg.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	if cfg.Catalog.MaxUploadBytes <= 0 {
		return nil, errors.New("CATALOG_MAX_UPLOAD_BYTES must be positive")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// splitList splits a comma separated value, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
