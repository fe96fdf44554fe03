// Package config reads storefront settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
	BackendSQLite   Backend = "sqlite"
	BackendMongo    Backend = "mongo"
)

type Config struct {
	HTTPAddr string
	LogLevel string

	StoreBackend  Backend
	PostgresDSN   string
	RedisAddr     string
	RedisTTL      time.Duration
	SQLitePath    string
	MongoURI      string
	MongoDatabase string

	APIBaseURL string
	APITimeout time.Duration
	JWTSecret  string

	MaxSessions  int
	Currency     currency.Unit
	SecureCookie bool
}

// Load reads .env files when present; variables already set in the
// environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("godotenv.Load[%s]: %w", f, err)
		}
	}

	return FromEnv()
}

func FromEnv() (Config, error) {
	var errs []error

	cfg := Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		StoreBackend:  Backend(getEnv("STORE_BACKEND", string(BackendMemory))),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		SQLitePath:    getEnv("SQLITE_PATH", "./data/carts.db"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "storefront"),
		APIBaseURL:    os.Getenv("API_BASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}

	var err error
	if cfg.RedisTTL, err = getDuration("REDIS_TTL", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.APITimeout, err = getDuration("API_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.MaxSessions, err = getInt("MAX_SESSIONS", 10000); err != nil {
		errs = append(errs, err)
	}
	if cfg.SecureCookie, err = getBool("SECURE_COOKIE", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.Currency, err = currency.ParseISO(getEnv("CURRENCY", "VND")); err != nil {
		errs = append(errs, fmt.Errorf("CURRENCY: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case BackendMemory, BackendRedis, BackendSQLite, BackendMongo:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND %q is not supported", c.StoreBackend))
	}

	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("API_BASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.MaxSessions < 1 {
		errs = append(errs, errors.New("MAX_SESSIONS must be positive"))
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
