// Package config loads the server configuration from the environment and an optional .env file.
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

// Config is the full configuration surface of the shop server.
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Shop     ShopConfig
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Env      string
	LogLevel string
	Timezone string
}

// IsProduction reports APP_ENV=production.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// HTTPConfig holds HTTP server options.
type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects the store. An empty URL runs on the in-memory store.
type DatabaseConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
	Migrate  bool
}

// RedisConfig configures the read-model cache. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// AuthConfig configures access tokens.
type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
}

// ShopConfig holds the business defaults.
type ShopConfig struct {
	ShelfLifeDays      int
	ExpiringWindowDays int
	AlertsCron         string
	NumberingStrategy  string
}

// Load reads envFile when given (a missing file is fine), then the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
			Timezone: getEnv("TIMEZONE", "UTC"),
		},
		HTTP: HTTPConfig{
			Port:            getEnv("APP_PORT", "8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 2)),
			Migrate:  getEnvBool("DB_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			AccessTokenTTL: getEnvDuration("JWT_ACCESS_TTL", 12*time.Hour),
		},
		Shop: ShopConfig{
			ShelfLifeDays:      getEnvInt("LOT_SHELF_LIFE_DAYS", 30),
			ExpiringWindowDays: getEnvInt("EXPIRING_WINDOW_DAYS", 30),
			AlertsCron:         getEnv("ALERTS_CRON", "0 7 * * *"),
			NumberingStrategy:  getEnv("NUMBERING_STRATEGY", "strict"),
		},
	}

	if cfg.Auth.JWTSecret == "" && !cfg.App.IsProduction() {
		cfg.Auth.JWTSecret = "kiosko-development-secret"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings and value ranges.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.HTTP.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided in production")
	}
	if c.Shop.ShelfLifeDays <= 0 {
		return errors.New("LOT_SHELF_LIFE_DAYS must be positive")
	}
	if c.Shop.ExpiringWindowDays < 0 {
		return errors.New("EXPIRING_WINDOW_DAYS cannot be negative")
	}
	switch c.Shop.NumberingStrategy {
	case "strict", "cached":
	default:
		return fmt.Errorf("NUMBERING_STRATEGY must be strict or cached, got %q", c.Shop.NumberingStrategy)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the shop's time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return defaultValue
}
