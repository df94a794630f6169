package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           int
	DatabaseURL    string
	MigrationsPath string
	RequestTimeout time.Duration
	BorrowLockWait time.Duration
	MediaBaseURL   string
	MediaTimeout   time.Duration
	JWTSecret      string
	TokenTTL       time.Duration
}

/* Reads the configuration from the environment, a .env file filling the gaps. */
func Load() (Config, error) {
	_ = godotenv.Load() //A .env file is optional.

	cfg := Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getenv("DATABASE_MIGRATIONS_PATH", "migrations"),
		MediaBaseURL:   getenv("MEDIA_BASE_URL", "http://localhost:9090"),
		JWTSecret:      getenv("JWT_SECRET", "local-dev-secret"),
	}

	var err error
	if cfg.Port, err = strconv.Atoi(getenv("PORT", "8080")); err != nil {
		return Config{}, fmt.Errorf("parsing PORT: %w", err)
	}
	if cfg.RequestTimeout, err = time.ParseDuration(getenv("HTTP_REQUEST_TIMEOUT", "5s")); err != nil {
		return Config{}, fmt.Errorf("parsing HTTP_REQUEST_TIMEOUT: %w", err)
	}
	if cfg.BorrowLockWait, err = time.ParseDuration(getenv("BORROW_LOCK_WAIT", "2s")); err != nil {
		return Config{}, fmt.Errorf("parsing BORROW_LOCK_WAIT: %w", err)
	}
	if cfg.MediaTimeout, err = time.ParseDuration(getenv("MEDIA_TIMEOUT", "5s")); err != nil {
		return Config{}, fmt.Errorf("parsing MEDIA_TIMEOUT: %w", err)
	}
	if cfg.TokenTTL, err = time.ParseDuration(getenv("TOKEN_TTL", "1h")); err != nil {
		return Config{}, fmt.Errorf("parsing TOKEN_TTL: %w", err)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
