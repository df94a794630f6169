package config_test

import (
	"testing"
	"time"

	"github.com/library-service/cmd/api/config"
	"github.com/matryer/is"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults when the environment is empty", func(t *testing.T) {
		is := is.New(t)
		t.Setenv("PORT", "")
		t.Setenv("HTTP_REQUEST_TIMEOUT", "")
		t.Setenv("BORROW_LOCK_WAIT", "")
		t.Setenv("TOKEN_TTL", "")

		cfg, err := config.Load()

		is.NoErr(err)
		is.Equal(cfg.Port, 8080)
		is.Equal(cfg.RequestTimeout, 5*time.Second)
		is.Equal(cfg.BorrowLockWait, 2*time.Second)
		is.Equal(cfg.TokenTTL, time.Hour)
		is.Equal(cfg.MigrationsPath, "migrations")
	})

	t.Run("reads values from the environment", func(t *testing.T) {
		is := is.New(t)
		t.Setenv("PORT", "9999")
		t.Setenv("DATABASE_URL", "postgres://localhost/library")
		t.Setenv("BORROW_LOCK_WAIT", "250ms")
		t.Setenv("JWT_SECRET", "not-so-secret")

		cfg, err := config.Load()

		is.NoErr(err)
		is.Equal(cfg.Port, 9999)
		is.Equal(cfg.DatabaseURL, "postgres://localhost/library")
		is.Equal(cfg.BorrowLockWait, 250*time.Millisecond)
		is.Equal(cfg.JWTSecret, "not-so-secret")
	})

	t.Run("rejects values it cannot parse", func(t *testing.T) {
		is := is.New(t)
		t.Setenv("PORT", "not-a-port")

		_, err := config.Load()

		is.True(err != nil)
	})
}
