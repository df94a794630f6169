package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/library-service/cmd/api/account"
	"github.com/library-service/cmd/api/book"
	"github.com/library-service/cmd/api/borrowing"
	"github.com/library-service/cmd/api/config"
	"github.com/library-service/cmd/api/database"
	libraryhttp "github.com/library-service/cmd/api/http"
	"github.com/library-service/cmd/api/media"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	err := run()
	if err != nil {
		log.Error().Err(err).Msg("api stopped")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	//connect to db:
	dbObject, err := database.ConnectDb(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting with db: %w", err)
	}

	defer dbObject.Close()

	//apply migrations:
	store := database.NewStore(dbObject)
	err = database.MigrationUp(store, cfg.MigrationsPath)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating: %w", err)
	}

	mediaClient := media.NewClient(cfg.MediaBaseURL, &http.Client{Timeout: cfg.MediaTimeout})

	bookService := book.NewService(store, mediaClient, cfg.MediaTimeout)
	borrowingService := borrowing.NewService(store, bookService, cfg.BorrowLockWait)
	tokenIssuer := account.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	accountService := account.NewService(store, tokenIssuer)

	bookHandler := libraryhttp.NewBookHandler(bookService, cfg.RequestTimeout)
	borrowingHandler := libraryhttp.NewBorrowingHandler(borrowingService, cfg.RequestTimeout)
	accountHandler := libraryhttp.NewAccountHandler(accountService, cfg.RequestTimeout)
	maintenance := libraryhttp.NewMaintenance()

	//create and init http server:
	server := libraryhttp.NewServer(libraryhttp.ServerConfig{Port: cfg.Port}, bookHandler, borrowingHandler, accountHandler, tokenIssuer, maintenance)

	go func() (err error) {
		err = server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unexpected http server error: %w", err)
		}
		return nil
	}()
	log.Info().Int("port", cfg.Port).Msg("api listening")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	ctx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown error: %w", err)
	}
	log.Info().Msg("Graceful shutdown complete.")
	return err
}
