package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/commerce-api/internal/bootstrap"
	"github.com/baechuer/commerce-api/internal/config"
	"github.com/baechuer/commerce-api/internal/infrastructure/db/migrations"
	"github.com/baechuer/commerce-api/internal/logger"
)

const shutdownTimeout = 15 * time.Second

// httpServer is the part of *http.Server that Run drives.
type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
	Addr() string
}

type realServer struct{ *http.Server }

func (r realServer) Addr() string { return r.Server.Addr }

type serverBuilder func() (httpServer, func(), error)

// Run serves until a signal arrives or the listener fails, and returns the
// process exit code.
func Run(build serverBuilder, sigCh <-chan os.Signal, lg zerolog.Logger) int {
	srv, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", srv.Addr()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		lg.Error().Err(err).Msg("server crashed")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Msg("graceful shutdown failed")
		_ = srv.Close()
	}

	lg.Info().Msg("shutdown complete")
	return 0
}

// migrateOnly applies the schema and exits; used by deploy jobs that run
// before the new version starts serving.
func migrateOnly(lg zerolog.Logger) int {
	cfg, err := config.Load()
	if err != nil {
		lg.Error().Err(err).Msg("config")
		return 1
	}
	if cfg.DBAddr == "" {
		lg.Error().Msg("DB_ADDR is required for migrate")
		return 1
	}

	db, err := config.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		lg.Error().Err(err).Msg("db connect")
		return 1
	}
	defer db.Close()

	if err := migrations.Up(context.Background(), db); err != nil {
		lg.Error().Err(err).Msg("migrate")
		return 1
	}
	lg.Info().Msg("migrations applied")
	return 0
}

func buildFromBootstrap() (httpServer, func(), error) {
	srv, cleanup, err := bootstrap.NewServer()
	if err != nil {
		return nil, nil, err
	}
	return realServer{srv}, cleanup, nil
}

func main() {
	logger.Init()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		os.Exit(migrateOnly(logger.Logger))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	os.Exit(Run(buildFromBootstrap, sigCh, logger.Logger))
}
