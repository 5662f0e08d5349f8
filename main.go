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

	"github.com/rs/zerolog"

	"memories/pkg/config"
	"memories/pkg/logging"
	"memories/pkg/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	// `memories-server migrate` creates the tables and exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg.Database, log); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Str("driver", cfg.Database.Driver).Msg("migration completed")
		return
	}

	st, err := store.Open(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	srv, err := newServer(cfg, st, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init server")
	}
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Str("driver", st.Driver()).Bool("auth", srv.auth != nil).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("listen")
			stop()
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func runMigrate(cfg config.Database, log zerolog.Logger) error {
	cfg.AutoMigrate = false
	st, err := store.Open(cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Migrate()
}
