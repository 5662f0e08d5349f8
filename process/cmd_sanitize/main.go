package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"memories/pkg/config"
	"memories/pkg/logging"
	"memories/pkg/store"
	"memories/process/sanitize"
)

func main() {
	var (
		dryRun = flag.Bool("dry-run", true, "Don't perform destructive actions; show what would be done")
		yes    = flag.Bool("yes", false, "Confirm destructive action (required to actually truncate)")
		tables = flag.String("tables", sanitize.DefaultTables, "Comma-separated list of tables to truncate")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, nil)
	cfg.Database.AutoMigrate = false
	st, err := store.Open(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	_, err = sanitize.Run(ctx, st, sanitize.Options{Tables: *tables, DryRun: *dryRun, Yes: *yes, Log: log}, os.Stdout)
	switch {
	case errors.Is(err, sanitize.ErrNotConfirmed):
		fmt.Println("Destructive operation. Pass -yes to confirm execution. Aborting.")
	case err != nil:
		log.Fatal().Err(err).Msg("sanitize failed")
	}
}
