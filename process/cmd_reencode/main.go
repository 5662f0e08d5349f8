package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"memories/pkg/config"
	"memories/pkg/logging"
	"memories/pkg/store"
	"memories/process/reencode"
)

func main() {
	dry := flag.Bool("dry-run", true, "dry-run: report what would change without writing")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall timeout")
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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	stats, err := reencode.Run(ctx, st, *dry, log)
	fmt.Printf("checked=%d rewritten=%d failed=%d saved_bytes=%d dry_run=%v\n",
		stats.Checked, stats.Rewritten, stats.Failed, stats.Saved, *dry)
	if err != nil {
		log.Fatal().Err(err).Msg("reencode failed")
	}
}
