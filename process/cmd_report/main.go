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
	"memories/process/report"
)

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
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
	sum, err := report.Build(ctx, st)
	if err != nil {
		log.Fatal().Err(err).Msg("build report")
	}
	if err := report.Write(os.Stdout, sum); err != nil {
		log.Fatal().Err(err).Msg("write report")
	}
}
