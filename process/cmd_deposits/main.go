package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"memories/pkg/config"
	"memories/pkg/logging"
	"memories/pkg/receipt/tesseract"
	"memories/pkg/store"
	"memories/process/deposits"
)

func main() {
	dir := flag.String("dir", "public/deposits", "directory to scan for receipt photos")
	watch := flag.Bool("watch", false, "keep running and process new files as they arrive")
	dry := flag.Bool("dry-run", true, "dry-run: don't write to DB or move files")
	minConf := flag.Float64("min-conf", 0.5, "minimum OCR confidence to accept")
	workers := flag.Int("workers", 0, "OCR workers (0 = NumCPU-1)")
	lang := flag.String("lang", "por", "tesseract language")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, nil)

	st, err := store.Open(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	s := &deposits.Scanner{
		Dir:     *dir,
		Store:   st,
		OCR:     tesseract.NewReader(*lang, log),
		MinConf: *minConf,
		DryRun:  *dry,
		Workers: *workers,
		Log:     log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watch {
		if err := s.Watch(ctx); err != nil {
			log.Error().Err(err).Msg("watch failed")
		}
		return
	}
	results, err := s.Scan(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scan failed")
		return
	}
	for _, r := range results {
		fmt.Printf("%s\t%s-%d\t+%s\t=%s\n", r.File, r.Target.Kind, r.Target.ID, r.Amount.StringFixed(2), r.NewSaved.StringFixed(2))
	}
	if *dry {
		fmt.Println("dry-run enabled; nothing was written. Use -dry-run=false to apply.")
	}
}
