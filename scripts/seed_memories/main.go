package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"memories/models"
	"memories/pkg/config"
	"memories/pkg/imagenorm"
	"memories/pkg/logging"
	"memories/pkg/store"
)

// seedFile mirrors the API payloads. Image, when set, is a path relative to the
// seed file and is normalized into the record's imageUrl.
type seedFile struct {
	Places []models.PlacePatch `json:"places"`
	Ideas  []struct {
		models.TravelIdeaPatch
		Image string `json:"image"`
	} `json:"travelIdeas"`
	Goals []struct {
		models.FinancialGoalPatch
		Image string `json:"image"`
	} `json:"financialGoals"`
}

func main() {
	file := flag.String("file", "data/seed.json", "seed file")
	dry := flag.Bool("dry-run", true, "dry-run: don't write to DB")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, nil)

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file")
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatal().Err(err).Msg("parse seed file")
	}

	st, err := store.Open(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	base := filepath.Dir(*file)
	image := func(rel string) *string {
		if rel == "" {
			return nil
		}
		out, err := imagenorm.NormalizeFile(filepath.Join(base, rel))
		if err != nil {
			log.Warn().Err(err).Str("image", rel).Msg("skipping image")
			return nil
		}
		return &out
	}

	var created, skipped int
	count := func(n, s int) { created += n; skipped += s }
	count(seedKind(ctx, log, "place", st.Places, seed.Places, placeName, *dry))

	ideas := make([]models.TravelIdeaPatch, 0, len(seed.Ideas))
	for _, it := range seed.Ideas {
		p := it.TravelIdeaPatch
		if img := image(it.Image); img != nil {
			p.ImageURL = img
		}
		ideas = append(ideas, p)
	}
	count(seedKind(ctx, log, "travel idea", st.TravelIdeas, ideas, ideaName, *dry))

	goals := make([]models.FinancialGoalPatch, 0, len(seed.Goals))
	for _, it := range seed.Goals {
		p := it.FinancialGoalPatch
		if img := image(it.Image); img != nil {
			p.ImageURL = img
		}
		goals = append(goals, p)
	}
	count(seedKind(ctx, log, "financial goal", st.FinancialGoals, goals, goalName, *dry))

	fmt.Printf("seeded created=%d skipped=%d dry_run=%v\n", created, skipped, *dry)
}

func placeName(p models.Place) string        { return p.Name }
func ideaName(t models.TravelIdea) string    { return t.Name }
func goalName(g models.FinancialGoal) string { return g.Name }

// seedKind creates every patch whose name is not already present.
func seedKind[T any, P models.Patch[T]](
	ctx context.Context,
	log zerolog.Logger,
	noun string,
	repo store.Repository[T, P],
	patches []P,
	name func(T) string,
	dry bool,
) (created, skipped int) {
	existing, err := repo.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("kind", noun).Msg("list existing")
	}
	names := make([]string, 0, len(existing))
	for _, rec := range existing {
		names = append(names, strings.ToLower(name(rec)))
	}
	for _, p := range patches {
		var rec T
		p.Apply(&rec)
		n := strings.ToLower(name(rec))
		if slices.Contains(names, n) {
			skipped++
			continue
		}
		if dry {
			fmt.Printf("would create %s %q\n", noun, name(rec))
			created++
			continue
		}
		if _, err := repo.Create(ctx, p); err != nil {
			log.Error().Err(err).Str("kind", noun).Str("name", name(rec)).Msg("create failed")
			continue
		}
		names = append(names, n)
		created++
	}
	return created, skipped
}
