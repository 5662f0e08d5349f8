// Package reencode brings stored images in line with the current normalization
// rules: oversized or non-JPEG data URLs are re-rendered in place.
package reencode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"memories/models"
	"memories/pkg/imagenorm"
	"memories/pkg/store"
)

// Stats counts what one pass did.
type Stats struct {
	Checked   int
	Rewritten int
	Failed    int
	Saved     int // bytes
}

// Run re-normalizes every travel idea and financial goal image. With dryRun
// set nothing is written.
func Run(ctx context.Context, st *store.Store, dryRun bool, log zerolog.Logger) (Stats, error) {
	var total Stats
	ideas := pass(ctx, st.TravelIdeas, "travel", dryRun, log,
		func(t models.TravelIdea) (uint, string) { return t.ID, t.ImageURL },
		func(img string) models.TravelIdeaPatch { return models.TravelIdeaPatch{ImageURL: &img} })
	goals := pass(ctx, st.FinancialGoals, "goal", dryRun, log,
		func(g models.FinancialGoal) (uint, string) { return g.ID, g.ImageURL },
		func(img string) models.FinancialGoalPatch { return models.FinancialGoalPatch{ImageURL: &img} })

	var errs []error
	for _, r := range []result{ideas, goals} {
		total.Checked += r.Checked
		total.Rewritten += r.Rewritten
		total.Failed += r.Failed
		total.Saved += r.Saved
		errs = append(errs, r.err)
	}
	return total, errors.Join(errs...)
}

type result struct {
	Stats
	err error
}

func pass[T any, P models.Patch[T]](
	ctx context.Context,
	repo store.Repository[T, P],
	kind string,
	dryRun bool,
	log zerolog.Logger,
	image func(T) (uint, string),
	patch func(string) P,
) result {
	var r result
	recs, err := repo.List(ctx)
	if err != nil {
		r.err = fmt.Errorf("list %s: %w", kind, err)
		return r
	}
	for _, rec := range recs {
		id, img := image(rec)
		if !strings.HasPrefix(img, "data:") {
			continue
		}
		r.Checked++
		out, err := imagenorm.NormalizeDataURL(img)
		if err != nil {
			r.Failed++
			log.Warn().Err(err).Str("kind", kind).Uint("id", id).Msg("image could not be normalized")
			continue
		}
		if out == img {
			continue
		}
		r.Rewritten++
		r.Saved += len(img) - len(out)
		log.Info().Str("kind", kind).Uint("id", id).Int("before", len(img)).Int("after", len(out)).Bool("dry_run", dryRun).Msg("image re-encoded")
		if dryRun {
			continue
		}
		if _, err := repo.Update(ctx, id, patch(out)); err != nil {
			r.err = fmt.Errorf("update %s %d: %w", kind, id, err)
			return r
		}
	}
	return r
}
