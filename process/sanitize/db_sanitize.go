// Package sanitize empties selected tables, typically before a fresh import.
package sanitize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"memories/pkg/store"
)

// DefaultTables lists every table the service owns.
const DefaultTables = "places,travel_ideas,financial_goals"

// ErrNotConfirmed is returned when a destructive run lacks confirmation.
var ErrNotConfirmed = errors.New("destructive operation not confirmed")

var (
	nameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	known  = strings.Split(DefaultTables, ",")
)

// Options control a sanitize run.
type Options struct {
	Tables string // comma separated
	DryRun bool
	Yes    bool
	Log    zerolog.Logger
}

type table struct {
	count func(context.Context) (int, error)
	wipe  func(context.Context) (int64, error)
}

func tables(st *store.Store) map[string]table {
	return map[string]table{
		"places":          {countOf(st.Places.List), st.Places.DeleteAll},
		"travel_ideas":    {countOf(st.TravelIdeas.List), st.TravelIdeas.DeleteAll},
		"financial_goals": {countOf(st.FinancialGoals.List), st.FinancialGoals.DeleteAll},
	}
}

func countOf[T any](list func(context.Context) ([]T, error)) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		recs, err := list(ctx)
		return len(recs), err
	}
}

// Select validates the comma separated names and keeps the known ones, in order.
func Select(names string, log zerolog.Logger) []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range strings.Split(names, ",") {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		if !nameRe.MatchString(p) {
			log.Warn().Str("table", p).Msg("skipping invalid table name")
			continue
		}
		if !slices.Contains(known, p) {
			log.Info().Str("table", p).Msg("table not found, skipping")
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Run prints what would be removed and, when not a dry run and confirmed,
// empties the tables. It returns the number of removed records per table.
func Run(ctx context.Context, st *store.Store, opts Options, w io.Writer) (map[string]int64, error) {
	wanted := Select(opts.Tables, opts.Log)
	if len(wanted) == 0 {
		fmt.Fprintln(w, "no requested tables present in the database; nothing to do")
		return nil, nil
	}
	all := tables(st)
	fmt.Fprintln(w, "Tables considered for truncation:")
	for _, name := range wanted {
		n, err := all[name].count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		fmt.Fprintf(w, " - %s (%d rows)\n", name, n)
	}
	if opts.DryRun {
		fmt.Fprintln(w, "dry-run enabled; no changes will be made. Use -dry-run=false -yes to execute.")
		return nil, nil
	}
	if !opts.Yes {
		return nil, ErrNotConfirmed
	}
	removed := make(map[string]int64, len(wanted))
	for _, name := range wanted {
		n, err := all[name].wipe(ctx)
		if err != nil {
			return removed, fmt.Errorf("truncate %s: %w", name, err)
		}
		removed[name] = n
		opts.Log.Info().Str("table", name).Int64("removed", n).Msg("table emptied")
	}
	return removed, nil
}
