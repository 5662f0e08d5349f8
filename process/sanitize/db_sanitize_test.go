package sanitize

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"memories/models"
	"memories/pkg/config"
	"memories/pkg/store"
)

func TestSelect(t *testing.T) {
	got := Select(" places,users;drop,financial_goals,places,profiles ", zerolog.Nop())
	if !slices.Equal(got, []string{"places", "financial_goals"}) {
		t.Fatalf("got %v", got)
	}
}

func TestRunHonorsDryRunAndConfirmation(t *testing.T) {
	st, err := store.Open(config.Database{Driver: config.DriverBolt, Path: filepath.Join(t.TempDir(), "s.db")}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	ctx := context.Background()
	for _, n := range []string{"a", "b"} {
		if _, err := st.Places.Create(ctx, models.PlacePatch{Name: models.Ptr(n)}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := st.TravelIdeas.Create(ctx, models.TravelIdeaPatch{Name: models.Ptr("Roma")}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	opts := Options{Tables: "places", DryRun: true, Log: zerolog.Nop()}
	if _, err := Run(ctx, st, opts, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "places (2 rows)") {
		t.Fatalf("unexpected output %q", buf.String())
	}

	opts.DryRun = false
	if _, err := Run(ctx, st, opts, &buf); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed got %v", err)
	}
	if recs, _ := st.Places.List(ctx); len(recs) != 2 {
		t.Fatalf("unconfirmed run removed rows")
	}

	opts.Yes = true
	removed, err := Run(ctx, st, opts, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if removed["places"] != 2 {
		t.Fatalf("removed %v", removed)
	}
	if recs, _ := st.TravelIdeas.List(ctx); len(recs) != 1 {
		t.Fatalf("travel ideas should be untouched")
	}
}
