package report

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"memories/models"
	"memories/pkg/config"
	"memories/pkg/store"
)

func TestBuildAndWrite(t *testing.T) {
	st, err := store.Open(config.Database{Driver: config.DriverBolt, Path: filepath.Join(t.TempDir(), "r.db")}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	ctx := context.Background()
	dec := decimal.RequireFromString
	if _, err := st.FinancialGoals.Create(ctx, models.FinancialGoalPatch{
		Name: models.Ptr("Casa"), TargetAmount: models.Ptr(dec("1000")), SavedAmount: models.Ptr(dec("250")),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.TravelIdeas.Create(ctx, models.TravelIdeaPatch{
		Name: models.Ptr("Paris"), Cost: models.Ptr(dec("500")), Saved: models.Ptr(dec("600")),
	}); err != nil {
		t.Fatal(err)
	}
	for _, c := range []string{"Filme", "Filme", ""} {
		if _, err := st.Places.Create(ctx, models.PlacePatch{Name: models.Ptr("x"), Category: models.Ptr(c)}); err != nil {
			t.Fatal(err)
		}
	}

	sum, err := Build(ctx, st)
	if err != nil {
		t.Fatal(err)
	}
	if !sum.Saved.Equal(dec("850")) || !sum.Target.Equal(dec("1500")) || !sum.Missing().Equal(dec("650")) {
		t.Fatalf("totals saved=%s target=%s missing=%s", sum.Saved, sum.Target, sum.Missing())
	}
	if sum.Completed != 1 || sum.Places != 3 || sum.ByCategory["Filme"] != 2 || sum.ByCategory["Restaurante"] != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.Lines[0].Name != "Paris" {
		t.Fatalf("expected most advanced first, got %s", sum.Lines[0].Name)
	}

	var buf bytes.Buffer
	if err := Write(&buf, sum); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Casa", "25%", "missing=650.00", "completed=1/2", "Filme=2 Restaurante=1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
