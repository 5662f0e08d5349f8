package reencode

import (
	"bytes"
	"context"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"memories/models"
	"memories/pkg/config"
	"memories/pkg/imagenorm"
	"memories/pkg/store"
)

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.New(w, h, color.NRGBA{10, 120, 200, 255}), imaging.PNG); err != nil {
		t.Fatal(err)
	}
	return imagenorm.EncodeDataURL("image/png", buf.Bytes())
}

func TestRunRewritesOversizedImages(t *testing.T) {
	st, err := store.Open(config.Database{Driver: config.DriverBolt, Path: filepath.Join(t.TempDir(), "r.db")}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	ctx := context.Background()

	// stored directly so the server-side normalization is bypassed
	big, err := st.TravelIdeas.Create(ctx, models.TravelIdeaPatch{Name: models.Ptr("Chile"), ImageURL: models.Ptr(pngDataURL(t, 1200, 600))})
	if err != nil {
		t.Fatal(err)
	}
	ok, err := imagenorm.NormalizeDataURL(pngDataURL(t, 100, 100))
	if err != nil {
		t.Fatal(err)
	}
	small, err := st.FinancialGoals.Create(ctx, models.FinancialGoalPatch{Name: models.Ptr("Sofá"), ImageURL: &ok})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.FinancialGoals.Create(ctx, models.FinancialGoalPatch{Name: models.Ptr("Sem foto")}); err != nil {
		t.Fatal(err)
	}

	stats, err := Run(ctx, st, true, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Checked != 2 || stats.Rewritten != 1 {
		t.Fatalf("dry run stats %+v", stats)
	}
	got, _ := st.TravelIdeas.Get(ctx, big.ID)
	if w, _, _ := imagenorm.Dimensions(got.ImageURL); w != 1200 {
		t.Fatalf("dry run rewrote the image (width %d)", w)
	}

	if _, err := Run(ctx, st, false, zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
	got, _ = st.TravelIdeas.Get(ctx, big.ID)
	if w, h, _ := imagenorm.Dimensions(got.ImageURL); w != 600 || h != 300 {
		t.Fatalf("expected 600x300 got %dx%d", w, h)
	}
	goal, _ := st.FinancialGoals.Get(ctx, small.ID)
	if goal.ImageURL != ok {
		t.Fatalf("in-bounds jpeg should be untouched")
	}

	stats, err = Run(ctx, st, false, zerolog.Nop())
	if err != nil || stats.Rewritten != 0 {
		t.Fatalf("second pass should be a no-op: %+v %v", stats, err)
	}
}
