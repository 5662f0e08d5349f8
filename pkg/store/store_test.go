package store

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"memories/models"
	"memories/pkg/config"
)

func openBackends(t *testing.T) map[string]*Store {
	t.Helper()
	log := zerolog.New(io.Discard)
	dir := t.TempDir()
	out := map[string]*Store{}
	for driver, file := range map[string]string{config.DriverBolt: "memories.bolt", config.DriverSQLite: "memories.sqlite"} {
		s, err := Open(config.Database{Driver: driver, Path: filepath.Join(dir, file), AutoMigrate: true}, log)
		if err != nil {
			t.Fatalf("open %s: %v", driver, err)
		}
		t.Cleanup(func() { s.Close() })
		out[driver] = s
	}
	return out
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestStoreBackends(t *testing.T) {
	for driver, s := range openBackends(t) {
		t.Run(driver, func(t *testing.T) {
			t.Run("ListEmptyIsNotNil", func(t *testing.T) { testListEmpty(t, s) })
			t.Run("PlaceCreateDefaults", func(t *testing.T) { testPlaceCreate(t, s) })
			t.Run("UpdateKeepsImage", func(t *testing.T) { testUpdateKeepsImage(t, s) })
			t.Run("UpdateUnknown", func(t *testing.T) { testUpdateUnknown(t, s) })
			t.Run("DeleteOnce", func(t *testing.T) { testDeleteOnce(t, s) })
			t.Run("ListNewestFirst", func(t *testing.T) { testListOrder(t, s) })
			t.Run("DeleteAll", func(t *testing.T) { testDeleteAll(t, s) })
		})
	}
}

func testListEmpty(t *testing.T, s *Store) {
	goals, err := s.FinancialGoals.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if goals == nil || len(goals) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", goals)
	}
}

func testPlaceCreate(t *testing.T, s *Store) {
	ctx := context.Background()
	p, err := s.Places.Create(ctx, models.PlacePatch{Name: models.Ptr("Texas Pizzaria"), Rating: models.Ptr(5)})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == 0 || p.CreatedAt.IsZero() {
		t.Fatalf("id and createdAt must be assigned: %+v", p)
	}
	if p.Category != models.CategoryRestaurant {
		t.Fatalf("expected default category, got %q", p.Category)
	}
	got, err := s.Places.Get(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Texas Pizzaria" || got.Rating != 5 {
		t.Fatalf("unexpected stored place %+v", got)
	}

	if _, err := s.Places.Create(ctx, models.PlacePatch{Name: models.Ptr("  ")}); !errors.Is(err, models.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for blank name, got %v", err)
	}
}

func testUpdateKeepsImage(t *testing.T, s *Store) {
	ctx := context.Background()
	idea, err := s.TravelIdeas.Create(ctx, models.TravelIdeaPatch{
		Name:     models.Ptr("Paris"),
		Cost:     dec("1000"),
		ImageURL: models.Ptr("data:image/jpeg;base64,AAAA"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !idea.Saved.IsZero() || idea.Completed() {
		t.Fatalf("fresh idea should have saved 0 and not be completed: %+v", idea)
	}

	upd, err := s.TravelIdeas.Update(ctx, idea.ID, models.TravelIdeaPatch{Saved: dec("1000")})
	if err != nil {
		t.Fatal(err)
	}
	if upd.ImageURL != "data:image/jpeg;base64,AAAA" {
		t.Fatalf("image should be kept, got %q", upd.ImageURL)
	}
	if !upd.Completed() || upd.Name != "Paris" {
		t.Fatalf("expected completed Paris, got %+v", upd)
	}

	upd, err = s.TravelIdeas.Update(ctx, idea.ID, models.TravelIdeaPatch{ImageURL: models.Ptr("")})
	if err != nil {
		t.Fatal(err)
	}
	if upd.ImageURL != "data:image/jpeg;base64,AAAA" {
		t.Fatalf("empty image must not blank the stored one, got %q", upd.ImageURL)
	}

	upd, err = s.TravelIdeas.Update(ctx, idea.ID, models.TravelIdeaPatch{ImageURL: models.Ptr("data:image/jpeg;base64,BBBB")})
	if err != nil {
		t.Fatal(err)
	}
	if upd.ImageURL != "data:image/jpeg;base64,BBBB" {
		t.Fatalf("image should be replaced, got %q", upd.ImageURL)
	}
}

func testUpdateUnknown(t *testing.T, s *Store) {
	_, err := s.FinancialGoals.Update(context.Background(), 9999, models.FinancialGoalPatch{SavedAmount: dec("1")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.FinancialGoals.Get(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Get, got %v", err)
	}
}

func testDeleteOnce(t *testing.T, s *Store) {
	ctx := context.Background()
	g, err := s.FinancialGoals.Create(ctx, models.FinancialGoalPatch{Name: models.Ptr("Reserva"), TargetAmount: dec("500")})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.FinancialGoals.Delete(ctx, g.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.FinancialGoals.Delete(ctx, g.ID); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	goals, err := s.FinancialGoals.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range goals {
		if x.ID == g.ID {
			t.Fatalf("deleted goal %d still listed", g.ID)
		}
	}
}

func testListOrder(t *testing.T, s *Store) {
	ctx := context.Background()
	var ids []uint
	for _, name := range []string{"Cinema", "Teatro", "Show"} {
		p, err := s.Places.Create(ctx, models.PlacePatch{Name: models.Ptr(name), Category: models.Ptr(models.CategoryMovie)})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, p.ID)
	}
	places, err := s.Places.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	pos := map[uint]int{}
	for i, p := range places {
		pos[p.ID] = i
	}
	if !(pos[ids[2]] < pos[ids[1]] && pos[ids[1]] < pos[ids[0]]) {
		t.Fatalf("expected newest first, got %+v", places)
	}
}

func testDeleteAll(t *testing.T, s *Store) {
	ctx := context.Background()
	if _, err := s.Places.Create(ctx, models.PlacePatch{Name: models.Ptr("Parque")}); err != nil {
		t.Fatal(err)
	}
	n, err := s.Places.DeleteAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatalf("expected removed rows")
	}
	places, err := s.Places.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(places) != 0 {
		t.Fatalf("expected no places, got %d", len(places))
	}
}

func TestOpenRejectsMissingPath(t *testing.T) {
	_, err := Open(config.Database{Driver: config.DriverBolt}, zerolog.Nop())
	if err == nil {
		t.Fatalf("expected error")
	}
}
