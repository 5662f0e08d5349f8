package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompleted(t *testing.T) {
	cases := []struct {
		saved, target string
		want          bool
	}{
		{"0", "0", false},
		{"10", "0", false},
		{"0", "1000", false},
		{"999.99", "1000", false},
		{"1000", "1000", true},
		{"1500", "1000", true},
	}
	for _, c := range cases {
		if got := Completed(dec(c.saved), dec(c.target)); got != c.want {
			t.Fatalf("Completed(%s, %s) = %v want %v", c.saved, c.target, got, c.want)
		}
	}
}

func TestProgressClamps(t *testing.T) {
	if p := Progress(dec("250"), dec("1000")); p != 25 {
		t.Fatalf("expected 25 got %v", p)
	}
	if p := Progress(dec("3000"), dec("1000")); p != 100 {
		t.Fatalf("expected clamp to 100 got %v", p)
	}
	if p := Progress(dec("50"), dec("0")); p != 0 {
		t.Fatalf("zero target must give 0 got %v", p)
	}
}

func TestPlacePatchValidate(t *testing.T) {
	if err := (PlacePatch{}).Validate(true); !errors.Is(err, ErrInvalid) {
		t.Fatalf("missing name on create should be invalid, got %v", err)
	}
	if err := (PlacePatch{}).Validate(false); err != nil {
		t.Fatalf("empty update patch should be valid, got %v", err)
	}
	if err := (PlacePatch{Name: Ptr("  ")}).Validate(false); !errors.Is(err, ErrInvalid) {
		t.Fatalf("blank name should be invalid, got %v", err)
	}
	if err := (PlacePatch{Name: Ptr("x"), Category: Ptr("Praia")}).Validate(true); !errors.Is(err, ErrInvalid) {
		t.Fatalf("unknown category should be invalid, got %v", err)
	}
	if err := (PlacePatch{Name: Ptr("x"), Rating: Ptr(6)}).Validate(true); !errors.Is(err, ErrInvalid) {
		t.Fatalf("rating 6 should be invalid, got %v", err)
	}
}

func TestPlacePatchDefaultsCategory(t *testing.T) {
	var p Place
	PlacePatch{Name: Ptr(" Texas Pizzaria ")}.Apply(&p)
	if p.Name != "Texas Pizzaria" || p.Category != CategoryRestaurant {
		t.Fatalf("unexpected place %+v", p)
	}
}

func TestTravelIdeaPatchKeepsImageWhenAbsent(t *testing.T) {
	rec := TravelIdea{Name: "Paris", Cost: dec("1000"), ImageURL: "data:image/jpeg;base64,AAA"}
	patch := TravelIdeaPatch{Saved: Ptr(dec("1000")), ImageURL: Ptr("")}
	patch.Apply(&rec)
	if rec.ImageURL != "data:image/jpeg;base64,AAA" {
		t.Fatalf("image was overwritten: %q", rec.ImageURL)
	}
	cols := patch.Columns()
	if _, ok := cols["image_url"]; ok {
		t.Fatalf("image_url must not be in column set: %v", cols)
	}
	if len(cols) != 1 {
		t.Fatalf("expected only saved column, got %v", cols)
	}
	if !rec.Completed() {
		t.Fatalf("expected completed after saving full cost")
	}
}

func TestFinancialGoalColumnsUseStorageNames(t *testing.T) {
	p := FinancialGoalPatch{
		TargetAmount: Ptr(dec("10.005")),
		SavedAmount:  Ptr(dec("1")),
		ImageURL:     Ptr("data:image/jpeg;base64,BBB"),
	}
	cols := p.Columns()
	for _, k := range []string{"target_amount", "saved_amount", "image_url"} {
		if _, ok := cols[k]; !ok {
			t.Fatalf("missing column %s in %v", k, cols)
		}
	}
	if got := cols["target_amount"].(decimal.Decimal); !got.Equal(dec("10.01")) {
		t.Fatalf("expected rounding to cents, got %s", got)
	}
	if err := (FinancialGoalPatch{Name: Ptr("Casa"), SavedAmount: Ptr(dec("-1"))}).Validate(true); !errors.Is(err, ErrInvalid) {
		t.Fatalf("negative amount should be invalid, got %v", err)
	}
}

func TestFinancialGoalJSONUsesWireNames(t *testing.T) {
	g := FinancialGoal{ID: 3, Name: "Carro", TargetAmount: dec("500"), SavedAmount: dec("500")}
	b, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, want := range []string{`"targetAmount":500`, `"savedAmount":500`, `"imageUrl":""`, `"completed":true`, `"progress":100`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in %s", want, s)
		}
	}
	var back FinancialGoal
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !back.TargetAmount.Equal(g.TargetAmount) || back.ID != 3 {
		t.Fatalf("decode mismatch: %+v", back)
	}
}
