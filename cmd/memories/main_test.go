package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"memories/pkg/client"
)

func TestBRL(t *testing.T) {
	cases := map[string]string{
		"0":        "R$ 0,00",
		"12.5":     "R$ 12,50",
		"1234.56":  "R$ 1.234,56",
		"1000000":  "R$ 1.000.000,00",
		"-45.1":    "-R$ 45,10",
		"999.999":  "R$ 1.000,00",
		"100000.1": "R$ 100.000,10",
	}
	for in, want := range cases {
		if got := brl(decimal.RequireFromString(in)); got != want {
			t.Errorf("brl(%s) = %q want %q", in, got, want)
		}
	}
}

func TestParseMoney(t *testing.T) {
	for in, want := range map[string]string{"R$ 1.234,56": "1234.56", "1234.56": "1234.56", "50": "50", "0,5": "0.5"} {
		got, err := parseMoney(in)
		if err != nil || !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("parseMoney(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := parseMoney("abc"); err == nil {
		t.Errorf("expected error")
	}
}

func TestStarsAndBar(t *testing.T) {
	if stars(3) != "★★★☆☆" || stars(9) != "★★★★★" {
		t.Fatalf("unexpected stars %q %q", stars(3), stars(9))
	}
	if got := bar(50); !strings.HasPrefix(got, "[#####.....]") {
		t.Fatalf("unexpected bar %q", got)
	}
}

func newTestApp(t *testing.T, h http.HandlerFunc, stdin string) (*app, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	var out bytes.Buffer
	return &app{client: client.New(srv.URL, srv.Client()), in: strings.NewReader(stdin), out: &out}, &out
}

func TestPlacesListFiltersCategory(t *testing.T) {
	a, out := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":2,"name":"Duna","category":"Filme","rating":4},{"id":1,"name":"Texas Pizzaria","category":"Restaurante","rating":5}]`)
	}, "")
	if err := a.run(context.Background(), []string{"places", "list", "-category", "Restaurante"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Texas Pizzaria") || strings.Contains(out.String(), "Duna") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	var deletes atomic.Int32
	a, out := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletes.Add(1)
			io.WriteString(w, `{"message":"Meta deletada"}`)
			return
		}
		io.WriteString(w, `[{"id":5,"name":"Casa","targetAmount":100,"savedAmount":0}]`)
	}, "n\n")
	if err := a.run(context.Background(), []string{"goals", "delete", "5"}); err != nil {
		t.Fatal(err)
	}
	if deletes.Load() != 0 || !strings.Contains(out.String(), "Cancelado.") {
		t.Fatalf("declined delete must not call the service: %d %q", deletes.Load(), out.String())
	}
	if err := a.run(context.Background(), []string{"goals", "delete", "5", "-yes"}); err != nil {
		t.Fatal(err)
	}
	if deletes.Load() != 1 {
		t.Fatalf("expected one delete, got %d", deletes.Load())
	}
}

func TestAddWithoutNameIsRejectedLocally(t *testing.T) {
	var posts atomic.Int32
	a, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts.Add(1)
		}
		io.WriteString(w, `[]`)
	}, "")
	if err := a.run(context.Background(), []string{"travel", "add", "-cost", "1000"}); err == nil {
		t.Fatalf("expected validation error")
	}
	if posts.Load() != 0 {
		t.Fatalf("no request expected, got %d", posts.Load())
	}
}

func TestQuizCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), "quiz.json")
	data := `[{"question":"Primeiro filme juntos?","options":[{"text":"Up","isCorrect":true},{"text":"Titanic"}]}]`
	if err := os.WriteFile(file, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	a, out := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {}, "1\n")
	if err := a.run(context.Background(), []string{"quiz", "-file", file}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Você acertou 1 de 1") {
		t.Fatalf("unexpected output %q", out.String())
	}
}
