// Package deposits credits savings from photographed deposit receipts. A receipt
// dropped into the watched folder as goal-<id>-*.jpg or travel-<id>-*.jpg is read
// by OCR and its amount is added to that record's saved amount. Processed files
// move to <dir>/processed.
package deposits

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"memories/models"
	"memories/pkg/store"
)

// Kinds a receipt can be credited to.
const (
	KindGoal   = "goal"
	KindTravel = "travel"
)

// ProcessedDir is the subfolder receipts are moved to once credited.
const ProcessedDir = "processed"

var (
	ErrUnrecognized  = errors.New("file name does not name a goal or travel idea")
	ErrLowConfidence = errors.New("ocr confidence below threshold")
	ErrDuplicate     = errors.New("receipt already processed")
)

var nameRE = regexp.MustCompile(`^(?i)(goal|meta|travel|viagem)-(\d+)(?:[-_.].*)?$`)

// Target is the record a receipt is credited to.
type Target struct {
	Kind string
	ID   uint
}

// ParseName extracts the target from a receipt file name.
func ParseName(name string) (Target, bool) {
	m := nameRE.FindStringSubmatch(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	if m == nil {
		return Target{}, false
	}
	id, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil || id == 0 {
		return Target{}, false
	}
	kind := KindGoal
	switch strings.ToLower(m[1]) {
	case "travel", "viagem":
		kind = KindTravel
	}
	return Target{Kind: kind, ID: uint(id)}, true
}

// Supported reports whether name looks like a receipt photo.
func Supported(name string) bool {
	// ignore OCR-generated temp files to avoid recursive processing
	if strings.Contains(name, ".ocr.") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}

// AmountReader extracts the amount of one receipt image.
type AmountReader interface {
	ExtractAmountFromImage(path string) (decimal.Decimal, float64, string, error)
}

// Result describes one credited receipt.
type Result struct {
	File     string
	Target   Target
	Amount   decimal.Decimal
	Conf     float64
	Raw      string
	NewSaved decimal.Decimal
}

// Scanner credits receipts found in Dir.
type Scanner struct {
	Dir     string
	Store   *store.Store
	OCR     AmountReader
	MinConf float64
	DryRun  bool
	Workers int
	Log     zerolog.Logger

	mu sync.Mutex // serializes read-modify-write on saved amounts
}

// ProcessFile OCRs one receipt and credits its target. The file is claimed by
// moving it into processed/ before the saved amount changes, so a receipt is
// credited at most once; when the update fails the file goes back to Dir. In
// dry-run mode nothing is written or moved.
func (s *Scanner) ProcessFile(ctx context.Context, name string) (Result, error) {
	res := Result{File: name}
	target, ok := ParseName(name)
	if !ok {
		return res, ErrUnrecognized
	}
	res.Target = target
	full := filepath.Join(s.Dir, name)
	amt, conf, raw, err := s.OCR.ExtractAmountFromImage(full)
	if err != nil {
		return res, fmt.Errorf("ocr %s: %w", name, err)
	}
	res.Amount, res.Conf, res.Raw = amt, conf, raw
	if conf < s.MinConf || !amt.IsPositive() {
		return res, fmt.Errorf("%w: amount=%s conf=%.2f", ErrLowConfidence, amt, conf)
	}
	res.NewSaved, err = s.credit(ctx, target, amt, name)
	return res, err
}

// account reads and writes the saved amount of one target.
type account struct {
	saved func() (decimal.Decimal, error)
	set   func(decimal.Decimal) (decimal.Decimal, error)
}

func (s *Scanner) accountFor(ctx context.Context, t Target) account {
	if t.Kind == KindTravel {
		return account{
			saved: func() (decimal.Decimal, error) {
				idea, err := s.Store.TravelIdeas.Get(ctx, t.ID)
				if err != nil {
					return decimal.Zero, fmt.Errorf("travel idea %d: %w", t.ID, err)
				}
				return idea.Saved, nil
			},
			set: func(v decimal.Decimal) (decimal.Decimal, error) {
				idea, err := s.Store.TravelIdeas.Update(ctx, t.ID, models.TravelIdeaPatch{Saved: &v})
				return idea.Saved, err
			},
		}
	}
	return account{
		saved: func() (decimal.Decimal, error) {
			goal, err := s.Store.FinancialGoals.Get(ctx, t.ID)
			if err != nil {
				return decimal.Zero, fmt.Errorf("financial goal %d: %w", t.ID, err)
			}
			return goal.SavedAmount, nil
		},
		set: func(v decimal.Decimal) (decimal.Decimal, error) {
			goal, err := s.Store.FinancialGoals.Update(ctx, t.ID, models.FinancialGoalPatch{SavedAmount: &v})
			return goal.SavedAmount, err
		},
	}
}

func (s *Scanner) credit(ctx context.Context, t Target, amt decimal.Decimal, name string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accountFor(ctx, t)
	cur, err := acc.saved()
	if err != nil {
		return decimal.Zero, err
	}
	saved := cur.Add(amt)
	if s.DryRun {
		return saved, nil
	}
	if err := claim(s.Dir, name); err != nil {
		return decimal.Zero, fmt.Errorf("claim %s: %w", name, err)
	}
	saved, err = acc.set(saved)
	if err != nil {
		if rerr := release(s.Dir, name); rerr != nil {
			s.Log.Error().Err(rerr).Str("file", name).Msg("failed to return unclaimed receipt")
		}
		return decimal.Zero, err
	}
	return saved, nil
}

// Scan processes every receipt currently in Dir with a worker pool and returns
// the credited ones.
func (s *Scanner) Scan(ctx context.Context) ([]Result, error) {
	files, err := listReceipts(s.Dir)
	if err != nil {
		return nil, err
	}
	s.Log.Info().Str("dir", s.Dir).Int("files", len(files)).Int("workers", s.workers()).Msg("scanning")
	ch := make(chan string)
	go func() {
		defer close(ch)
		for _, f := range files {
			select {
			case ch <- f:
			case <-ctx.Done():
				return
			}
		}
	}()
	var (
		mu  sync.Mutex
		out []Result
	)
	s.runWorkers(ctx, ch, func(r Result) {
		mu.Lock()
		out = append(out, r)
		mu.Unlock()
	})
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out, ctx.Err()
}

func (s *Scanner) runWorkers(ctx context.Context, files <-chan string, done func(Result)) {
	var wg sync.WaitGroup
	for i := 0; i < s.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range files {
				res, err := s.ProcessFile(ctx, name)
				if err != nil {
					s.Log.Warn().Err(err).Str("file", name).Msg("receipt skipped")
					continue
				}
				s.Log.Info().
					Str("file", name).
					Str("kind", res.Target.Kind).
					Uint("id", res.Target.ID).
					Str("amount", res.Amount.StringFixed(2)).
					Str("saved", res.NewSaved.StringFixed(2)).
					Float64("conf", res.Conf).
					Bool("dry_run", s.DryRun).
					Msg("receipt credited")
				if done != nil {
					done(res)
				}
			}
		}()
	}
	wg.Wait()
}

func (s *Scanner) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	// OCR is CPU bound; keep one core free for the service
	return max(1, runtime.NumCPU()-1)
}

func listReceipts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// claim moves dir/name to dir/processed/name. The rename is atomic, so of two
// workers racing on one receipt only the first succeeds.
func claim(dir, name string) error {
	processed := filepath.Join(dir, ProcessedDir)
	if err := os.MkdirAll(processed, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(processed, name)
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	return os.Rename(filepath.Join(dir, name), dst)
}

// release undoes claim.
func release(dir, name string) error {
	return os.Rename(filepath.Join(dir, ProcessedDir, name), filepath.Join(dir, name))
}
