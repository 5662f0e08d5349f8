// Package report summarizes savings progress across goals and travel ideas.
package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"memories/pkg/store"
)

// Line is one goal or travel idea in the report.
type Line struct {
	Kind      string
	ID        uint
	Name      string
	Target    decimal.Decimal
	Saved     decimal.Decimal
	Progress  float64
	Completed bool
}

// Summary aggregates every savings target.
type Summary struct {
	Lines      []Line
	Target     decimal.Decimal
	Saved      decimal.Decimal
	Completed  int
	Places     int
	ByCategory map[string]int
}

// Missing is what is still left to save overall.
func (s Summary) Missing() decimal.Decimal {
	m := s.Target.Sub(s.Saved)
	if m.IsNegative() {
		return decimal.Zero
	}
	return m
}

// Build reads every record from st.
func Build(ctx context.Context, st *store.Store) (Summary, error) {
	sum := Summary{ByCategory: map[string]int{}}
	goals, err := st.FinancialGoals.List(ctx)
	if err != nil {
		return sum, fmt.Errorf("list goals: %w", err)
	}
	for _, g := range goals {
		sum.add(Line{"goal", g.ID, g.Name, g.TargetAmount, g.SavedAmount, g.Progress(), g.Completed()})
	}
	ideas, err := st.TravelIdeas.List(ctx)
	if err != nil {
		return sum, fmt.Errorf("list travel ideas: %w", err)
	}
	for _, t := range ideas {
		sum.add(Line{"travel", t.ID, t.Name, t.Cost, t.Saved, t.Progress(), t.Completed()})
	}
	places, err := st.Places.List(ctx)
	if err != nil {
		return sum, fmt.Errorf("list places: %w", err)
	}
	sum.Places = len(places)
	for _, p := range places {
		sum.ByCategory[p.Category]++
	}
	sort.SliceStable(sum.Lines, func(i, j int) bool { return sum.Lines[i].Progress > sum.Lines[j].Progress })
	return sum, nil
}

func (s *Summary) add(l Line) {
	s.Lines = append(s.Lines, l)
	s.Target = s.Target.Add(l.Target)
	s.Saved = s.Saved.Add(l.Saved)
	if l.Completed {
		s.Completed++
	}
}

// Write prints the summary as an aligned table.
func Write(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tID\tNAME\tSAVED\tTARGET\tPROGRESS")
	for _, l := range s.Lines {
		mark := ""
		if l.Completed {
			mark = " ✓"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%.0f%%%s\n", l.Kind, l.ID, l.Name, l.Saved.StringFixed(2), l.Target.StringFixed(2), l.Progress, mark)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nsaved=%s target=%s missing=%s completed=%d/%d\n",
		s.Saved.StringFixed(2), s.Target.StringFixed(2), s.Missing().StringFixed(2), s.Completed, len(s.Lines))
	cats := make([]string, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	fmt.Fprintf(w, "places=%d", s.Places)
	for _, c := range cats {
		fmt.Fprintf(w, " %s=%d", c, s.ByCategory[c])
	}
	_, err := fmt.Fprintln(w)
	return err
}
