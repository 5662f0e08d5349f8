package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"memories/models"
)

func renderPlaces(w io.Writer, items []models.Place) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Nenhum lugar ainda.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range items {
		fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\t%s\n", p.ID, p.Category, p.Name, stars(p.Rating), p.Notes)
	}
	tw.Flush()
}

func renderTravelIdeas(w io.Writer, items []models.TravelIdea) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Nenhuma viagem planejada.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range items {
		fmt.Fprintf(tw, "#%d\t%s\t%s\t%s / %s\t%s\t%s\n", t.ID, t.Name, t.Date, brl(t.Saved), brl(t.Cost), bar(t.Progress()), done(t.Completed()))
	}
	tw.Flush()
}

func renderFinancialGoals(w io.Writer, items []models.FinancialGoal) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Nenhuma meta cadastrada.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, g := range items {
		fmt.Fprintf(tw, "#%d\t%s\t%s\t%s / %s\t%s\t%s\n", g.ID, g.Name, g.Deadline, brl(g.SavedAmount), brl(g.TargetAmount), bar(g.Progress()), done(g.Completed()))
	}
	tw.Flush()
}

func stars(n int) string {
	n = max(0, min(n, 5))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// bar draws a ten-cell progress bar followed by the percentage.
func bar(pct float64) string {
	full := int(pct / 10)
	return fmt.Sprintf("[%s%s] %5.1f%%", strings.Repeat("#", full), strings.Repeat(".", 10-full), pct)
}

func done(ok bool) string {
	if ok {
		return "concluída"
	}
	return ""
}

// brl formats an amount as Brazilian reais, e.g. R$ 1.234,56.
func brl(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + b.String() + "," + frac
}
