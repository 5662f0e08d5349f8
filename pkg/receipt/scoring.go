package receipt

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// hint adds weight to a candidate whose raw text looks like the paid amount.
type hint struct {
	weight int
	match  func(raw, low string) bool
}

var hints = []hint{
	{10, func(raw, _ string) bool { return hasCurrencyHint(raw) }},
	{8, func(_, low string) bool { return strings.Contains(low, "valor") || strings.Contains(low, "total") }},
	{5, func(raw, _ string) bool { return centsRE.MatchString(raw) }},
	{3, func(raw, _ string) bool { return strings.HasSuffix(raw, ",00") }},
	{1, func(raw, _ string) bool { return len(onlyDigits(raw)) >= 4 }},
}

type candidate struct {
	amt   decimal.Decimal
	raw   string
	score int
}

func score(raw string) int {
	low := strings.ToLower(raw)
	s := 0
	for _, h := range hints {
		if h.match(raw, low) {
			s += h.weight
		}
	}
	return s
}

// rank orders candidates by score, then amount, then the longer raw text.
// Identical scores and amounts fall back to the lexically smaller text so the
// choice never depends on match order.
func rank(a, b candidate) int {
	return cmp.Or(
		cmp.Compare(a.score, b.score),
		a.amt.Cmp(b.amt),
		cmp.Compare(len(a.raw), len(b.raw)),
		strings.Compare(b.raw, a.raw),
	)
}

// BestAmountFromMatches picks the most likely paid amount among raw matches.
func BestAmountFromMatches(matches []string) (decimal.Decimal, string, bool) {
	var cands []candidate
	for _, m := range matches {
		amt, err := ParseAmount(m)
		if err != nil || !amt.IsPositive() {
			continue
		}
		cands = append(cands, candidate{amt: amt, raw: m, score: score(m)})
	}
	if len(cands) == 0 {
		return decimal.Zero, "", false
	}
	best := slices.MaxFunc(cands, rank)
	return best.amt, best.raw, true
}
