package receipt

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// label-led amounts: "Valor do PIX: R$ 150,00", "Total 1.200,00"
	labelRE = regexp.MustCompile(`(?i)(valor(?:\s+(?:do\s+pix|transferido|pago|total|da\s+transfer[eê]ncia))?|total|quantia)[:\s]*(?:r[s5$]\s*)?([0-9][0-9.,]*)`)
	// OCR often reads "R$" as "RS" or "R5"
	currencyRE = regexp.MustCompile(`(?i)\br[s5$]\s*([0-9][0-9.,]*)`)

	groupedRE   = regexp.MustCompile(`\b([0-9]{1,3}(?:\.[0-9]{3})+,[0-9]{2})\b`)
	centsOnlyRE = regexp.MustCompile(`\b([0-9]+,[0-9]{2})\b`)
)

// FindMatches returns the amount-looking substrings of an OCR text in the order
// found. Matches that followed a currency marker or a "valor"/"total" label keep
// that context as a prefix so scoring can prefer them.
func FindMatches(text string) []string {
	text = normalizeOCRText(text)
	var out []string
	seen := map[string]struct{}{}
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		if isPlausibleAmount(s) {
			out = append(out, s)
		}
	}
	for _, m := range labelRE.FindAllStringSubmatch(text, -1) {
		num := trimNumber(m[2])
		if num == "" {
			continue
		}
		label := strings.ToLower(strings.Fields(m[1])[0])
		add(label + " R$" + num)
	}
	for _, m := range currencyRE.FindAllStringSubmatch(text, -1) {
		if num := trimNumber(m[1]); num != "" {
			add("R$" + num)
		}
	}
	for _, re := range []*regexp.Regexp{groupedRE, centsOnlyRE} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			add(m[1])
		}
	}
	return out
}

// ExtractAmount picks the transferred amount out of OCR text and returns it with
// a rough confidence in [0,1] and the raw match it came from.
func ExtractAmount(text string) (decimal.Decimal, float64, string, error) {
	text = normalizeOCRText(text)
	matches := FindMatches(text)
	amt, raw, ok := BestAmountFromMatches(matches)
	if !ok {
		return decimal.Zero, 0, "", ErrNoAmount
	}
	conf := float64(len(raw)) / float64(len(text)+1)
	if conf > 1 {
		conf = 1
	}
	if hasCurrencyHint(raw) || centsRE.MatchString(raw) {
		conf = max(conf, 0.85)
	}
	return amt, conf, raw, nil
}

func trimNumber(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".,")
}
