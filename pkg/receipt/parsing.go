// Package receipt finds the transferred amount in the OCR text of a Brazilian
// deposit or PIX receipt ("R$ 1.234,56").
package receipt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var centsRE = regexp.MustCompile(`[.,]\d{2}$`)

// ParseAmount normalizes a matched substring into an amount in reais.
// A trailing separator followed by exactly two digits is the cents part; every
// other separator is a thousands separator ("1.234,56", "1,234.56", "R$ 50").
func ParseAmount(found string) (decimal.Decimal, error) {
	s := strings.TrimSpace(found)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty")
	}
	var whole, cents string
	if centsRE.MatchString(s) {
		cut := max(strings.LastIndex(s, "."), strings.LastIndex(s, ","))
		whole = onlyDigits(s[:cut])
		cents = s[cut+1:]
	} else {
		whole = onlyDigits(s)
	}
	if whole == "" {
		whole = "0"
		if cents == "" {
			return decimal.Zero, fmt.Errorf("no digits extracted from %q", found)
		}
	}
	num := whole
	if cents != "" {
		num += "." + cents
	}
	amt, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", num, err)
	}
	return amt.Abs(), nil
}

// onlyDigits extracts decimal digits from a string.
func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// hasCurrencyHint reports whether s carries an explicit real marker.
func hasCurrencyHint(s string) bool {
	low := strings.ToLower(s)
	return strings.Contains(low, "r$") || strings.Contains(low, "brl")
}

// isPlausibleAmount rejects numeric matches that look like CPF/CNPJ fragments,
// phone numbers or transaction ids rather than money.
func isPlausibleAmount(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if hasCurrencyHint(s) {
		return onlyDigits(s) != ""
	}
	d := onlyDigits(s)
	if d == "" || (d[0] == '0' && !centsRE.MatchString(s)) {
		return false
	}
	if centsRE.MatchString(s) {
		return len(d) <= 9
	}
	if strings.ContainsAny(s, ".,") {
		return len(d) >= 4 && len(d) <= 7
	}
	return len(d) >= 2 && len(d) <= 5
}

// normalizeOCRText collapses whitespace and replaces newlines/tabs.
func normalizeOCRText(t string) string {
	t = strings.ReplaceAll(t, "\n", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	return strings.Join(strings.Fields(t), " ")
}
