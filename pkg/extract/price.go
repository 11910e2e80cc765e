package extract

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// parsePrice normalizes raw price text from a cart row and parses it as a
// decimal. Currency symbols, thousands separators and surrounding whitespace
// are stripped; both "1,299.00" and "1.299,00" separator styles are handled.
// Returns an error when no finite decimal can be recovered.
func parsePrice(text string) (decimal.Decimal, error) {
	cleaned := stripToNumeric(text)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no numeric content in %q", text)
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		// both present: the rightmost one is the decimal separator
		if lastDot > lastComma {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		}
	case lastComma >= 0:
		// comma only: a single comma followed by at most two digits is a
		// decimal comma, anything else is thousands grouping
		if strings.Count(cleaned, ",") == 1 && len(cleaned)-lastComma-1 <= 2 {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", text, err)
	}
	return d, nil
}

// stripToNumeric keeps digits, separators and a leading minus, dropping
// currency symbols, spaces and any other decoration.
func stripToNumeric(text string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(text) {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".,")
}
