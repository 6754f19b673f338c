package core

import (
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date layouts found in stored documents: ISO dates from checkout,
// US-style dates from the purchase forms.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
}

// ParseDate parses any stored date shape.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CanonicalDate rewrites s as YYYY-MM-DD when it parses; otherwise s is returned as is.
func CanonicalDate(s string) string {
	if t, ok := ParseDate(s); ok {
		return t.Format("2006-01-02")
	}
	return s
}

func cleanNumber(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	return strings.ReplaceAll(s, ",", "")
}

// Bounds on accepted amounts. Exponent notation is always refused.
const (
	maxAmountLen    = 32
	maxAmountPlaces = 8
)

var amountLimit = decimal.New(1, 12)

// ParseAmount parses a monetary or quantity field. Blank input is zero.
// Anything else unparseable or out of bounds is a ValidationError naming the field.
func ParseAmount(field, raw string) (decimal.Decimal, error) {
	s := cleanNumber(raw)
	if s == "" {
		return decimal.Zero, nil
	}
	if len(s) > maxAmountLen || strings.ContainsAny(s, "eE") {
		return decimal.Zero, invalid(ErrInvalidInput, "%s: %q is not a plain decimal number", field, raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid(ErrInvalidInput, "%s: %q is not a number", field, raw)
	}
	if d.Abs().GreaterThanOrEqual(amountLimit) {
		return decimal.Zero, invalid(ErrInvalidInput, "%s: %q is out of range", field, raw)
	}
	if !d.Truncate(maxAmountPlaces).Equal(d) {
		return decimal.Zero, invalid(ErrInvalidInput, "%s: %q has more than %d decimal places", field, raw, maxAmountPlaces)
	}
	return d, nil
}

// LenientAmount is ParseAmount for values that must never block the
// operation: an unparseable value becomes zero and is logged.
func LenientAmount(field, raw string) decimal.Decimal {
	d, err := ParseAmount(field, raw)
	if err != nil {
		log.Printf("warning: %v; using 0", err)
		return decimal.Zero
	}
	return d
}
