// Package pricing implements the metal-composition pricing engine: locale-tolerant
// numeric parsing, metal rate registries, composition valuation and per-partner
// price projection. Every function here is pure; callers supply the settings
// snapshot explicitly.
//
// Malformed numeric input never produces an error: it collapses to zero. That
// mirrors the platform's availability-over-validation policy; a product with
// incomplete metal data must still price and save. Callers that need to tell
// "absent" from "explicitly zero" must check the raw input themselves.
package pricing

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Metal quantities and intermediate unit prices carry 6 decimal places;
// monetary amounts carry 2.
const (
	metalScale = 6
	moneyScale = 2
)

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// ParseNumber parses a locale-tolerant numeric string into a decimal.
// "1.234,56" (pt-BR thousands + decimal comma), "1234,56" and "1234.56" all
// parse to the same value. Empty or unparseable input yields zero, never an
// error.
func ParseNumber(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}

	// Whitespace inside the number is noise (thousands separators, padding).
	s = strings.Join(strings.Fields(s), "")

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		// "1.234,56": dot is the thousands separator, comma the decimal one.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// NormalizeMetalValue rounds a value to the metal precision of 6 decimal
// places, half away from zero.
func NormalizeMetalValue(d decimal.Decimal) decimal.Decimal {
	return d.Round(metalScale)
}

// RoundMoney rounds a monetary value to 2 decimal places, half away from zero.
// The legacy engine nudged binary floats with an epsilon before rounding;
// decimal arithmetic is exact, so half-up rounding alone reproduces its
// results (10.005 rounds to 10.01, not 10.00).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyScale)
}

// NormalizeMetalKey derives the canonical registry key for a metal display
// name: trim, strip diacritics, lowercase, collapse non-alphanumeric runs to
// single hyphens. "Paládio", "paladio" and " PALADIO " all map to "paladio".
func NormalizeMetalKey(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}

	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripper, s); err == nil {
		s = stripped
	}

	s = strings.ToLower(s)
	s = nonAlnumRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Number is a decimal that unmarshals leniently (JSON number or
// locale-formatted string, garbage collapsing to zero) and marshals as a plain
// JSON number. It is the wire type for every quantity and price in the engine.
type Number struct {
	decimal.Decimal
}

// NewNumber wraps a decimal.
func NewNumber(d decimal.Decimal) Number {
	return Number{d}
}

// NumberFromFloat wraps a float value. Intended for tests and constants.
func NumberFromFloat(f float64) Number {
	return Number{decimal.NewFromFloat(f)}
}

// UnmarshalJSON accepts a JSON number, a quoted locale-tolerant string, or
// null. Unparseable input becomes zero.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		n.Decimal = decimal.Zero
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			n.Decimal = decimal.Zero
			return nil
		}
		n.Decimal = ParseNumber(s)
		return nil
	}

	n.Decimal = ParseNumber(string(data))
	return nil
}

// MarshalJSON encodes the value as a JSON number.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}
