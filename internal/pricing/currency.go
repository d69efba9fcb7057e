package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is a settlement currency code. Only BRL and USD exist; anything
// else coerces to BRL.
type Currency string

const (
	CurrencyBRL Currency = "BRL"
	CurrencyUSD Currency = "USD"
)

// NormalizeCurrency coerces an arbitrary code to a supported currency.
// Only "USD" (case-insensitive, trimmed) is recognized as non-default.
func NormalizeCurrency(code string) Currency {
	if strings.ToUpper(strings.TrimSpace(code)) == string(CurrencyUSD) {
		return CurrencyUSD
	}
	return CurrencyBRL
}

// defaultUSDToBRL is the conversion rate applied when settings carry none.
var defaultUSDToBRL = decimal.NewFromFloat(5.2)

// CurrencyRates holds the configured conversion rates. BRL is the settlement
// currency, so only the USD rate is stored.
type CurrencyRates struct {
	USDToBRL Number `json:"usdToBrl"`
}

// DefaultCurrencyRates returns the fallback rates (USD→BRL 5.2).
func DefaultCurrencyRates() CurrencyRates {
	return CurrencyRates{USDToBRL: NewNumber(defaultUSDToBRL)}
}

// Normalize rounds the configured rate to metal precision, substituting the
// default when the stored value is not positive.
func (r CurrencyRates) Normalize() CurrencyRates {
	rate := NormalizeMetalValue(r.USDToBRL.Decimal)
	if !rate.IsPositive() {
		rate = defaultUSDToBRL
	}
	return CurrencyRates{USDToBRL: NewNumber(rate)}
}

// ConvertToBRL converts a unit price into BRL. Non-positive values are never
// converted; they mean "no price" and return zero. USD multiplies by the
// configured rate; the result keeps metal precision (6 decimals).
func ConvertToBRL(value decimal.Decimal, currency Currency, rates CurrencyRates) decimal.Decimal {
	v := NormalizeMetalValue(value)
	if !v.IsPositive() {
		return decimal.Zero
	}
	if currency == CurrencyUSD {
		rate := NormalizeMetalValue(rates.USDToBRL.Decimal)
		if !rate.IsPositive() {
			rate = defaultUSDToBRL
		}
		return NormalizeMetalValue(v.Mul(rate))
	}
	return v
}
