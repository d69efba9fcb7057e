package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, CurrencyUSD, NormalizeCurrency("USD"))
	assert.Equal(t, CurrencyUSD, NormalizeCurrency(" usd "))
	assert.Equal(t, CurrencyBRL, NormalizeCurrency("BRL"))
	assert.Equal(t, CurrencyBRL, NormalizeCurrency("EUR"))
	assert.Equal(t, CurrencyBRL, NormalizeCurrency(""))
	assert.Equal(t, CurrencyBRL, NormalizeCurrency("R$"))
}

func TestConvertToBRL(t *testing.T) {
	rates := CurrencyRates{USDToBRL: NumberFromFloat(5.2)}

	usd := ConvertToBRL(decimal.NewFromInt(10), CurrencyUSD, rates)
	assert.Equal(t, "52", usd.String())

	brl := ConvertToBRL(decimal.RequireFromString("123.456789"), CurrencyBRL, rates)
	assert.Equal(t, "123.456789", brl.String())

	// Non-positive values mean "no price" and never convert.
	assert.True(t, ConvertToBRL(decimal.Zero, CurrencyUSD, rates).IsZero())
	assert.True(t, ConvertToBRL(decimal.NewFromInt(-5), CurrencyBRL, rates).IsZero())
}

func TestConvertToBRLDefaultRate(t *testing.T) {
	// A zero configured rate falls back to the default 5.2.
	var zeroRates CurrencyRates
	got := ConvertToBRL(decimal.NewFromInt(10), CurrencyUSD, zeroRates)
	assert.Equal(t, "52", got.String())
}

func TestCurrencyRatesNormalize(t *testing.T) {
	assert.Equal(t, "5.2", CurrencyRates{}.Normalize().USDToBRL.String())
	assert.Equal(t, "4.87", CurrencyRates{USDToBRL: NumberFromFloat(4.87)}.Normalize().USDToBRL.String())
}
