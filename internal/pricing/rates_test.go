package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(f float64) *Number {
	n := NumberFromFloat(f)
	return &n
}

func TestNormalizeMetalRates(t *testing.T) {
	rates := NormalizeMetalRates([]RateInput{
		{Name: "Platina", UnitPriceValue: num(350), UnitPriceCurrency: "BRL"},
		{Name: "Paládio", Value: num(200), Currency: "usd", LegacyKey: "Palladium"},
		{Name: ""},                              // nameless, dropped
		{Label: "Ródio", Price: num(-10)},       // clamped to zero
		{Name: "paladio", UnitPriceValue: num(250)}, // same key, overwrites in place
	})

	require.Len(t, rates, 3)

	assert.Equal(t, "platina", rates[0].NormalizedKey)
	assert.Equal(t, "350", rates[0].UnitPriceValue.String())
	assert.Equal(t, CurrencyBRL, rates[0].UnitPriceCurrency)

	// The later "paladio" entry replaced the earlier one but kept its slot.
	assert.Equal(t, "paladio", rates[1].NormalizedKey)
	assert.Equal(t, "paladio", rates[1].MetalName)
	assert.Equal(t, "250", rates[1].UnitPriceValue.String())

	assert.Equal(t, "rodio", rates[2].NormalizedKey)
	assert.True(t, rates[2].UnitPriceValue.IsZero())
}

func TestNormalizeMetalRatesAliases(t *testing.T) {
	rates := NormalizeMetalRates([]RateInput{{
		Name:      "Paládio",
		LegacyKey: "Palladium",
		Aliases:   []string{"Pd", "paladio", ""},
	}})

	require.Len(t, rates, 1)
	rate := rates[0]

	require.NotNil(t, rate.LegacyKey)
	assert.Equal(t, "palladium", *rate.LegacyKey)
	// Canonical key first, then legacy, then supplied aliases; duplicates and
	// empties collapse.
	assert.Equal(t, []string{"paladio", "palladium", "pd"}, rate.Aliases)
}

func TestBuildRateLookup(t *testing.T) {
	rates := NormalizeMetalRates([]RateInput{
		{Name: "Paládio", UnitPriceValue: num(200), LegacyKey: "palladium", Aliases: []string{"Pd"}},
		{Name: "Platina", UnitPriceValue: num(350)},
	})
	lookup := BuildRateLookup(rates)

	for _, alias := range []string{"paladio", "palladium", "pd"} {
		r, ok := lookup[alias]
		require.True(t, ok, "alias %q must resolve", alias)
		assert.Equal(t, "paladio", r.NormalizedKey)
	}

	r, ok := lookup["platina"]
	require.True(t, ok)
	assert.Equal(t, "350", r.UnitPriceValue.String())

	_, ok = lookup["ouro"]
	assert.False(t, ok)
}

func TestBuildRateLookupFallbackAlias(t *testing.T) {
	// Deserialized rates may arrive without an alias set.
	lookup := BuildRateLookup([]MetalRate{{MetalName: "Ródio", UnitPriceValue: NumberFromFloat(100)}})
	_, ok := lookup["rodio"]
	assert.True(t, ok)
}
