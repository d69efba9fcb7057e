package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func testLookup(t *testing.T) RateLookup {
	t.Helper()
	return BuildRateLookup(NormalizeMetalRates([]RateInput{
		{Name: "Platina", UnitPriceValue: num(300), UnitPriceCurrency: "BRL"},
		{Name: "Paládio", UnitPriceValue: num(200), UnitPriceCurrency: "USD"},
	}))
}

func TestNormalizeCompositionGlobalPricing(t *testing.T) {
	lines, summary := NormalizeComposition([]LineInput{
		{MetalName: "Platina", QuantityKg: num(0.5)},
	}, testLookup(t), DefaultCurrencyRates())

	require.Len(t, lines, 1)
	assert.Equal(t, PriceSourceGlobal, lines[0].PriceSource)
	assert.True(t, lines[0].UseGlobalPrice)
	assert.Equal(t, "300.00", lines[0].UnitPriceBRL.StringFixed(2))
	assert.Equal(t, "150.00", lines[0].TotalValueBRL.StringFixed(2))
	assert.Equal(t, "150.00", summary.TotalMetalValueBRL.StringFixed(2))
	assert.Equal(t, "0.5", summary.TotalWeightKg.String())
}

func TestNormalizeCompositionCustomPrice(t *testing.T) {
	lines, _ := NormalizeComposition([]LineInput{
		{MetalName: "Platina", QuantityKg: num(1), UnitPriceValue: num(120), UseGlobalPrice: boolPtr(false)},
	}, testLookup(t), DefaultCurrencyRates())

	require.Len(t, lines, 1)
	assert.Equal(t, PriceSourceCustom, lines[0].PriceSource)
	assert.False(t, lines[0].UseGlobalPrice)
	assert.Equal(t, "120.00", lines[0].UnitPriceBRL.StringFixed(2))
}

func TestNormalizeCompositionUnpricedOptOutTakesGlobal(t *testing.T) {
	// An opt-out line with no usable price still resolves against the global
	// rate rather than pricing at zero.
	lines, _ := NormalizeComposition([]LineInput{
		{MetalName: "Platina", QuantityKg: num(1), UseGlobalPrice: boolPtr(false)},
	}, testLookup(t), DefaultCurrencyRates())

	require.Len(t, lines, 1)
	assert.Equal(t, PriceSourceGlobal, lines[0].PriceSource)
	assert.True(t, lines[0].UseGlobalPrice)
	assert.Equal(t, "300.00", lines[0].UnitPriceBRL.StringFixed(2))
}

func TestNormalizeCompositionUnknownMetal(t *testing.T) {
	lines, _ := NormalizeComposition([]LineInput{
		{MetalName: "Ouro", QuantityKg: num(2), UseGlobalPrice: boolPtr(false)},
	}, testLookup(t), DefaultCurrencyRates())

	require.Len(t, lines, 1)
	assert.Equal(t, PriceSourceCustom, lines[0].PriceSource)
	assert.True(t, lines[0].UnitPriceBRL.IsZero())
	assert.True(t, lines[0].TotalValueBRL.IsZero())
}

func TestNormalizeCompositionUSDLine(t *testing.T) {
	lines, _ := NormalizeComposition([]LineInput{
		{MetalName: "Paládio", QuantityKg: num(2)},
	}, testLookup(t), DefaultCurrencyRates())

	require.Len(t, lines, 1)
	assert.Equal(t, CurrencyUSD, lines[0].UnitPriceCurrency)
	assert.Equal(t, "1040.00", lines[0].UnitPriceBRL.StringFixed(2))
	assert.Equal(t, "2080.00", lines[0].TotalValueBRL.StringFixed(2))
}

func TestNormalizeCompositionDropsAndClamps(t *testing.T) {
	lines, summary := NormalizeComposition([]LineInput{
		{QuantityKg: num(5)}, // nameless, dropped
		{MetalName: "Platina", QuantityKg: num(-1)},
		{MetalName: "Paládio"},
	}, testLookup(t), DefaultCurrencyRates())

	require.Len(t, lines, 2)
	assert.Equal(t, "Platina", lines[0].MetalName)
	assert.True(t, lines[0].QuantityKg.IsZero())
	assert.Equal(t, "Paládio", lines[1].MetalName)
	assert.True(t, summary.TotalWeightKg.IsZero())
	assert.True(t, summary.TotalMetalValueBRL.IsZero())
}

func TestNormalizeCompositionIdempotent(t *testing.T) {
	lookup := testLookup(t)
	rates := DefaultCurrencyRates()
	input := []LineInput{
		{MetalName: "Platina", QuantityKg: num(0.05)},
		{MetalName: "Ouro", QuantityKg: num(1), UnitPriceValue: num(99.5), UseGlobalPrice: boolPtr(false)},
	}

	first, firstSummary := NormalizeComposition(input, lookup, rates)
	second, secondSummary := NormalizeComposition(ResolvedInputs(first), lookup, rates)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].MetalName, second[i].MetalName)
		assert.Equal(t, first[i].PriceSource, second[i].PriceSource)
		assert.True(t, first[i].UnitPriceBRL.Equal(second[i].UnitPriceBRL.Decimal))
		assert.True(t, first[i].TotalValueBRL.Equal(second[i].TotalValueBRL.Decimal))
	}
	assert.True(t, firstSummary.TotalMetalValueBRL.Equal(secondSummary.TotalMetalValueBRL.Decimal))
	assert.True(t, firstSummary.TotalWeightKg.Equal(secondSummary.TotalWeightKg.Decimal))
}

func TestHasAnyMetalQuantity(t *testing.T) {
	assert.False(t, HasAnyMetalQuantity(nil))
	assert.False(t, HasAnyMetalQuantity([]LineInput{{MetalName: "Platina"}}))
	assert.False(t, HasAnyMetalQuantity([]LineInput{{MetalName: "Platina", QuantityKg: num(-2)}}))
	assert.True(t, HasAnyMetalQuantity([]LineInput{{MetalName: "Platina", QuantityKg: num(0.001)}}))
}

func TestBuildTechnicalSheetDerivesSource(t *testing.T) {
	sheet := BuildTechnicalSheet([]ResolvedLine{
		{MetalName: " Platina ", QuantityKg: NumberFromFloat(1), UseGlobalPrice: true},
		{MetalName: "Ouro", UseGlobalPrice: false},
		{MetalName: "Ródio", PriceSource: PriceSourceCustom, UseGlobalPrice: true},
	})

	require.Len(t, sheet, 3)
	assert.Equal(t, "Platina", sheet[0].MetalName)
	assert.Equal(t, PriceSourceGlobal, sheet[0].PriceSource)
	assert.Equal(t, PriceSourceCustom, sheet[1].PriceSource)
	// An explicit stored source is never overridden.
	assert.Equal(t, PriceSourceCustom, sheet[2].PriceSource)
}
