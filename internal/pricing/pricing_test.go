package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() Settings {
	return NormalizeSettings(SettingsInput{
		MetalRates: []RateInput{
			{Name: "Platina", UnitPriceValue: num(350), UnitPriceCurrency: "BRL"},
			{Name: "Paládio", UnitPriceValue: num(200), UnitPriceCurrency: "USD"},
		},
	})
}

func TestComputeProductPricing(t *testing.T) {
	settings := testSettings()

	result := ComputeProductPricing([]LineInput{
		{MetalName: "Platina", QuantityKg: num(0.05)},
	}, settings)

	require.Len(t, result.Composition, 1)
	line := result.Composition[0]
	assert.Equal(t, "350.00", line.UnitPriceBRL.StringFixed(2))
	assert.Equal(t, "17.50", line.TotalValueBRL.StringFixed(2))
	assert.Equal(t, "0.05", result.Summary.TotalWeightKg.String())
	assert.Equal(t, "17.50", result.Summary.TotalMetalValueBRL.StringFixed(2))
	assert.Equal(t, "17.50", result.Price.StringFixed(2))
}

func TestComputeProductPricingUSDConversion(t *testing.T) {
	result := ComputeProductPricing([]LineInput{
		{MetalName: "Paládio", QuantityKg: num(2)},
	}, testSettings())

	require.Len(t, result.Composition, 1)
	assert.Equal(t, "1040.00", result.Composition[0].UnitPriceBRL.StringFixed(2))
	assert.Equal(t, "2080.00", result.Price.StringFixed(2))
}

func TestComputeProductPricingDeterministic(t *testing.T) {
	settings := testSettings()
	composition := []LineInput{
		{MetalName: "Platina", QuantityKg: num(0.05)},
		{MetalName: "Paládio", QuantityKg: num(1.25)},
		{MetalName: "Ouro", QuantityKg: num(3), UnitPriceValue: num(42.123456), UseGlobalPrice: boolPtr(false)},
	}

	first := ComputeProductPricing(composition, settings)
	second := ComputeProductPricing(composition, settings)
	assert.True(t, first.Price.Equal(second.Price.Decimal))

	// Repricing the stored composition reproduces the result exactly.
	third := ComputeProductPricing(ResolvedInputs(first.Composition), settings)
	assert.True(t, first.Price.Equal(third.Price.Decimal))
	assert.True(t, first.Summary.TotalWeightKg.Equal(third.Summary.TotalWeightKg.Decimal))
}

func TestComputeProductPricingEmptyComposition(t *testing.T) {
	result := ComputeProductPricing(nil, testSettings())
	assert.Empty(t, result.Composition)
	assert.True(t, result.Price.IsZero())
}

func TestNormalizeSettingsDefaults(t *testing.T) {
	settings := NormalizeSettings(SettingsInput{})
	assert.Equal(t, "5.2", settings.CurrencyRates.USDToBRL.String())
	assert.Empty(t, settings.MetalRates)
	assert.Empty(t, settings.Lookup())
}

func TestSettingsLookupAfterDeserialize(t *testing.T) {
	raw, err := json.Marshal(testSettings())
	require.NoError(t, err)

	var settings Settings
	require.NoError(t, json.Unmarshal(raw, &settings))

	rate, ok := settings.Lookup()["platina"]
	require.True(t, ok)
	assert.Equal(t, "350", rate.UnitPriceValue.String())
}
