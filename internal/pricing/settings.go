package pricing

// SettingsInput is the raw settings document shape (stored or admin-supplied):
// the global metal rate list plus currency conversion rates.
type SettingsInput struct {
	MetalRates    []RateInput    `json:"metalRates"`
	CurrencyRates *CurrencyRates `json:"currencyRates"`
}

// Settings is the normalized settings snapshot every pricing computation runs
// against: the de-duplicated rate list, the alias lookup derived from it, and
// normalized currency rates. Build it once per request via NormalizeSettings;
// a Settings value is already normalized by construction, so passing it around
// is idempotent.
type Settings struct {
	CurrencyRates CurrencyRates `json:"currencyRates"`
	MetalRates    []MetalRate   `json:"metalRates"`

	lookup RateLookup
}

// NormalizeSettings builds a normalized snapshot from a raw settings document.
// A missing document (zero SettingsInput) yields default currency rates and an
// empty registry; pricing still works, every line prices as custom.
func NormalizeSettings(input SettingsInput) Settings {
	currencyRates := DefaultCurrencyRates()
	if input.CurrencyRates != nil {
		currencyRates = input.CurrencyRates.Normalize()
	}

	metalRates := NormalizeMetalRates(input.MetalRates)

	return Settings{
		CurrencyRates: currencyRates,
		MetalRates:    metalRates,
		lookup:        BuildRateLookup(metalRates),
	}
}

// Lookup returns the alias→rate map, rebuilding it for snapshots that were
// deserialized rather than built through NormalizeSettings.
func (s *Settings) Lookup() RateLookup {
	if s.lookup == nil {
		s.lookup = BuildRateLookup(s.MetalRates)
	}
	return s.lookup
}
