package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RateInput is a loosely-shaped metal rate record as supplied by admin
// payloads or stored settings. Alias field names from older clients are
// accepted; the first non-empty candidate wins.
type RateInput struct {
	Name      string `json:"name"`
	MetalName string `json:"metalName"`
	Label     string `json:"label"`
	Key       string `json:"key"`

	UnitPriceValue *Number `json:"unitPriceValue"`
	Value          *Number `json:"value"`
	Price          *Number `json:"price"`

	UnitPriceCurrency string `json:"unitPriceCurrency"`
	Currency          string `json:"currency"`

	LegacyKey string   `json:"legacyKey"`
	Aliases   []string `json:"aliases"`
}

// displayName resolves the rate's display name from the alias fields.
func (r RateInput) displayName() string {
	for _, candidate := range []string{r.Name, r.MetalName, r.Label, r.Key} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return ""
}

// priceValue resolves the unit price from the alias fields, first field
// present wins.
func (r RateInput) priceValue() decimal.Decimal {
	for _, candidate := range []*Number{r.UnitPriceValue, r.Value, r.Price} {
		if candidate != nil {
			return candidate.Decimal
		}
	}
	return decimal.Zero
}

// currency resolves the unit price currency from the alias fields.
func (r RateInput) currency() Currency {
	if strings.TrimSpace(r.UnitPriceCurrency) != "" {
		return NormalizeCurrency(r.UnitPriceCurrency)
	}
	return NormalizeCurrency(r.Currency)
}

// MetalRate is a normalized global unit price for one metal.
type MetalRate struct {
	MetalName         string   `json:"metalName"`
	NormalizedKey     string   `json:"normalizedKey"`
	UnitPriceValue    Number   `json:"unitPriceValue"`
	UnitPriceCurrency Currency `json:"unitPriceCurrency"`
	LegacyKey         *string  `json:"legacyKey"`
	Aliases           []string `json:"aliases"`
}

// NormalizeMetalRates builds the normalized rate list from raw records.
// Rates are keyed by the canonical name key; a later record sharing a key
// overwrites the earlier one while keeping its insertion position, so the
// admin's ordering survives re-saves. Records without any usable name are
// dropped. Values are clamped to ≥0 at metal precision. The alias set always
// contains the canonical key itself, plus the canonicalized legacy key and any
// supplied aliases, de-duplicated.
func NormalizeMetalRates(inputs []RateInput) []MetalRate {
	rates := make([]MetalRate, 0, len(inputs))
	index := make(map[string]int, len(inputs))

	for _, in := range inputs {
		name := in.displayName()
		if name == "" {
			continue
		}
		key := NormalizeMetalKey(name)

		aliasSet := map[string]struct{}{key: {}}
		aliases := []string{key}
		addAlias := func(raw string) {
			a := NormalizeMetalKey(raw)
			if a == "" {
				return
			}
			if _, seen := aliasSet[a]; seen {
				return
			}
			aliasSet[a] = struct{}{}
			aliases = append(aliases, a)
		}

		var legacy *string
		if lk := strings.TrimSpace(in.LegacyKey); lk != "" {
			lower := strings.ToLower(lk)
			legacy = &lower
			addAlias(lk)
		}
		for _, alias := range in.Aliases {
			addAlias(alias)
		}

		value := NormalizeMetalValue(in.priceValue())
		if value.IsNegative() {
			value = decimal.Zero
		}

		rate := MetalRate{
			MetalName:         name,
			NormalizedKey:     key,
			UnitPriceValue:    NewNumber(value),
			UnitPriceCurrency: in.currency(),
			LegacyKey:         legacy,
			Aliases:           aliases,
		}

		if pos, seen := index[key]; seen {
			rates[pos] = rate
		} else {
			index[key] = len(rates)
			rates = append(rates, rate)
		}
	}

	return rates
}

// RateLookup resolves a composition line's metal to a global rate by any of
// the rate's known aliases.
type RateLookup map[string]*MetalRate

// BuildRateLookup expands normalized rates into an alias→rate map. A rate
// without aliases falls back to its own canonical name key. When two rates
// claim the same alias, the later one wins.
func BuildRateLookup(rates []MetalRate) RateLookup {
	lookup := make(RateLookup, len(rates)*2)
	for i := range rates {
		rate := &rates[i]
		aliases := rate.Aliases
		if len(aliases) == 0 {
			aliases = []string{NormalizeMetalKey(rate.MetalName)}
		}
		for _, alias := range aliases {
			if alias == "" {
				continue
			}
			lookup[alias] = rate
		}
	}
	return lookup
}
