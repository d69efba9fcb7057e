// Package settings provides the global pricing settings singleton: the metal
// rate registry and currency conversion rates every pricing computation runs
// against.
package settings

import (
	"time"

	"catalisa/internal/pricing"
)

// GlobalKey is the singleton row key.
const GlobalKey = "global"

// Document is the stored settings row. Metal and currency rates live as
// JSONB documents.
type Document struct {
	Key           string                `db:"key" json:"key"`
	MetalRates    []pricing.MetalRate   `db:"metal_rates" json:"metalRates"`
	CurrencyRates pricing.CurrencyRates `db:"currency_rates" json:"currencyRates"`
	UpdatedAt     time.Time             `db:"updated_at" json:"updatedAt"`
}

// Snapshot converts the stored document into a normalized pricing snapshot.
func (d *Document) Snapshot() pricing.Settings {
	if d == nil {
		return pricing.NormalizeSettings(pricing.SettingsInput{})
	}
	s := pricing.Settings{
		CurrencyRates: d.CurrencyRates.Normalize(),
		MetalRates:    d.MetalRates,
	}
	s.Lookup()
	return s
}
