// Package product provides the recyclable product catalog: automotive
// catalytic parts with a metal composition that drives their price.
package product

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"catalisa/internal/core/apperror"
	"catalisa/internal/core/id"
	"catalisa/internal/pricing"
)

// InternalMetals holds the reference metal loadings shown on the admin price
// sheet. These are informational columns, not pricing inputs.
type InternalMetals struct {
	Platina pricing.Number `json:"platina"`
	Paladio pricing.Number `json:"paladio"`
	Rodio   pricing.Number `json:"rodio"`
}

// Product is one catalog item.
type Product struct {
	ID                 id.ID                  `db:"id" json:"id"`
	Name               string                 `db:"name" json:"name"`
	Description        string                 `db:"description" json:"description"`
	Brand              string                 `db:"brand" json:"brand"`
	Category           string                 `db:"category" json:"category"`
	SKU                string                 `db:"sku" json:"sku"`
	Price              decimal.Decimal        `db:"price" json:"price"`
	Images             []string               `db:"images" json:"images"`
	Specifications     map[string]any         `db:"specifications" json:"specifications"`
	MetalComposition   []pricing.ResolvedLine `db:"metal_composition" json:"metalComposition"`
	MetalSummary       *pricing.Summary       `db:"metal_summary" json:"metalSummary,omitempty"`
	InternalMetals     *InternalMetals        `db:"internal_metals" json:"internalMetals,omitempty"`
	PurchasePanelStyle string                 `db:"purchase_panel_style" json:"purchasePanelStyle"`
	IsActive           bool                   `db:"is_active" json:"isActive"`
	CreatedAt          time.Time              `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time              `db:"updated_at" json:"updatedAt"`
}

// HasMetals reports whether the stored composition carries any quantity, i.e.
// whether the price is metal-derived rather than manual.
func (p *Product) HasMetals() bool {
	return pricing.HasAnyMetalQuantity(pricing.ResolvedInputs(p.MetalComposition))
}

// Validate checks catalog fields.
func (p *Product) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if strings.TrimSpace(p.SKU) == "" {
		return apperror.NewValidation("sku is required").WithDetail("field", "sku")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").WithDetail("field", "price")
	}
	return nil
}

// NormalizeSKU canonicalizes a SKU for lookups and uniqueness.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}
