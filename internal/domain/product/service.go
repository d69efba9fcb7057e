package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"catalisa/internal/core/apperror"
	appctx "catalisa/internal/core/context"
	"catalisa/internal/core/id"
	"catalisa/internal/core/tx"
	"catalisa/internal/domain/settings"
	"catalisa/internal/infrastructure/storage/postgres"
	"catalisa/internal/pricing"
	"catalisa/pkg/logger"
)

// Input is the create/update payload. Older clients used several names for
// the composition array; the first non-nil one wins, in this order:
// metalComposition, metals, metalSheet, metalTechnicalSheet. A nil slice means
// "composition unchanged" on update.
type Input struct {
	Name               *string         `json:"name"`
	Description        *string         `json:"description"`
	Brand              *string         `json:"brand"`
	Category           *string         `json:"category"`
	SKU                *string         `json:"sku"`
	Price              *pricing.Number `json:"price"`
	Images             []string        `json:"images"`
	Specifications     map[string]any  `json:"specifications"`
	InternalMetals     *InternalMetals `json:"internalMetals"`
	PurchasePanelStyle *string         `json:"purchasePanelStyle"`

	MetalComposition    []pricing.LineInput `json:"metalComposition"`
	Metals              []pricing.LineInput `json:"metals"`
	MetalSheet          []pricing.LineInput `json:"metalSheet"`
	MetalTechnicalSheet []pricing.LineInput `json:"metalTechnicalSheet"`
}

// compositionInput picks the composition payload by field priority. The bool
// reports whether any of the alias fields was present.
func (in Input) compositionInput() ([]pricing.LineInput, bool) {
	for _, candidate := range [][]pricing.LineInput{
		in.MetalComposition, in.Metals, in.MetalSheet, in.MetalTechnicalSheet,
	} {
		if candidate != nil {
			return candidate, true
		}
	}
	return nil, false
}

// Service provides catalog business logic.
type Service struct {
	repo      Repository
	settings  *settings.Service
	txManager tx.Manager
	audit     *postgres.AuditService
}

// NewService creates a product service and registers it as the settings
// recalculator.
func NewService(repo Repository, settingsSvc *settings.Service, txManager tx.Manager, audit *postgres.AuditService) *Service {
	s := &Service{repo: repo, settings: settingsSvc, txManager: txManager, audit: audit}
	settingsSvc.SetRecalculator(s)
	return s
}

// Create adds a catalog item. With a composition carrying metal quantities
// the price is metal-derived; otherwise the manual price stands,
// money-rounded.
func (s *Service) Create(ctx context.Context, input Input) (*Product, error) {
	now := time.Now().UTC()
	p := &Product{
		ID:        id.New(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyScalarFields(p, input)
	p.SKU = NormalizeSKU(p.SKU)

	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	if existing, err := s.repo.GetBySKU(ctx, p.SKU); err == nil && existing != nil {
		return nil, apperror.NewDuplicate("product", "sku", p.SKU)
	}

	snapshot, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	comp, _ := input.compositionInput()
	manual := pricing.RoundMoney(manualPrice(input))
	s.applyPricing(p, comp, manual, snapshot)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	logger.Info(ctx, "product created", "product_id", p.ID, "sku", p.SKU)
	return p, nil
}

// Update modifies a catalog item and re-prices it. When the payload carries
// no composition the stored lines are re-resolved against current settings.
func (s *Service) Update(ctx context.Context, productID id.ID, input Input) (*Product, error) {
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	applyScalarFields(p, input)
	p.SKU = NormalizeSKU(p.SKU)
	p.UpdatedAt = time.Now().UTC()

	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	if existing, err := s.repo.GetBySKU(ctx, p.SKU); err == nil && existing != nil && existing.ID != p.ID {
		return nil, apperror.NewDuplicate("product", "sku", p.SKU)
	}

	snapshot, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	comp, provided := input.compositionInput()
	if !provided {
		comp = pricing.ResolvedInputs(p.MetalComposition)
	}
	manual := p.Price
	if input.Price != nil {
		manual = pricing.RoundMoney(input.Price.Decimal)
	}
	s.applyPricing(p, comp, manual, snapshot)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// applyPricing resolves the composition and sets price, composition and
// summary on the product.
func (s *Service) applyPricing(p *Product, comp []pricing.LineInput, manual decimal.Decimal, snapshot pricing.Settings) {
	result := pricing.ComputeProductPricing(comp, snapshot)
	p.MetalComposition = result.Composition
	p.MetalSummary = &result.Summary

	if pricing.HasAnyMetalQuantity(comp) {
		p.Price = result.Price.Decimal
	} else {
		p.Price = manual
	}
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.Get(ctx, productID)
}

// GetBySKU returns one product by SKU.
func (s *Service) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	return s.repo.GetBySKU(ctx, NormalizeSKU(sku))
}

// List returns catalog items matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Product, error) {
	return s.repo.List(ctx, filter)
}

// Categories returns the distinct active categories.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// SoftDelete deactivates a product. It stays addressable by id for existing
// orders.
func (s *Service) SoftDelete(ctx context.Context, productID id.ID) error {
	if _, err := s.repo.Get(ctx, productID); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, productID, false)
}

// PriceFor projects a product's price for the requesting user.
func (s *Service) PriceFor(p *Product, user *appctx.UserContext) pricing.PriceView {
	return pricing.ComputePriceForUser(p.Price, user)
}

// TechnicalSheet shapes the stored composition for API responses.
func (s *Service) TechnicalSheet(p *Product) []pricing.ResolvedLine {
	return pricing.BuildTechnicalSheet(p.MetalComposition)
}

// RecalculateAll re-prices the whole catalog against a settings snapshot.
// Every product gets its composition and summary refreshed; the price itself
// only moves for metal-priced products. Returns how many prices were updated.
func (s *Service) RecalculateAll(ctx context.Context, snapshot pricing.Settings) (int, error) {
	products, err := s.repo.List(ctx, Filter{IncludeInactive: true})
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range products {
		p := &products[i]
		comp := pricing.ResolvedInputs(p.MetalComposition)
		result := pricing.ComputeProductPricing(comp, snapshot)

		p.MetalComposition = result.Composition
		p.MetalSummary = &result.Summary
		if pricing.HasAnyMetalQuantity(comp) {
			p.Price = result.Price.Decimal
			updated++
		}
		p.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, p); err != nil {
			return updated, err
		}
	}

	logger.Info(ctx, "catalog recalculated", "products", len(products), "prices_updated", updated)
	return updated, nil
}

// Recalculate re-prices the catalog against the currently stored settings.
func (s *Service) Recalculate(ctx context.Context) (int, error) {
	snapshot, err := s.settings.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return s.RecalculateAll(ctx, snapshot)
}

func applyScalarFields(p *Product, input Input) {
	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Brand != nil {
		p.Brand = *input.Brand
	}
	if input.Category != nil {
		p.Category = *input.Category
	}
	if input.SKU != nil {
		p.SKU = *input.SKU
	}
	if input.Images != nil {
		p.Images = input.Images
	}
	if input.Specifications != nil {
		p.Specifications = input.Specifications
	}
	if input.InternalMetals != nil {
		p.InternalMetals = input.InternalMetals
	}
	if input.PurchasePanelStyle != nil {
		p.PurchasePanelStyle = *input.PurchasePanelStyle
	}
}

func manualPrice(input Input) decimal.Decimal {
	if input.Price != nil {
		return input.Price.Decimal
	}
	return decimal.Zero
}
