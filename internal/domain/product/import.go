package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"catalisa/internal/infrastructure/storage/postgres"
	"catalisa/pkg/logger"
)

// PriceOverride is one parsed price-sheet row ready to apply.
type PriceOverride struct {
	SKU   string
	Price decimal.Decimal
}

// ImportResult reports a price-sheet import: rows applied, SKUs the catalog
// does not know, and rows skipped because their price did not parse to a
// positive value.
type ImportResult struct {
	UpdatedCount int      `json:"updatedCount"`
	NotFound     []string `json:"notFound"`
	Skipped      []string `json:"skipped"`
}

// ApplyPriceOverrides writes imported prices onto matching products. A zero
// or negative parsed price never overwrites a stored one; those rows are
// reported as skipped instead.
func (s *Service) ApplyPriceOverrides(ctx context.Context, overrides []PriceOverride) (*ImportResult, error) {
	result := &ImportResult{
		NotFound: []string{},
		Skipped:  []string{},
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, override := range overrides {
			sku := NormalizeSKU(override.SKU)
			if sku == "" {
				continue
			}
			if !override.Price.IsPositive() {
				result.Skipped = append(result.Skipped, sku)
				continue
			}

			p, err := s.repo.GetBySKU(ctx, sku)
			if err != nil {
				result.NotFound = append(result.NotFound, sku)
				continue
			}

			p.Price = override.Price
			p.UpdatedAt = time.Now().UTC()
			if err := s.repo.Update(ctx, p); err != nil {
				return err
			}
			result.UpdatedCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		_ = s.audit.LogChange(ctx, "product", "price-sheet", postgres.AuditActionImport, map[string]any{
			"updatedCount": result.UpdatedCount,
			"notFound":     result.NotFound,
			"skipped":      result.Skipped,
		})
	}

	logger.Info(ctx, "price sheet imported",
		"updated", result.UpdatedCount,
		"not_found", len(result.NotFound),
		"skipped", len(result.Skipped))
	return result, nil
}
