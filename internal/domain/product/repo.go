package product

import (
	"context"

	"github.com/shopspring/decimal"

	"catalisa/internal/core/id"
)

// Filter narrows catalog listings. Zero values mean "no constraint".
type Filter struct {
	Category        string
	Search          string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	IncludeInactive bool
}

// Repository defines product persistence.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Product, error)
	Get(ctx context.Context, productID id.ID) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	SetActive(ctx context.Context, productID id.ID, active bool) error

	// Categories returns the distinct category names of active products.
	Categories(ctx context.Context) ([]string, error)

	// CountActive returns the number of active products.
	CountActive(ctx context.Context) (int, error)
}
