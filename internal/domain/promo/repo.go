package promo

import (
	"context"

	"catalisa/internal/core/id"
)

// Repository defines banner persistence.
type Repository interface {
	// ListActive returns active banners ordered by sort order.
	ListActive(ctx context.Context) ([]Banner, error)

	// ListAll returns every banner, active or not.
	ListAll(ctx context.Context) ([]Banner, error)

	Get(ctx context.Context, bannerID id.ID) (*Banner, error)
	Create(ctx context.Context, b *Banner) error
	Update(ctx context.Context, b *Banner) error
	Delete(ctx context.Context, bannerID id.ID) error
}
