package platform_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"catalisa/internal/core/apperror"
	"catalisa/internal/core/id"
	"catalisa/internal/domain/promo"
	"catalisa/internal/infrastructure/storage/postgres"
)

const promosTable = "promo_banners"

var promoColumns = []string{
	"id", "title", "description", "image_url", "image_desktop_url",
	"image_mobile_url", "link_url", "sort_order", "active",
	"created_at", "updated_at",
}

// PromoRepo implements promo.Repository.
type PromoRepo struct {
	base
}

// NewPromoRepo creates a promo banner repository.
func NewPromoRepo(txManager *postgres.TxManager) *PromoRepo {
	return &PromoRepo{base{txManager: txManager}}
}

func (r *PromoRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(promoColumns...).From(promosTable)
}

func (r *PromoRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]promo.Banner, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var banners []promo.Banner
	if err := pgxscan.Select(ctx, r.querier(ctx), &banners, sql, args...); err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return banners, nil
}

// ListActive returns active banners in display order.
func (r *PromoRepo) ListActive(ctx context.Context) ([]promo.Banner, error) {
	return r.list(ctx, r.baseSelect().
		Where(squirrel.Eq{"active": true}).
		OrderBy("sort_order ASC", "created_at ASC"))
}

// ListAll returns every banner in display order.
func (r *PromoRepo) ListAll(ctx context.Context) ([]promo.Banner, error) {
	return r.list(ctx, r.baseSelect().OrderBy("sort_order ASC", "created_at ASC"))
}

// Get returns one banner.
func (r *PromoRepo) Get(ctx context.Context, bannerID id.ID) (*promo.Banner, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"id": bannerID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b promo.Banner
	if err := pgxscan.Get(ctx, r.querier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("promo banner", bannerID)
		}
		return nil, fmt.Errorf("get banner: %w", err)
	}
	return &b, nil
}

// Create inserts a banner.
func (r *PromoRepo) Create(ctx context.Context, b *promo.Banner) error {
	q := r.builder().
		Insert(promosTable).
		Columns(promoColumns...).
		Values(
			b.ID, b.Title, b.Description, b.ImageURL, b.ImageDesktopURL,
			b.ImageMobileURL, b.LinkURL, b.SortOrder, b.Active,
			b.CreatedAt, b.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert banner: %w", err)
	}
	return nil
}

// Update rewrites a banner row.
func (r *PromoRepo) Update(ctx context.Context, b *promo.Banner) error {
	q := r.builder().
		Update(promosTable).
		Set("title", b.Title).
		Set("description", b.Description).
		Set("image_url", b.ImageURL).
		Set("image_desktop_url", b.ImageDesktopURL).
		Set("image_mobile_url", b.ImageMobileURL).
		Set("link_url", b.LinkURL).
		Set("sort_order", b.SortOrder).
		Set("active", b.Active).
		Set("updated_at", b.UpdatedAt).
		Where(squirrel.Eq{"id": b.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update banner: %w", err)
	}
	return nil
}

// Delete removes a banner row.
func (r *PromoRepo) Delete(ctx context.Context, bannerID id.ID) error {
	sql, args, err := r.builder().
		Delete(promosTable).
		Where(squirrel.Eq{"id": bannerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	return nil
}
