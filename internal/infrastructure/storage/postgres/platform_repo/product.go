package platform_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"catalisa/internal/core/apperror"
	"catalisa/internal/core/id"
	"catalisa/internal/domain/product"
	"catalisa/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

var productColumns = []string{
	"id", "name", "description", "brand", "category", "sku", "price",
	"images", "specifications", "metal_composition", "metal_summary",
	"internal_metals", "purchase_panel_style", "is_active",
	"created_at", "updated_at",
}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	base
}

// NewProductRepo creates a product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{base{txManager: txManager}}
}

func (r *ProductRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(productColumns...).From(productsTable)
}

// List returns products matching the filter, newest first.
func (r *ProductRepo) List(ctx context.Context, filter product.Filter) ([]product.Product, error) {
	q := r.baseSelect().OrderBy("created_at DESC")

	if !filter.IncludeInactive {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
			squirrel.ILike{"brand": pattern},
		})
	}
	if filter.MinPrice != nil {
		q = q.Where(squirrel.GtOrEq{"price": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		q = q.Where(squirrel.LtOrEq{"price": *filter.MaxPrice})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []product.Product
	if err := pgxscan.Select(ctx, r.querier(ctx), &products, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Get returns one product by id.
func (r *ProductRepo) Get(ctx context.Context, productID id.ID) (*product.Product, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"id": productID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.querier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetBySKU returns one product by SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"sku": sku}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.querier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", sku)
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return &p, nil
}

// Create inserts a product.
func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	q := r.builder().
		Insert(productsTable).
		Columns(productColumns...).
		Values(
			p.ID, p.Name, p.Description, p.Brand, p.Category, p.SKU, p.Price,
			p.Images, p.Specifications, p.MetalComposition, p.MetalSummary,
			p.InternalMetals, p.PurchasePanelStyle, p.IsActive,
			p.CreatedAt, p.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update rewrites a product row.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	q := r.builder().
		Update(productsTable).
		Set("name", p.Name).
		Set("description", p.Description).
		Set("brand", p.Brand).
		Set("category", p.Category).
		Set("sku", p.SKU).
		Set("price", p.Price).
		Set("images", p.Images).
		Set("specifications", p.Specifications).
		Set("metal_composition", p.MetalComposition).
		Set("metal_summary", p.MetalSummary).
		Set("internal_metals", p.InternalMetals).
		Set("purchase_panel_style", p.PurchasePanelStyle).
		Set("is_active", p.IsActive).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// SetActive flips the soft-delete flag.
func (r *ProductRepo) SetActive(ctx context.Context, productID id.ID, active bool) error {
	q := r.builder().
		Update(productsTable).
		Set("is_active", active).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	return nil
}

// Categories returns distinct categories of active products.
func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	sql := `SELECT DISTINCT category FROM products
		WHERE is_active = true AND category <> ''
		ORDER BY category`

	var categories []string
	if err := pgxscan.Select(ctx, r.querier(ctx), &categories, sql); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CountActive returns the number of active products.
func (r *ProductRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	err := pgxscan.Get(ctx, r.querier(ctx), &count,
		`SELECT count(*) FROM products WHERE is_active = true`)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}
