package platform_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"catalisa/internal/core/apperror"
	"catalisa/internal/core/id"
	"catalisa/internal/domain/order"
	"catalisa/internal/infrastructure/storage/postgres"
)

const ordersTable = "orders"

var orderColumns = []string{
	"id", "user_id", "items", "total_amount", "status", "notes", "admin_notes",
	"is_deleted", "deleted_at", "created_at", "updated_at",
}

// OrderRepo implements order.Repository.
type OrderRepo struct {
	base
}

// NewOrderRepo creates an order repository.
func NewOrderRepo(txManager *postgres.TxManager) *OrderRepo {
	return &OrderRepo{base{txManager: txManager}}
}

func (r *OrderRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(orderColumns...).From(ordersTable)
}

func (r *OrderRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]order.Order, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var orders []order.Order
	if err := pgxscan.Select(ctx, r.querier(ctx), &orders, sql, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListByUser returns the user's non-trashed orders, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID id.ID) ([]order.Order, error) {
	return r.list(ctx, r.baseSelect().
		Where(squirrel.Eq{"user_id": userID, "is_deleted": false}).
		OrderBy("created_at DESC"))
}

// ListAll returns every non-trashed order, newest first.
func (r *OrderRepo) ListAll(ctx context.Context) ([]order.Order, error) {
	return r.list(ctx, r.baseSelect().
		Where(squirrel.Eq{"is_deleted": false}).
		OrderBy("created_at DESC"))
}

// ListTrashed returns trashed orders, most recently trashed first.
func (r *OrderRepo) ListTrashed(ctx context.Context) ([]order.Order, error) {
	return r.list(ctx, r.baseSelect().
		Where(squirrel.Eq{"is_deleted": true}).
		OrderBy("deleted_at DESC"))
}

// Get returns one order.
func (r *OrderRepo) Get(ctx context.Context, orderID id.ID) (*order.Order, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"id": orderID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var o order.Order
	if err := pgxscan.Get(ctx, r.querier(ctx), &o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", orderID)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// Create inserts an order.
func (r *OrderRepo) Create(ctx context.Context, o *order.Order) error {
	q := r.builder().
		Insert(ordersTable).
		Columns(orderColumns...).
		Values(
			o.ID, o.UserID, o.Items, o.TotalAmount, o.Status, o.Notes,
			o.AdminNotes, o.IsDeleted, o.DeletedAt, o.CreatedAt, o.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Update rewrites an order row.
func (r *OrderRepo) Update(ctx context.Context, o *order.Order) error {
	q := r.builder().
		Update(ordersTable).
		Set("items", o.Items).
		Set("total_amount", o.TotalAmount).
		Set("status", o.Status).
		Set("notes", o.Notes).
		Set("admin_notes", o.AdminNotes).
		Set("is_deleted", o.IsDeleted).
		Set("deleted_at", o.DeletedAt).
		Set("updated_at", o.UpdatedAt).
		Where(squirrel.Eq{"id": o.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// HardDelete removes an order row permanently.
func (r *OrderRepo) HardDelete(ctx context.Context, orderID id.ID) error {
	sql, args, err := r.builder().
		Delete(ordersTable).
		Where(squirrel.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("hard delete order: %w", err)
	}
	return nil
}

// CountAll counts non-trashed orders.
func (r *OrderRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := pgxscan.Get(ctx, r.querier(ctx), &count,
		`SELECT count(*) FROM orders WHERE is_deleted = false`)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// CountByStatus aggregates non-trashed orders per status.
func (r *OrderRepo) CountByStatus(ctx context.Context) ([]order.StatusCount, error) {
	var rows []order.StatusCount
	err := pgxscan.Select(ctx, r.querier(ctx), &rows,
		`SELECT status, count(*) AS count FROM orders
		 WHERE is_deleted = false GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	return rows, nil
}

// ConfirmedRevenue sums total_amount over confirmed, non-trashed orders.
func (r *OrderRepo) ConfirmedRevenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := pgxscan.Get(ctx, r.querier(ctx), &revenue,
		`SELECT COALESCE(sum(total_amount), 0) FROM orders
		 WHERE is_deleted = false AND status = $1`, order.StatusConfirmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("confirmed revenue: %w", err)
	}
	return revenue, nil
}

// Recent returns the newest non-trashed orders.
func (r *OrderRepo) Recent(ctx context.Context, limit int) ([]order.Order, error) {
	return r.list(ctx, r.baseSelect().
		Where(squirrel.Eq{"is_deleted": false}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)))
}

// CountSince counts non-trashed orders created after a point in time.
func (r *OrderRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := pgxscan.Get(ctx, r.querier(ctx), &count,
		`SELECT count(*) FROM orders WHERE is_deleted = false AND created_at >= $1`, since)
	if err != nil {
		return 0, fmt.Errorf("count orders since: %w", err)
	}
	return count, nil
}
