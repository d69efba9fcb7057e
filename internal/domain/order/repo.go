package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"catalisa/internal/core/id"
)

// StatusCount is one row of the status breakdown aggregation.
type StatusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

// Repository defines order persistence.
type Repository interface {
	ListByUser(ctx context.Context, userID id.ID) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListTrashed(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, orderID id.ID) (*Order, error)
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	HardDelete(ctx context.Context, orderID id.ID) error

	// Aggregations for the admin dashboard. All of them ignore trashed
	// orders.
	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	ConfirmedRevenue(ctx context.Context) (decimal.Decimal, error)
	Recent(ctx context.Context, limit int) ([]Order, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}
