// Package order provides partner purchase orders. Item prices are snapshots
// of the partner projection at creation time; later rate or level changes
// never touch a placed order.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"catalisa/internal/core/apperror"
	"catalisa/internal/core/id"
)

// Status values for an order.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusRejected
}

// Item is one ordered product with its price snapshot.
type Item struct {
	ProductID  id.ID           `json:"productId"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// Order is one partner purchase order.
type Order struct {
	ID          id.ID           `db:"id" json:"id"`
	UserID      id.ID           `db:"user_id" json:"userId"`
	Items       []Item          `db:"items" json:"items"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"totalAmount"`
	Status      string          `db:"status" json:"status"`
	Notes       string          `db:"notes" json:"notes"`
	AdminNotes  string          `db:"admin_notes" json:"adminNotes"`
	IsDeleted   bool            `db:"is_deleted" json:"isDeleted"`
	DeletedAt   *time.Time      `db:"deleted_at" json:"deletedAt,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// Validate checks order fields.
func (o *Order) Validate(ctx context.Context) error {
	if len(o.Items) == 0 {
		return apperror.NewValidation("order must contain at least one item").
			WithDetail("field", "items")
	}
	for i, item := range o.Items {
		if item.Quantity <= 0 {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("index", i)
		}
	}
	if !ValidStatus(o.Status) {
		return apperror.NewValidation("invalid order status").
			WithDetail("field", "status").
			WithDetail("value", o.Status)
	}
	return nil
}
