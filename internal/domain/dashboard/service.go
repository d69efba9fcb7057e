// Package dashboard aggregates the admin overview numbers.
package dashboard

import (
	"context"

	"github.com/shopspring/decimal"

	"catalisa/internal/domain/message"
	"catalisa/internal/domain/order"
	"catalisa/internal/domain/product"
	"catalisa/internal/domain/user"
	"catalisa/internal/pricing"
)

const recentLimit = 5

// Stats is the admin dashboard payload.
type Stats struct {
	TotalProducts    int               `json:"totalProducts"`
	TotalOrders      int               `json:"totalOrders"`
	PendingOrders    int               `json:"pendingOrders"`
	PartnerUsers     int               `json:"partnerUsers"`
	UnreadMessages   int               `json:"unreadMessages"`
	StatusBreakdown  map[string]int    `json:"statusBreakdown"`
	ConfirmedRevenue pricing.Number    `json:"confirmedRevenue"`
	RecentOrders     []order.Order     `json:"recentOrders"`
	RecentMessages   []message.Message `json:"recentMessages"`
}

// Service computes dashboard stats from the entity repositories.
type Service struct {
	products product.Repository
	orders   order.Repository
	users    user.Repository
	messages message.Repository
}

// NewService creates a dashboard service.
func NewService(products product.Repository, orders order.Repository, users user.Repository, messages message.Repository) *Service {
	return &Service{products: products, orders: orders, users: users, messages: messages}
}

// Stats gathers the admin overview. Trashed orders are excluded everywhere.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		StatusBreakdown: map[string]int{
			order.StatusPending:   0,
			order.StatusConfirmed: 0,
			order.StatusRejected:  0,
		},
		ConfirmedRevenue: pricing.NewNumber(decimal.Zero),
	}

	var err error
	if stats.TotalProducts, err = s.products.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = s.orders.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.PartnerUsers, err = s.users.CountPartners(ctx); err != nil {
		return nil, err
	}
	if stats.UnreadMessages, err = s.messages.CountUnreadForAdmins(ctx); err != nil {
		return nil, err
	}

	breakdown, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range breakdown {
		stats.StatusBreakdown[row.Status] = row.Count
	}
	stats.PendingOrders = stats.StatusBreakdown[order.StatusPending]

	revenue, err := s.orders.ConfirmedRevenue(ctx)
	if err != nil {
		return nil, err
	}
	stats.ConfirmedRevenue = pricing.NewNumber(pricing.RoundMoney(revenue))

	if stats.RecentOrders, err = s.orders.Recent(ctx, recentLimit); err != nil {
		return nil, err
	}
	if stats.RecentMessages, err = s.messages.RecentForAdmins(ctx, recentLimit); err != nil {
		return nil, err
	}

	return stats, nil
}
