package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"catalisa/internal/core/apperror"
	appctx "catalisa/internal/core/context"
	"catalisa/internal/core/id"
	"catalisa/internal/core/tx"
	"catalisa/internal/domain/message"
	"catalisa/internal/domain/product"
	"catalisa/internal/domain/user"
	"catalisa/internal/pricing"
	"catalisa/pkg/logger"
)

// ItemInput is one requested order line.
type ItemInput struct {
	ProductID id.ID `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CreateInput is the order creation payload.
type CreateInput struct {
	Items []ItemInput `json:"items"`
	Notes string      `json:"notes"`
}

// StatusUpdate is the admin status transition payload.
type StatusUpdate struct {
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes"`
}

// Service provides order business logic.
type Service struct {
	repo      Repository
	products  *product.Service
	users     *user.Service
	messages  *message.Service
	txManager tx.Manager
}

// NewService creates an order service.
func NewService(repo Repository, products *product.Service, users *user.Service, messages *message.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		users:     users,
		messages:  messages,
		txManager: txManager,
	}
}

// Create places an order for the requesting partner. Each item snapshots the
// partner-projected unit price at this moment. Admins get a notification
// message linked to the order.
func (s *Service) Create(ctx context.Context, requester *appctx.UserContext, input CreateInput) (*Order, error) {
	if requester == nil {
		return nil, apperror.NewUnauthorized("authentication required")
	}
	userID, err := id.Parse(requester.UserID)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid user id")
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewValidation("order must contain at least one item").
			WithDetail("field", "items")
	}

	now := time.Now().UTC()
	o := &Order{
		ID:        id.New(),
		UserID:    userID,
		Status:    StatusPending,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	total := decimal.Zero
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewValidation("item quantity must be positive").
				WithDetail("index", i)
		}
		p, err := s.products.Get(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"product is no longer available").
				WithDetail("productId", item.ProductID)
		}

		view := pricing.ComputePriceForUser(p.Price, requester)
		lineTotal := pricing.RoundMoney(view.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		total = total.Add(lineTotal)

		o.Items = append(o.Items, Item{
			ProductID:  p.ID,
			SKU:        p.SKU,
			Name:       p.Name,
			Quantity:   item.Quantity,
			UnitPrice:  view.Price.Decimal,
			TotalPrice: lineTotal,
		})
	}
	o.TotalAmount = pricing.RoundMoney(total)

	if err := o.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.notifyAdmins(ctx, o, requester)
	logger.Info(ctx, "order created", "order_id", o.ID, "items", len(o.Items), "total", o.TotalAmount)
	return o, nil
}

// notifyAdmins posts an order notification to every admin inbox.
func (s *Service) notifyAdmins(ctx context.Context, o *Order, requester *appctx.UserContext) {
	adminIDs, err := s.users.AdminIDs(ctx)
	if err != nil {
		logger.Error(ctx, "admin lookup for order notification failed", "error", err)
		return
	}
	orderID := o.ID
	s.messages.Broadcast(ctx, o.UserID, adminIDs, &orderID,
		"Novo pedido recebido",
		fmt.Sprintf("%s criou o pedido %s no valor de R$ %s.",
			requester.Name, o.ID, o.TotalAmount.StringFixed(2)))
}

// Get returns one order. Partners only see their own.
func (s *Service) Get(ctx context.Context, requester *appctx.UserContext, orderID id.ID) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin() && o.UserID.String() != requester.UserID {
		return nil, apperror.NewForbidden("cannot access another user's order")
	}
	return o, nil
}

// ListOwn returns the requester's orders.
func (s *Service) ListOwn(ctx context.Context, requester *appctx.UserContext) ([]Order, error) {
	userID, err := id.Parse(requester.UserID)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid user id")
	}
	return s.repo.ListByUser(ctx, userID)
}

// ListAll returns every non-trashed order.
func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}

// ListTrash returns trashed orders.
func (s *Service) ListTrash(ctx context.Context) ([]Order, error) {
	return s.repo.ListTrashed(ctx)
}

// UpdateStatus transitions an order and notifies its owner.
func (s *Service) UpdateStatus(ctx context.Context, actor *appctx.UserContext, orderID id.ID, input StatusUpdate) (*Order, error) {
	if !ValidStatus(input.Status) {
		return nil, apperror.NewValidation("invalid order status").
			WithDetail("field", "status").
			WithDetail("value", input.Status)
	}

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.IsDeleted {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"cannot change status of a trashed order")
	}

	previous := o.Status
	o.Status = input.Status
	if input.AdminNotes != "" {
		o.AdminNotes = input.AdminNotes
	}
	o.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if previous != o.Status {
		s.notifyStatusChange(ctx, o, actor)
	}
	return o, nil
}

func (s *Service) notifyStatusChange(ctx context.Context, o *Order, actor *appctx.UserContext) {
	senderID := o.UserID
	if actor != nil {
		if parsed, err := id.Parse(actor.UserID); err == nil {
			senderID = parsed
		}
	}
	orderID := o.ID
	if _, err := s.messages.Send(ctx, senderID, o.UserID, &orderID,
		"Atualização do pedido",
		fmt.Sprintf("O status do pedido %s mudou para %s.", o.ID, o.Status)); err != nil {
		logger.Error(ctx, "status notification failed", "order_id", o.ID, "error", err)
	}
}

// Trash soft-deletes an order.
func (s *Service) Trash(ctx context.Context, orderID id.ID) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.IsDeleted {
		return o, nil
	}
	now := time.Now().UTC()
	o.IsDeleted = true
	o.DeletedAt = &now
	o.UpdatedAt = now
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Restore brings a trashed order back.
func (s *Service) Restore(ctx context.Context, orderID id.ID) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsDeleted {
		return o, nil
	}
	o.IsDeleted = false
	o.DeletedAt = nil
	o.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// HardDelete permanently removes an order. Only trashed orders qualify.
func (s *Service) HardDelete(ctx context.Context, orderID id.ID) error {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if !o.IsDeleted {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"order must be trashed before permanent deletion")
	}
	return s.repo.HardDelete(ctx, orderID)
}
