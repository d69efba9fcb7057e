package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appctx "catalisa/internal/core/context"
	"catalisa/internal/domain/order"
	"catalisa/internal/infrastructure/http/v1/middleware"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	*BaseHandler
	orders *order.Service
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, orders *order.Service) *OrderHandler {
	return &OrderHandler{
		BaseHandler: base,
		orders:      orders,
	}
}

// Create handles POST /orders. Item prices are snapshotted with the
// requester's markup at creation time.
func (h *OrderHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	requester, ok := h.RequireUser(c)
	if !ok {
		return
	}

	var req order.CreateInput
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.orders.Create(ctx, requester, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, o)
}

// ListOwn handles GET /orders - the requester's own orders.
func (h *OrderHandler) ListOwn(c *gin.Context) {
	ctx := c.Request.Context()

	requester, ok := h.RequireUser(c)
	if !ok {
		return
	}

	items, err := h.orders.ListOwn(ctx, requester)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}

// ListAll handles GET /orders/all (admin)
func (h *OrderHandler) ListAll(c *gin.Context) {
	items, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}

// ListTrash handles GET /orders/trash (admin)
func (h *OrderHandler) ListTrash(c *gin.Context) {
	items, err := h.orders.ListTrash(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}

// Get handles GET /orders/:id - owner or admin.
func (h *OrderHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	requester, ok := h.RequireUser(c)
	if !ok {
		return
	}

	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	o, err := h.orders.Get(ctx, requester, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, o)
}

// UpdateStatus handles PUT /orders/:id/status (admin)
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := h.RequireUser(c)
	if !ok {
		return
	}

	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req order.StatusUpdate
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.orders.UpdateStatus(ctx, actor, orderID, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, o)
}

// Trash handles PUT /orders/:id/trash (admin)
func (h *OrderHandler) Trash(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	o, err := h.orders.Trash(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, o)
}

// Restore handles PUT /orders/:id/restore (admin)
func (h *OrderHandler) Restore(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	o, err := h.orders.Restore(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, o)
}

// HardDelete handles DELETE /orders/:id (admin) - only trashed orders.
func (h *OrderHandler) HardDelete(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.orders.HardDelete(c.Request.Context(), orderID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers order routes.
func (h *OrderHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/orders", h.Create)
	protected.GET("/orders", h.ListOwn)
	protected.GET("/orders/:id", h.Get)

	admin := middleware.RequireRole(appctx.RoleAdmin)
	protected.GET("/orders/all", admin, h.ListAll)
	protected.GET("/orders/trash", admin, h.ListTrash)
	protected.PUT("/orders/:id/status", admin, h.UpdateStatus)
	protected.PUT("/orders/:id/trash", admin, h.Trash)
	protected.PUT("/orders/:id/restore", admin, h.Restore)
	protected.DELETE("/orders/:id", admin, h.HardDelete)
}
