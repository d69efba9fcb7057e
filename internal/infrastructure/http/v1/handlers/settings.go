package handlers

import (
	"github.com/gin-gonic/gin"

	appctx "catalisa/internal/core/context"
	"catalisa/internal/domain/settings"
	"catalisa/internal/infrastructure/http/v1/middleware"
)

// SettingsHandler handles metal pricing settings endpoints.
type SettingsHandler struct {
	*BaseHandler
	settings *settings.Service
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(base *BaseHandler, svc *settings.Service) *SettingsHandler {
	return &SettingsHandler{
		BaseHandler: base,
		settings:    svc,
	}
}

// Get handles GET /settings/metal-pricing (admin)
func (h *SettingsHandler) Get(c *gin.Context) {
	doc, err := h.settings.Get(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// Update handles PUT /settings/metal-pricing (admin). Unless the payload
// opts out, the whole catalog is repriced after the rates are stored.
func (h *SettingsHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var req settings.UpdateInput
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.settings.Update(ctx, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// RegisterRoutes registers settings routes.
func (h *SettingsHandler) RegisterRoutes(protected *gin.RouterGroup) {
	admin := middleware.RequireRole(appctx.RoleAdmin)
	protected.GET("/settings/metal-pricing", admin, h.Get)
	protected.PUT("/settings/metal-pricing", admin, h.Update)
}
