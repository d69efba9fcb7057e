package handlers

import (
	"github.com/gin-gonic/gin"

	appctx "catalisa/internal/core/context"
	"catalisa/internal/domain/dashboard"
	"catalisa/internal/infrastructure/http/v1/middleware"
)

// DashboardHandler handles the admin dashboard endpoint.
type DashboardHandler struct {
	*BaseHandler
	dashboard *dashboard.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(base *BaseHandler, svc *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: base,
		dashboard:   svc,
	}
}

// Stats handles GET /dashboard/stats (admin)
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, stats)
}

// RegisterRoutes registers dashboard routes.
func (h *DashboardHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/dashboard/stats", middleware.RequireRole(appctx.RoleAdmin), h.Stats)
}
