package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appctx "catalisa/internal/core/context"
	"catalisa/internal/domain/partnerlevel"
	"catalisa/internal/infrastructure/http/v1/dto"
	"catalisa/internal/infrastructure/http/v1/middleware"
)

// PartnerLevelHandler handles markup tier endpoints.
type PartnerLevelHandler struct {
	*BaseHandler
	levels *partnerlevel.Service
}

// NewPartnerLevelHandler creates a new partner level handler.
func NewPartnerLevelHandler(base *BaseHandler, levels *partnerlevel.Service) *PartnerLevelHandler {
	return &PartnerLevelHandler{
		BaseHandler: base,
		levels:      levels,
	}
}

// List handles GET /partner-levels. Seeds the default tiers on first call.
func (h *PartnerLevelHandler) List(c *gin.Context) {
	items, err := h.levels.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}

// Create handles POST /partner-levels (admin)
func (h *PartnerLevelHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LevelRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var level partnerlevel.Level
	req.Apply(&level)

	if err := h.levels.Create(ctx, &level); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, level)
}

// Update handles PUT /partner-levels/:id (admin)
func (h *PartnerLevelHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	levelID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.LevelRequest
	if !h.BindJSON(c, &req) {
		return
	}

	level, err := h.levels.Get(ctx, levelID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.Apply(level)

	if err := h.levels.Update(ctx, level); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, level)
}

// Delete handles DELETE /partner-levels/:id?force=true (admin). Without
// force, a tier with assigned partners is refused.
func (h *PartnerLevelHandler) Delete(c *gin.Context) {
	levelID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	force := c.Query("force") == "true"

	if err := h.levels.Delete(c.Request.Context(), levelID, force); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers partner level routes.
func (h *PartnerLevelHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/partner-levels", h.List)

	admin := middleware.RequireRole(appctx.RoleAdmin)
	protected.POST("/partner-levels", admin, h.Create)
	protected.PUT("/partner-levels/:id", admin, h.Update)
	protected.DELETE("/partner-levels/:id", admin, h.Delete)
}
