package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appctx "catalisa/internal/core/context"
	"catalisa/internal/domain/promo"
	"catalisa/internal/infrastructure/http/v1/dto"
	"catalisa/internal/infrastructure/http/v1/middleware"
)

// PromoHandler handles promo banner endpoints.
type PromoHandler struct {
	*BaseHandler
	promos *promo.Service
}

// NewPromoHandler creates a new promo handler.
func NewPromoHandler(base *BaseHandler, promos *promo.Service) *PromoHandler {
	return &PromoHandler{
		BaseHandler: base,
		promos:      promos,
	}
}

// ListActive handles GET /promos - public, active banners in display order.
func (h *PromoHandler) ListActive(c *gin.Context) {
	items, err := h.promos.ListActive(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}

// ListAll handles GET /promos/all (admin)
func (h *PromoHandler) ListAll(c *gin.Context) {
	items, err := h.promos.ListAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}

// Create handles POST /promos (admin). New banners are active unless the
// payload says otherwise.
func (h *PromoHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.BannerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	banner := promo.Banner{Active: true}
	req.Apply(&banner)

	if err := h.promos.Create(ctx, &banner); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, banner)
}

// Update handles PUT /promos/:id (admin)
func (h *PromoHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	bannerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.BannerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	banner, err := h.promos.Get(ctx, bannerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.Apply(banner)

	if err := h.promos.Update(ctx, banner); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, banner)
}

// Delete handles DELETE /promos/:id (admin)
func (h *PromoHandler) Delete(c *gin.Context) {
	bannerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.promos.Delete(c.Request.Context(), bannerID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers promo routes.
func (h *PromoHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/promos", h.ListActive)

	admin := middleware.RequireRole(appctx.RoleAdmin)
	protected.GET("/promos/all", admin, h.ListAll)
	protected.POST("/promos", admin, h.Create)
	protected.PUT("/promos/:id", admin, h.Update)
	protected.DELETE("/promos/:id", admin, h.Delete)
}
