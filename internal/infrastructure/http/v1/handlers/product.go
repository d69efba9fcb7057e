package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"catalisa/internal/core/apperror"
	appctx "catalisa/internal/core/context"
	"catalisa/internal/domain/product"
	"catalisa/internal/infrastructure/http/v1/dto"
	"catalisa/internal/infrastructure/http/v1/middleware"
	"catalisa/internal/infrastructure/sheet"
)

// maxPriceSheetSize limits uploaded workbook size.
const maxPriceSheetSize = 10 << 20

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	*BaseHandler
	products *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, products *product.Service) *ProductHandler {
	return &ProductHandler{
		BaseHandler: base,
		products:    products,
	}
}

// List handles GET /products. Auth is optional: anonymous viewers get base
// prices, partners get their markup applied.
func (h *ProductHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := h.User(c)

	filter := product.Filter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if viewer.IsAdmin() {
		filter.IncludeInactive = c.Query("includeInactive") == "true"
	}

	var ok bool
	if filter.MinPrice, ok = h.parsePriceQuery(c, "minPrice"); !ok {
		return
	}
	if filter.MaxPrice, ok = h.parsePriceQuery(c, "maxPrice"); !ok {
		return
	}

	items, err := h.products.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": dto.NewProductListResponse(items, viewer)})
}

// Categories handles GET /products/categories
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.products.Categories(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": categories})
}

// GetBySKU handles GET /products/sku/:sku
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	p, err := h.products.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewProductResponse(p, h.User(c)))
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.products.Get(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewProductResponse(p, h.User(c)))
}

// Create handles POST /products (admin)
func (h *ProductHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req product.Input
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.products.Create(ctx, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewProductResponse(p, h.User(c)))
}

// Update handles PUT /products/:id (admin)
func (h *ProductHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req product.Input
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.products.Update(ctx, productID, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewProductResponse(p, h.User(c)))
}

// Delete handles DELETE /products/:id (admin) - soft delete.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.products.SoftDelete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RecalculateMetals handles POST /products/recalculate-metals (admin).
// Reprices the whole catalog against current settings.
func (h *ProductHandler) RecalculateMetals(c *gin.Context) {
	updated, err := h.products.Recalculate(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"updatedCount": updated})
}

// ExportPriceSheet handles GET /products/price-sheet (admin) - xlsx download.
func (h *ProductHandler) ExportPriceSheet(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.products.List(ctx, product.Filter{IncludeInactive: true})
	if err != nil {
		h.Error(c, err)
		return
	}

	file, err := sheet.Export(items)
	if err != nil {
		h.Error(c, err)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("price-sheet-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)

	if err := file.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// ImportPriceSheet handles POST /products/price-sheet (admin) - xlsx upload
// applying price overrides by SKU.
func (h *ProductHandler) ImportPriceSheet(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("file is required").WithDetail("error", err.Error()))
		return
	}
	if fileHeader.Size > maxPriceSheetSize {
		h.Error(c, apperror.NewValidation("file too large"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.Error(c, apperror.NewValidation("cannot read uploaded file").WithDetail("error", err.Error()))
		return
	}
	defer f.Close()

	rows, err := sheet.ParsePriceSheet(f)
	if err != nil {
		h.Error(c, err)
		return
	}

	overrides := make([]product.PriceOverride, 0, len(rows))
	for _, row := range rows {
		overrides = append(overrides, product.PriceOverride{
			SKU:   row.SKU,
			Price: row.Price,
		})
	}

	result, err := h.products.ApplyPriceOverrides(ctx, overrides)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// parsePriceQuery parses an optional decimal query parameter.
func (h *ProductHandler) parsePriceQuery(c *gin.Context, key string) (*decimal.Decimal, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+key).WithDetail(key, raw))
		return nil, false
	}
	return &parsed, true
}

// RegisterRoutes registers catalog routes. Reads go on the optional-auth
// group so anonymous visitors can browse; writes require admin.
func (h *ProductHandler) RegisterRoutes(browse, protected *gin.RouterGroup) {
	browse.GET("/products", h.List)
	browse.GET("/products/categories", h.Categories)
	browse.GET("/products/sku/:sku", h.GetBySKU)

	admin := middleware.RequireRole(appctx.RoleAdmin)
	protected.POST("/products", admin, h.Create)
	protected.POST("/products/recalculate-metals", admin, h.RecalculateMetals)
	protected.GET("/products/price-sheet", admin, h.ExportPriceSheet)
	protected.POST("/products/price-sheet", admin, h.ImportPriceSheet)
	protected.PUT("/products/:id", admin, h.Update)
	protected.DELETE("/products/:id", admin, h.Delete)

	browse.GET("/products/:id", h.Get)
}
