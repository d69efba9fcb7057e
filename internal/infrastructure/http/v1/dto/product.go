package dto

import (
	appctx "catalisa/internal/core/context"
	"catalisa/internal/domain/product"
	"catalisa/internal/pricing"
)

// ProductResponse is a catalog item with the requesting user's projected
// price. Price carries the user-specific value; BasePrice and the level
// fields appear only for partner viewers.
type ProductResponse struct {
	product.Product

	Price           pricing.Number  `json:"price"`
	BasePrice       *pricing.Number `json:"basePrice,omitempty"`
	LevelPercentage *pricing.Number `json:"levelPercentage,omitempty"`
	LevelName       *string         `json:"levelName,omitempty"`

	MetalComposition []pricing.ResolvedLine `json:"metalComposition"`
}

// NewProductResponse projects a product for a viewer.
func NewProductResponse(p *product.Product, user *appctx.UserContext) ProductResponse {
	view := pricing.ComputePriceForUser(p.Price, user)

	resp := ProductResponse{
		Product:          *p,
		Price:            view.Price,
		MetalComposition: pricing.BuildTechnicalSheet(p.MetalComposition),
	}
	// Reference metal quantities are procurement data; only admins see them.
	if !user.IsAdmin() {
		resp.InternalMetals = nil
	}
	if user.IsPartner() {
		base := view.BasePrice
		resp.BasePrice = &base
		resp.LevelPercentage = view.LevelPercentage
		resp.LevelName = view.LevelName
	}
	return resp
}

// NewProductListResponse projects a product slice for a viewer.
func NewProductListResponse(products []product.Product, user *appctx.UserContext) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i], user))
	}
	return out
}
