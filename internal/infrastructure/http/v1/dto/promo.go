package dto

import "catalisa/internal/domain/promo"

// BannerRequest creates or updates a promo banner. On update, absent fields
// keep their stored values.
type BannerRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	ImageURL        *string `json:"imageUrl"`
	ImageDesktopURL *string `json:"imageDesktopUrl"`
	ImageMobileURL  *string `json:"imageMobileUrl"`
	LinkURL         *string `json:"linkUrl"`
	SortOrder       *int    `json:"sortOrder"`
	Active          *bool   `json:"active"`
}

// Apply overlays the request onto a banner.
func (r BannerRequest) Apply(b *promo.Banner) {
	if r.Title != nil {
		b.Title = *r.Title
	}
	if r.Description != nil {
		b.Description = *r.Description
	}
	if r.ImageURL != nil {
		b.ImageURL = *r.ImageURL
	}
	if r.ImageDesktopURL != nil {
		b.ImageDesktopURL = *r.ImageDesktopURL
	}
	if r.ImageMobileURL != nil {
		b.ImageMobileURL = *r.ImageMobileURL
	}
	if r.LinkURL != nil {
		b.LinkURL = *r.LinkURL
	}
	if r.SortOrder != nil {
		b.SortOrder = *r.SortOrder
	}
	if r.Active != nil {
		b.Active = *r.Active
	}
}
