// Package promo provides promotional banners shown on the storefront.
package promo

import (
	"context"
	"strings"
	"time"

	"catalisa/internal/core/apperror"
	"catalisa/internal/core/id"
)

// Banner is one promotional banner.
type Banner struct {
	ID              id.ID     `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	ImageURL        string    `db:"image_url" json:"imageUrl"`
	ImageDesktopURL string    `db:"image_desktop_url" json:"imageDesktopUrl"`
	ImageMobileURL  string    `db:"image_mobile_url" json:"imageMobileUrl"`
	LinkURL         string    `db:"link_url" json:"linkUrl"`
	SortOrder       int       `db:"sort_order" json:"sortOrder"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks banner fields.
func (b *Banner) Validate(ctx context.Context) error {
	if strings.TrimSpace(b.Title) == "" {
		return apperror.NewValidation("title is required").WithDetail("field", "title")
	}
	return nil
}
