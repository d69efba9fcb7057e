package dto

import (
	"github.com/shopspring/decimal"

	"catalisa/internal/domain/partnerlevel"
)

// LevelRequest creates or updates a markup tier. On update, absent fields
// keep their stored values.
type LevelRequest struct {
	Name        *string          `json:"name"`
	Percentage  *decimal.Decimal `json:"percentage"`
	Description *string          `json:"description"`
	IsDefault   *bool            `json:"isDefault"`
}

// Apply overlays the request onto a level.
func (r LevelRequest) Apply(level *partnerlevel.Level) {
	if r.Name != nil {
		level.Name = *r.Name
	}
	if r.Percentage != nil {
		level.Percentage = *r.Percentage
	}
	if r.Description != nil {
		level.Description = *r.Description
	}
	if r.IsDefault != nil {
		level.IsDefault = *r.IsDefault
	}
}
