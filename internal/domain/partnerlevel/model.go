// Package partnerlevel provides the partner markup tiers: named percentage
// levels assigned to partner users, one of which is the default for new
// registrations.
package partnerlevel

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"catalisa/internal/core/apperror"
	"catalisa/internal/core/id"
)

// FallbackPercentage is the markup applied when no level exists at all.
var FallbackPercentage = decimal.NewFromInt(35)

// Level is one markup tier.
type Level struct {
	ID          id.ID           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Percentage  decimal.Decimal `db:"percentage" json:"percentage"`
	Description string          `db:"description" json:"description"`
	IsDefault   bool            `db:"is_default" json:"isDefault"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// Validate checks level fields.
func (l *Level) Validate(ctx context.Context) error {
	if l.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if l.Percentage.IsNegative() || l.Percentage.GreaterThan(decimal.NewFromInt(500)) {
		return apperror.NewValidation("percentage must be between 0 and 500").
			WithDetail("field", "percentage").
			WithDetail("value", l.Percentage)
	}
	return nil
}

// DefaultLevels are seeded when the table is empty.
func DefaultLevels() []Level {
	now := time.Now().UTC()
	mk := func(name string, pct int64, isDefault bool) Level {
		return Level{
			ID:         id.New(),
			Name:       name,
			Percentage: decimal.NewFromInt(pct),
			IsDefault:  isDefault,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}
	return []Level{
		mk("Nível 1", 20, true),
		mk("Nível 2", 30, false),
		mk("Nível 3", 40, false),
	}
}
