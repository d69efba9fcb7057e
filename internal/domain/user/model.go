// Package user provides platform accounts: admins and partners. Partners
// carry the markup inputs (custom percentage or assigned level) that drive
// the price projection.
package user

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"catalisa/internal/core/apperror"
	appctx "catalisa/internal/core/context"
	"catalisa/internal/core/id"
)

// User is a platform account.
type User struct {
	ID                id.ID            `db:"id" json:"id"`
	Name              string           `db:"name" json:"name"`
	Email             string           `db:"email" json:"email"`
	PasswordHash      string           `db:"password_hash" json:"-"`
	Phone             string           `db:"phone" json:"phone"`
	Company           string           `db:"company" json:"company"`
	Role              string           `db:"role" json:"role"`
	PartnerPercentage *decimal.Decimal `db:"partner_percentage" json:"partnerPercentage,omitempty"`
	PartnerLevelID    *id.ID           `db:"partner_level_id" json:"partnerLevelId,omitempty"`
	IsActive          bool             `db:"is_active" json:"isActive"`
	CreatedAt         time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == appctx.RoleAdmin
}

// Validate checks account fields.
func (u *User) Validate(ctx context.Context) error {
	if strings.TrimSpace(u.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if !strings.Contains(u.Email, "@") {
		return apperror.NewValidation("email is invalid").WithDetail("field", "email")
	}
	if u.Role != appctx.RoleAdmin && u.Role != appctx.RolePartner {
		return apperror.NewValidation("role must be admin or partner").
			WithDetail("field", "role").
			WithDetail("value", u.Role)
	}
	if u.PartnerPercentage != nil {
		pct := *u.PartnerPercentage
		if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(500)) {
			return apperror.NewValidation("partner percentage must be between 0 and 500").
				WithDetail("field", "partnerPercentage")
		}
	}
	return nil
}

// NormalizeEmail canonicalizes an email for lookups and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
