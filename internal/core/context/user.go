// Package context provides request-scoped values extraction.
package context

import (
	"context"

	"github.com/shopspring/decimal"
)

// Role values for platform users.
const (
	RoleAdmin   = "admin"
	RolePartner = "partner"
)

// PartnerLevelRef is the markup tier attached to a partner user.
type PartnerLevelRef struct {
	ID         string
	Name       string
	Percentage decimal.Decimal
}

// UserContext contains authenticated user information.
// PartnerPercentage and PartnerLevel feed the partner price projection:
// the level percentage wins when both are present.
type UserContext struct {
	UserID            string
	Email             string
	Name              string
	Role              string
	PartnerPercentage *decimal.Decimal
	PartnerLevel      *PartnerLevelRef
}

// IsAdmin reports whether the user has the admin role.
func (u *UserContext) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsPartner reports whether the user has the partner role.
func (u *UserContext) IsPartner() bool {
	return u != nil && u.Role == RolePartner
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// HasRole checks if user has specific role.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	return u != nil && u.Role == role
}
