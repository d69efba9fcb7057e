package user

import (
	"context"

	"catalisa/internal/core/id"
)

// Repository defines user persistence.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error

	// ListAdminIDs returns the ids of active admin accounts, used for
	// order notifications.
	ListAdminIDs(ctx context.Context) ([]id.ID, error)

	// CountPartners returns the number of active partner accounts.
	CountPartners(ctx context.Context) (int, error)
}
