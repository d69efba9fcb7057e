package partnerlevel

import (
	"context"

	"catalisa/internal/core/id"
)

// Repository defines partner level persistence.
type Repository interface {
	List(ctx context.Context) ([]Level, error)
	Get(ctx context.Context, levelID id.ID) (*Level, error)
	GetByName(ctx context.Context, name string) (*Level, error)
	Create(ctx context.Context, level *Level) error
	Update(ctx context.Context, level *Level) error
	Delete(ctx context.Context, levelID id.ID) error

	// ClearDefault drops the default flag from every level.
	ClearDefault(ctx context.Context) error

	// CountAssignedUsers returns how many users reference the level.
	CountAssignedUsers(ctx context.Context, levelID id.ID) (int, error)

	// UnassignUsers clears partner_level_id on users referencing the level.
	UnassignUsers(ctx context.Context, levelID id.ID) (int, error)
}
