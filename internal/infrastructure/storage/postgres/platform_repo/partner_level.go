package platform_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"catalisa/internal/core/apperror"
	"catalisa/internal/core/id"
	"catalisa/internal/domain/partnerlevel"
	"catalisa/internal/infrastructure/storage/postgres"
)

const levelsTable = "partner_levels"

var levelColumns = []string{
	"id", "name", "percentage", "description", "is_default",
	"created_at", "updated_at",
}

// PartnerLevelRepo implements partnerlevel.Repository.
type PartnerLevelRepo struct {
	base
}

// NewPartnerLevelRepo creates a partner level repository.
func NewPartnerLevelRepo(txManager *postgres.TxManager) *PartnerLevelRepo {
	return &PartnerLevelRepo{base{txManager: txManager}}
}

func (r *PartnerLevelRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(levelColumns...).From(levelsTable)
}

// List returns all levels ordered by percentage.
func (r *PartnerLevelRepo) List(ctx context.Context) ([]partnerlevel.Level, error) {
	sql, args, err := r.baseSelect().OrderBy("percentage ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var levels []partnerlevel.Level
	if err := pgxscan.Select(ctx, r.querier(ctx), &levels, sql, args...); err != nil {
		return nil, fmt.Errorf("list partner levels: %w", err)
	}
	return levels, nil
}

// Get returns one level.
func (r *PartnerLevelRepo) Get(ctx context.Context, levelID id.ID) (*partnerlevel.Level, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"id": levelID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var level partnerlevel.Level
	if err := pgxscan.Get(ctx, r.querier(ctx), &level, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("partner level", levelID)
		}
		return nil, fmt.Errorf("get partner level: %w", err)
	}
	return &level, nil
}

// GetByName returns one level by exact name.
func (r *PartnerLevelRepo) GetByName(ctx context.Context, name string) (*partnerlevel.Level, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"name": name}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var level partnerlevel.Level
	if err := pgxscan.Get(ctx, r.querier(ctx), &level, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("partner level", name)
		}
		return nil, fmt.Errorf("get partner level by name: %w", err)
	}
	return &level, nil
}

// Create inserts a level.
func (r *PartnerLevelRepo) Create(ctx context.Context, level *partnerlevel.Level) error {
	q := r.builder().
		Insert(levelsTable).
		Columns(levelColumns...).
		Values(
			level.ID, level.Name, level.Percentage, level.Description,
			level.IsDefault, level.CreatedAt, level.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert partner level: %w", err)
	}
	return nil
}

// Update rewrites a level row.
func (r *PartnerLevelRepo) Update(ctx context.Context, level *partnerlevel.Level) error {
	q := r.builder().
		Update(levelsTable).
		Set("name", level.Name).
		Set("percentage", level.Percentage).
		Set("description", level.Description).
		Set("is_default", level.IsDefault).
		Set("updated_at", level.UpdatedAt).
		Where(squirrel.Eq{"id": level.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update partner level: %w", err)
	}
	return nil
}

// Delete removes a level row.
func (r *PartnerLevelRepo) Delete(ctx context.Context, levelID id.ID) error {
	sql, args, err := r.builder().
		Delete(levelsTable).
		Where(squirrel.Eq{"id": levelID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete partner level: %w", err)
	}
	return nil
}

// ClearDefault drops the default flag everywhere.
func (r *PartnerLevelRepo) ClearDefault(ctx context.Context) error {
	_, err := r.querier(ctx).Exec(ctx,
		`UPDATE partner_levels SET is_default = false WHERE is_default = true`)
	if err != nil {
		return fmt.Errorf("clear default level: %w", err)
	}
	return nil
}

// CountAssignedUsers returns how many users reference the level.
func (r *PartnerLevelRepo) CountAssignedUsers(ctx context.Context, levelID id.ID) (int, error) {
	var count int
	err := pgxscan.Get(ctx, r.querier(ctx), &count,
		`SELECT count(*) FROM users WHERE partner_level_id = $1`, levelID)
	if err != nil {
		return 0, fmt.Errorf("count assigned users: %w", err)
	}
	return count, nil
}

// UnassignUsers clears the level from users referencing it.
func (r *PartnerLevelRepo) UnassignUsers(ctx context.Context, levelID id.ID) (int, error) {
	tag, err := r.querier(ctx).Exec(ctx,
		`UPDATE users SET partner_level_id = NULL WHERE partner_level_id = $1`, levelID)
	if err != nil {
		return 0, fmt.Errorf("unassign users: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
