package platform_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"catalisa/internal/core/apperror"
	appctx "catalisa/internal/core/context"
	"catalisa/internal/core/id"
	"catalisa/internal/domain/user"
	"catalisa/internal/infrastructure/storage/postgres"
)

const usersTable = "users"

var userColumns = []string{
	"id", "name", "email", "password_hash", "phone", "company", "role",
	"partner_percentage", "partner_level_id", "is_active",
	"created_at", "updated_at",
}

// UserRepo implements user.Repository.
type UserRepo struct {
	base
}

// NewUserRepo creates a user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{base{txManager: txManager}}
}

func (r *UserRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(userColumns...).From(usersTable)
}

// List returns all accounts, newest first.
func (r *UserRepo) List(ctx context.Context) ([]user.User, error) {
	sql, args, err := r.baseSelect().OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var users []user.User
	if err := pgxscan.Select(ctx, r.querier(ctx), &users, sql, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get returns one account by id.
func (r *UserRepo) Get(ctx context.Context, userID id.ID) (*user.User, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"id": userID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u user.User
	if err := pgxscan.Get(ctx, r.querier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// GetByEmail returns one account by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"email": email}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u user.User
	if err := pgxscan.Get(ctx, r.querier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", email)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// Create inserts an account.
func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	q := r.builder().
		Insert(usersTable).
		Columns(userColumns...).
		Values(
			u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, u.Company, u.Role,
			u.PartnerPercentage, u.PartnerLevelID, u.IsActive,
			u.CreatedAt, u.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update rewrites an account row.
func (r *UserRepo) Update(ctx context.Context, u *user.User) error {
	q := r.builder().
		Update(usersTable).
		Set("name", u.Name).
		Set("email", u.Email).
		Set("password_hash", u.PasswordHash).
		Set("phone", u.Phone).
		Set("company", u.Company).
		Set("role", u.Role).
		Set("partner_percentage", u.PartnerPercentage).
		Set("partner_level_id", u.PartnerLevelID).
		Set("is_active", u.IsActive).
		Set("updated_at", u.UpdatedAt).
		Where(squirrel.Eq{"id": u.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// ListAdminIDs returns ids of active admin accounts.
func (r *UserRepo) ListAdminIDs(ctx context.Context) ([]id.ID, error) {
	var ids []id.ID
	err := pgxscan.Select(ctx, r.querier(ctx), &ids,
		`SELECT id FROM users WHERE role = $1 AND is_active = true`, appctx.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("list admin ids: %w", err)
	}
	return ids, nil
}

// CountPartners returns the number of active partner accounts.
func (r *UserRepo) CountPartners(ctx context.Context) (int, error) {
	var count int
	err := pgxscan.Get(ctx, r.querier(ctx), &count,
		`SELECT count(*) FROM users WHERE role = $1 AND is_active = true`, appctx.RolePartner)
	if err != nil {
		return 0, fmt.Errorf("count partners: %w", err)
	}
	return count, nil
}
