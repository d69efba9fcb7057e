package user

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"catalisa/internal/core/apperror"
	appctx "catalisa/internal/core/context"
	"catalisa/internal/core/id"
	"catalisa/internal/domain/partnerlevel"
	"catalisa/internal/pricing"
)

type fakeUserRepo struct {
	users map[id.ID]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[id.ID]*User)}
}

func (r *fakeUserRepo) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) Get(ctx context.Context, userID id.ID) (*User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *fakeUserRepo) Create(ctx context.Context, u *User) error {
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *User) error {
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) ListAdminIDs(ctx context.Context) ([]id.ID, error) {
	var out []id.ID
	for _, u := range r.users {
		if u.IsAdmin() && u.IsActive {
			out = append(out, u.ID)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountPartners(ctx context.Context) (int, error) {
	count := 0
	for _, u := range r.users {
		if u.Role == appctx.RolePartner && u.IsActive {
			count++
		}
	}
	return count, nil
}

type fakeLevelRepo struct {
	levels map[id.ID]*partnerlevel.Level
}

func newFakeLevelRepo() *fakeLevelRepo {
	return &fakeLevelRepo{levels: make(map[id.ID]*partnerlevel.Level)}
}

func (r *fakeLevelRepo) List(ctx context.Context) ([]partnerlevel.Level, error) {
	out := make([]partnerlevel.Level, 0, len(r.levels))
	for _, level := range r.levels {
		out = append(out, *level)
	}
	return out, nil
}

func (r *fakeLevelRepo) Get(ctx context.Context, levelID id.ID) (*partnerlevel.Level, error) {
	level, ok := r.levels[levelID]
	if !ok {
		return nil, apperror.NewNotFound("partner level", levelID.String())
	}
	copied := *level
	return &copied, nil
}

func (r *fakeLevelRepo) GetByName(ctx context.Context, name string) (*partnerlevel.Level, error) {
	for _, level := range r.levels {
		if level.Name == name {
			copied := *level
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("partner level", name)
}

func (r *fakeLevelRepo) Create(ctx context.Context, level *partnerlevel.Level) error {
	copied := *level
	r.levels[level.ID] = &copied
	return nil
}

func (r *fakeLevelRepo) Update(ctx context.Context, level *partnerlevel.Level) error {
	copied := *level
	r.levels[level.ID] = &copied
	return nil
}

func (r *fakeLevelRepo) Delete(ctx context.Context, levelID id.ID) error {
	delete(r.levels, levelID)
	return nil
}

func (r *fakeLevelRepo) ClearDefault(ctx context.Context) error {
	for _, level := range r.levels {
		level.IsDefault = false
	}
	return nil
}

func (r *fakeLevelRepo) CountAssignedUsers(ctx context.Context, levelID id.ID) (int, error) {
	return 0, nil
}

func (r *fakeLevelRepo) UnassignUsers(ctx context.Context, levelID id.ID) (int, error) {
	return 0, nil
}

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeLevelRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	levelRepo := newFakeLevelRepo()
	levels := partnerlevel.NewService(levelRepo, fakeTx{})
	return NewService(userRepo, levels, fakeTx{}), userRepo, levelRepo
}

func seedAdmin(t *testing.T, repo *fakeUserRepo) *User {
	t.Helper()
	admin := &User{
		ID:       id.New(),
		Name:     "Admin",
		Email:    "admin@example.com",
		Role:     appctx.RoleAdmin,
		IsActive: true,
	}
	require.NoError(t, repo.Create(context.Background(), admin))
	return admin
}

func actorFor(u *User) *appctx.UserContext {
	return &appctx.UserContext{
		UserID: u.ID.String(),
		Email:  u.Email,
		Role:   u.Role,
	}
}

func TestRegister(t *testing.T) {
	svc, _, levelRepo := newTestService(t)
	ctx := context.Background()

	defaultLevel := &partnerlevel.Level{
		ID:         id.New(),
		Name:       "Nível 1",
		Percentage: decimal.NewFromInt(20),
		IsDefault:  true,
	}
	require.NoError(t, levelRepo.Create(ctx, defaultLevel))

	u, err := svc.Register(ctx, RegisterInput{
		Name:     "Maria",
		Email:    "  Maria@Example.COM ",
		Password: "secret1",
		Company:  "Sucatas MG",
	})
	require.NoError(t, err)

	assert.Equal(t, "maria@example.com", u.Email)
	assert.Equal(t, appctx.RolePartner, u.Role)
	assert.True(t, u.IsActive)
	require.NotNil(t, u.PartnerLevelID)
	assert.Equal(t, defaultLevel.ID, *u.PartnerLevelID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "A@B.com", Password: "secret2"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "A",
		Email:    "a@b.com",
		Password: "12345",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestAuthenticate(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = svc.Authenticate(ctx, "a@b.com", "wrong")
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)

	_, err = svc.Authenticate(ctx, "unknown@b.com", "secret1")
	require.Error(t, err)

	// Disabled accounts cannot log in even with the right password.
	stored := repo.users[registered.ID]
	stored.IsActive = false
	_, err = svc.Authenticate(ctx, "a@b.com", "secret1")
	require.Error(t, err)
}

func TestAdminUpdateRoleGuards(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	admin := seedAdmin(t, repo)
	otherAdmin := seedAdmin(t, repo)
	otherAdmin.Email = "admin2@example.com"
	require.NoError(t, repo.Update(ctx, otherAdmin))

	partnerRole := appctx.RolePartner

	// Nobody changes their own role.
	_, err := svc.AdminUpdateUser(ctx, actorFor(admin), admin.ID, AdminUpdate{Role: &partnerRole})
	require.Error(t, err)

	// Admins cannot be demoted by anyone.
	_, err = svc.AdminUpdateUser(ctx, actorFor(admin), otherAdmin.ID, AdminUpdate{Role: &partnerRole})
	require.Error(t, err)
}

func TestAdminUpdateLevelClearsPercentage(t *testing.T) {
	svc, repo, levelRepo := newTestService(t)
	ctx := context.Background()

	admin := seedAdmin(t, repo)

	pct := decimal.NewFromInt(25)
	partner, err := svc.Register(ctx, RegisterInput{Name: "P", Email: "p@b.com", Password: "secret1"})
	require.NoError(t, err)

	updated, err := svc.AdminUpdateUser(ctx, actorFor(admin), partner.ID, AdminUpdate{PartnerPercentage: &pct})
	require.NoError(t, err)
	require.NotNil(t, updated.PartnerPercentage)

	level := &partnerlevel.Level{ID: id.New(), Name: "Ouro", Percentage: decimal.NewFromInt(40)}
	require.NoError(t, levelRepo.Create(ctx, level))

	updated, err = svc.AdminUpdateUser(ctx, actorFor(admin), partner.ID, AdminUpdate{PartnerLevelID: &level.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.PartnerLevelID)
	assert.Equal(t, level.ID, *updated.PartnerLevelID)
	assert.Nil(t, updated.PartnerPercentage)

	// A nil uuid clears the level assignment.
	nilID := id.Nil()
	updated, err = svc.AdminUpdateUser(ctx, actorFor(admin), partner.ID, AdminUpdate{PartnerLevelID: &nilID})
	require.NoError(t, err)
	assert.Nil(t, updated.PartnerLevelID)
}

func TestAdminUpdateUnknownLevel(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	admin := seedAdmin(t, repo)
	partner, err := svc.Register(ctx, RegisterInput{Name: "P", Email: "p@b.com", Password: "secret1"})
	require.NoError(t, err)

	unknown := id.New()
	_, err = svc.AdminUpdateUser(ctx, actorFor(admin), partner.ID, AdminUpdate{PartnerLevelID: &unknown})
	require.Error(t, err)
}

func TestSetActiveGuards(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	admin := seedAdmin(t, repo)
	partner, err := svc.Register(ctx, RegisterInput{Name: "P", Email: "p@b.com", Password: "secret1"})
	require.NoError(t, err)

	// Admin accounts stay active.
	_, err = svc.SetActive(ctx, actorFor(admin), admin.ID, false)
	require.Error(t, err)

	// Self-deactivation is blocked too.
	_, err = svc.SetActive(ctx, actorFor(partner), partner.ID, false)
	require.Error(t, err)

	deactivated, err := svc.SetActive(ctx, actorFor(admin), partner.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	reactivated, err := svc.SetActive(ctx, actorFor(admin), partner.ID, true)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)
}

func TestLoadContext(t *testing.T) {
	svc, repo, levelRepo := newTestService(t)
	ctx := context.Background()

	level := &partnerlevel.Level{
		ID:         id.New(),
		Name:       "Nível 2",
		Percentage: decimal.NewFromInt(30),
		IsDefault:  true,
	}
	require.NoError(t, levelRepo.Create(ctx, level))

	partner, err := svc.Register(ctx, RegisterInput{Name: "P", Email: "p@b.com", Password: "secret1"})
	require.NoError(t, err)

	uc, err := svc.LoadContext(ctx, partner.ID)
	require.NoError(t, err)
	assert.Equal(t, partner.ID.String(), uc.UserID)
	assert.True(t, uc.IsPartner())
	require.NotNil(t, uc.PartnerLevel)
	assert.Equal(t, "Nível 2", uc.PartnerLevel.Name)
	assert.Equal(t, "30", uc.PartnerLevel.Percentage.String())

	// Disabled accounts never get a context; the middleware turns this
	// into a 401.
	stored := repo.users[partner.ID]
	stored.IsActive = false
	_, err = svc.LoadContext(ctx, partner.ID)
	require.Error(t, err)
}

func TestLoadContextFallbackPercentage(t *testing.T) {
	svc, _, levelRepo := newTestService(t)
	ctx := context.Background()

	// No levels exist at all: the partner still gets the global fallback
	// markup, never a 0% projection.
	partner, err := svc.Register(ctx, RegisterInput{Name: "P", Email: "p@b.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Nil(t, partner.PartnerLevelID)

	uc, err := svc.LoadContext(ctx, partner.ID)
	require.NoError(t, err)
	assert.Nil(t, uc.PartnerLevel)
	require.NotNil(t, uc.PartnerPercentage)
	assert.Equal(t, "35", uc.PartnerPercentage.String())

	view := pricing.ComputePriceForUser(decimal.NewFromInt(100), uc)
	assert.Equal(t, "135.00", view.Price.StringFixed(2))

	// Once levels exist, an unassigned partner resolves the lowest tier
	// instead of the fallback.
	level := &partnerlevel.Level{
		ID:         id.New(),
		Name:       "Nível 1",
		Percentage: decimal.NewFromInt(20),
	}
	require.NoError(t, levelRepo.Create(ctx, level))

	uc, err = svc.LoadContext(ctx, partner.ID)
	require.NoError(t, err)
	assert.Nil(t, uc.PartnerPercentage)
	require.NotNil(t, uc.PartnerLevel)
	assert.Equal(t, "Nível 1", uc.PartnerLevel.Name)
	assert.Equal(t, "20", uc.PartnerLevel.Percentage.String())
}
