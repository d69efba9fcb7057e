package user

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"catalisa/internal/core/apperror"
	appctx "catalisa/internal/core/context"
	"catalisa/internal/core/id"
	"catalisa/internal/core/tx"
	"catalisa/internal/domain/partnerlevel"
	"catalisa/pkg/logger"
)

// RegisterInput is the self-registration payload. New accounts are always
// partners; admins are created by the seeder or promoted later.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
}

// ProfileUpdate is the self-service profile payload. Role and markup fields
// are deliberately absent.
type ProfileUpdate struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
}

// AdminUpdate is the admin user-management payload.
type AdminUpdate struct {
	Name              *string          `json:"name"`
	Phone             *string          `json:"phone"`
	Company           *string          `json:"company"`
	Role              *string          `json:"role"`
	PartnerPercentage *decimal.Decimal `json:"partnerPercentage"`
	PartnerLevelID    *id.ID           `json:"partnerLevelId"`
}

// Service provides account business logic.
type Service struct {
	repo      Repository
	levels    *partnerlevel.Service
	txManager tx.Manager
}

// NewService creates a new user service.
func NewService(repo Repository, levels *partnerlevel.Service, txManager tx.Manager) *Service {
	return &Service{repo: repo, levels: levels, txManager: txManager}
}

// Register creates a partner account. The default partner level is assigned
// when one can be resolved; otherwise LoadContext falls back to the global
// fallback percentage.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	email := NormalizeEmail(input.Email)
	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperror.NewDuplicate("user", "email", email)
	}
	if len(input.Password) < 6 {
		return nil, apperror.NewValidation("password must be at least 6 characters").
			WithDetail("field", "password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	now := time.Now().UTC()
	u := &User{
		ID:           id.New(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        input.Phone,
		Company:      input.Company,
		Role:         appctx.RolePartner,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if level, err := s.levels.ResolveDefault(ctx); err == nil && level != nil {
		u.PartnerLevelID = &level.ID
	}

	if err := u.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// Authenticate verifies credentials and returns the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}
	if !u.IsActive {
		return nil, apperror.NewUnauthorized("account is disabled")
	}
	return u, nil
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, userID id.ID) (*User, error) {
	return s.repo.Get(ctx, userID)
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// UpdateProfile applies self-service changes to the caller's own account.
func (s *Service) UpdateProfile(ctx context.Context, userID id.ID, input ProfileUpdate) (*User, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.Phone != nil {
		u.Phone = *input.Phone
	}
	if input.Company != nil {
		u.Company = *input.Company
	}
	u.UpdatedAt = time.Now().UTC()

	if err := u.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// AdminUpdateUser applies admin changes to any account. Role changes are
// guarded: admins cannot be demoted, and nobody changes their own role.
// Assigning a partner level clears a previously set custom percentage.
func (s *Service) AdminUpdateUser(ctx context.Context, actor *appctx.UserContext, targetID id.ID, input AdminUpdate) (*User, error) {
	u, err := s.repo.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if input.Role != nil && *input.Role != u.Role {
		if actor != nil && actor.UserID == u.ID.String() {
			return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"cannot change your own role")
		}
		if u.IsAdmin() {
			return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"cannot demote an admin account")
		}
		u.Role = *input.Role
	}

	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.Phone != nil {
		u.Phone = *input.Phone
	}
	if input.Company != nil {
		u.Company = *input.Company
	}

	if input.PartnerLevelID != nil {
		if id.IsNil(*input.PartnerLevelID) {
			u.PartnerLevelID = nil
		} else {
			if _, err := s.levels.Get(ctx, *input.PartnerLevelID); err != nil {
				return nil, err
			}
			u.PartnerLevelID = input.PartnerLevelID
			u.PartnerPercentage = nil
		}
	} else if input.PartnerPercentage != nil {
		u.PartnerPercentage = input.PartnerPercentage
	}

	u.UpdatedAt = time.Now().UTC()

	if err := u.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user updated by admin", "user_id", u.ID)
	return u, nil
}

// SetActive activates or deactivates an account. Admin accounts and the
// caller's own account cannot be deactivated.
func (s *Service) SetActive(ctx context.Context, actor *appctx.UserContext, targetID id.ID, active bool) (*User, error) {
	u, err := s.repo.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if !active {
		if u.IsAdmin() {
			return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"cannot deactivate an admin account")
		}
		if actor != nil && actor.UserID == u.ID.String() {
			return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"cannot deactivate your own account")
		}
	}

	u.IsActive = active
	u.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// LoadContext builds the request user context for an account, resolving the
// assigned partner level so the price projection has its percentage.
func (s *Service) LoadContext(ctx context.Context, userID id.ID) (*appctx.UserContext, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, apperror.NewUnauthorized("account is disabled")
	}

	uc := &appctx.UserContext{
		UserID:            u.ID.String(),
		Email:             u.Email,
		Name:              u.Name,
		Role:              u.Role,
		PartnerPercentage: u.PartnerPercentage,
	}
	if u.PartnerLevelID != nil {
		level, err := s.levels.Get(ctx, *u.PartnerLevelID)
		if err == nil && level != nil {
			uc.PartnerLevel = &appctx.PartnerLevelRef{
				ID:         level.ID.String(),
				Name:       level.Name,
				Percentage: level.Percentage,
			}
		}
	}

	// A partner with neither a level nor a custom percentage still prices
	// against a tier: the resolved default when levels exist, the global
	// fallback percentage otherwise.
	if u.Role == appctx.RolePartner && uc.PartnerLevel == nil && uc.PartnerPercentage == nil {
		level, err := s.levels.ResolveDefault(ctx)
		if err != nil {
			return nil, err
		}
		if level != nil {
			uc.PartnerLevel = &appctx.PartnerLevelRef{
				ID:         level.ID.String(),
				Name:       level.Name,
				Percentage: level.Percentage,
			}
		} else {
			pct := partnerlevel.PercentageFor(nil)
			uc.PartnerPercentage = &pct
		}
	}
	return uc, nil
}

// AdminIDs returns active admin account ids for notifications.
func (s *Service) AdminIDs(ctx context.Context) ([]id.ID, error) {
	return s.repo.ListAdminIDs(ctx)
}
