package partnerlevel

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"catalisa/internal/core/apperror"
	"catalisa/internal/core/id"
	"catalisa/internal/core/tx"
	"catalisa/pkg/logger"
)

// Service provides business logic for partner levels.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new partner level service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// List returns all levels, seeding the defaults when none exist yet.
func (s *Service) List(ctx context.Context) ([]Level, error) {
	levels, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(levels) > 0 {
		return levels, nil
	}

	seeded := DefaultLevels()
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for i := range seeded {
			if err := s.repo.Create(ctx, &seeded[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "seeded default partner levels", "count", len(seeded))
	return seeded, nil
}

// Get returns one level.
func (s *Service) Get(ctx context.Context, levelID id.ID) (*Level, error) {
	return s.repo.Get(ctx, levelID)
}

// Create adds a new level. Marking it default clears the flag elsewhere.
func (s *Service) Create(ctx context.Context, level *Level) error {
	if err := level.Validate(ctx); err != nil {
		return err
	}
	if existing, err := s.repo.GetByName(ctx, level.Name); err == nil && existing != nil {
		return apperror.NewDuplicate("partner level", "name", level.Name)
	}

	if id.IsNil(level.ID) {
		level.ID = id.New()
	}
	now := time.Now().UTC()
	level.CreatedAt = now
	level.UpdatedAt = now

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if level.IsDefault {
			if err := s.repo.ClearDefault(ctx); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, level)
	})
}

// Update modifies a level.
func (s *Service) Update(ctx context.Context, level *Level) error {
	if err := level.Validate(ctx); err != nil {
		return err
	}
	current, err := s.repo.Get(ctx, level.ID)
	if err != nil {
		return err
	}
	if existing, err := s.repo.GetByName(ctx, level.Name); err == nil && existing != nil && existing.ID != level.ID {
		return apperror.NewDuplicate("partner level", "name", level.Name)
	}

	level.CreatedAt = current.CreatedAt
	level.UpdatedAt = time.Now().UTC()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if level.IsDefault && !current.IsDefault {
			if err := s.repo.ClearDefault(ctx); err != nil {
				return err
			}
		}
		return s.repo.Update(ctx, level)
	})
}

// Delete removes a level. Levels still assigned to users are protected:
// without force the call fails, with force the users are unassigned first.
func (s *Service) Delete(ctx context.Context, levelID id.ID, force bool) error {
	if _, err := s.repo.Get(ctx, levelID); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		assigned, err := s.repo.CountAssignedUsers(ctx, levelID)
		if err != nil {
			return err
		}
		if assigned > 0 {
			if !force {
				return apperror.NewBusinessRule(apperror.CodeLevelInUse,
					"partner level is assigned to users").
					WithDetail("assignedUsers", assigned)
			}
			unassigned, err := s.repo.UnassignUsers(ctx, levelID)
			if err != nil {
				return err
			}
			logger.Warn(ctx, "force-deleting partner level with assigned users",
				"level_id", levelID, "unassigned", unassigned)
		}
		return s.repo.Delete(ctx, levelID)
	})
}

// ResolveDefault picks the level for new partner registrations: the explicit
// default when set, otherwise the lowest-percentage level. Returns nil when no
// levels exist; callers fall back to FallbackPercentage.
func (s *Service) ResolveDefault(ctx context.Context) (*Level, error) {
	levels, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, nil
	}

	var lowest *Level
	for i := range levels {
		level := &levels[i]
		if level.IsDefault {
			return level, nil
		}
		if lowest == nil || level.Percentage.LessThan(lowest.Percentage) {
			lowest = level
		}
	}
	return lowest, nil
}

// PercentageFor returns the effective markup for a level pointer, falling back
// when nil.
func PercentageFor(level *Level) decimal.Decimal {
	if level == nil {
		return FallbackPercentage
	}
	return level.Percentage
}
