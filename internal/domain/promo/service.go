package promo

import (
	"context"
	"time"

	"catalisa/internal/core/id"
)

// Service provides banner business logic.
type Service struct {
	repo Repository
}

// NewService creates a promo service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListActive returns the public banner carousel.
func (s *Service) ListActive(ctx context.Context) ([]Banner, error) {
	return s.repo.ListActive(ctx)
}

// ListAll returns every banner for the admin screen.
func (s *Service) ListAll(ctx context.Context) ([]Banner, error) {
	return s.repo.ListAll(ctx)
}

// Get returns one banner.
func (s *Service) Get(ctx context.Context, bannerID id.ID) (*Banner, error) {
	return s.repo.Get(ctx, bannerID)
}

// Create adds a banner.
func (s *Service) Create(ctx context.Context, b *Banner) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(b.ID) {
		b.ID = id.New()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	return s.repo.Create(ctx, b)
}

// Update modifies a banner.
func (s *Service) Update(ctx context.Context, b *Banner) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}
	current, err := s.repo.Get(ctx, b.ID)
	if err != nil {
		return err
	}
	b.CreatedAt = current.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, b)
}

// Delete removes a banner.
func (s *Service) Delete(ctx context.Context, bannerID id.ID) error {
	if _, err := s.repo.Get(ctx, bannerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, bannerID)
}
