package services

import (
	"context"

	"github.com/kjiyu/devlog/backend/internal/models"
	"github.com/kjiyu/devlog/backend/internal/repositories"
)

// CounterService owns the site-wide visit counter, a singleton document
// seeded at bootstrap.
type CounterService struct {
	visitorRepository repositories.VisitorRepository
}

// NewCounterService creates a new CounterService
func NewCounterService(visitorRepo repositories.VisitorRepository) *CounterService {
	return &CounterService{visitorRepository: visitorRepo}
}

// Visit returns the current counter value. When increment is set the
// counter is bumped first, atomically at the store, so concurrent visits
// all land. Fails with ErrNotFound if the singleton was never seeded.
func (s *CounterService) Visit(ctx context.Context, increment bool) (*models.Visitor, error) {
	if increment {
		return s.visitorRepository.IncrementViews(ctx)
	}
	return s.visitorRepository.Find(ctx)
}
