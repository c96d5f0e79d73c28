package analytics

import (
	"context"

	"github.com/railrover/railrover/internal/domain"
	"github.com/railrover/railrover/internal/repository"
)

type AnalyticsUseCase interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	RevenueTimeline(ctx context.Context) ([]domain.RevenuePoint, error)
}

type AnalyticsService struct {
	repo repository.AnalyticsRepository
}

func NewAnalyticsService(repo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

func (s *AnalyticsService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	return s.repo.DashboardStats(ctx)
}

func (s *AnalyticsService) RevenueTimeline(ctx context.Context) ([]domain.RevenuePoint, error) {
	return s.repo.RevenueTimeline(ctx)
}

var _ AnalyticsUseCase = (*AnalyticsService)(nil)
