package trains

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/railrover/railrover/internal/domain"
	"github.com/railrover/railrover/internal/repository"
)

type TrainUseCase interface {
	List(ctx context.Context) ([]domain.Train, error)
	GetByID(ctx context.Context, id string) (*domain.Train, error)
	Create(ctx context.Context, input CreateTrainInput) (*domain.Train, error)
}

type Cache interface {
	GetTrains(ctx context.Context) ([]domain.Train, error)
	SetTrains(ctx context.Context, trains []domain.Train) error
	InvalidateTrains(ctx context.Context) error
}

type CreateTrainInput struct {
	Name       string   `json:"name"`
	Number     string   `json:"number"`
	Type       string   `json:"type"`
	TotalSeats int      `json:"total_seats"`
	Amenities  []string `json:"amenities"`
}

type TrainService struct {
	repo  repository.TrainRepository
	cache Cache
}

func NewTrainService(repo repository.TrainRepository, cache Cache) *TrainService {
	return &TrainService{repo: repo, cache: cache}
}

func (s *TrainService) List(ctx context.Context) ([]domain.Train, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetTrains(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	trains, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetTrains(ctx, trains)
	}
	return trains, nil
}

func (s *TrainService) GetByID(ctx context.Context, id string) (*domain.Train, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TrainService) Create(ctx context.Context, input CreateTrainInput) (*domain.Train, error) {
	if input.Name == "" || input.Number == "" {
		return nil, fmt.Errorf("%w: name and number are required", domain.ErrInvalidInput)
	}
	if input.TotalSeats < 0 {
		return nil, fmt.Errorf("%w: total seats must not be negative", domain.ErrInvalidInput)
	}

	amenities := input.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	train := &domain.Train{
		ID:         uuid.NewString(),
		Name:       input.Name,
		Number:     input.Number,
		Type:       input.Type,
		TotalSeats: input.TotalSeats,
		Amenities:  amenities,
		Active:     true,
	}
	if err := s.repo.Create(ctx, train); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateTrains(ctx)
	}
	return train, nil
}

var _ TrainUseCase = (*TrainService)(nil)
