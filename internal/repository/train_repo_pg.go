package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/railrover/railrover/internal/domain"
)

type TrainRepository interface {
	ListActive(ctx context.Context) ([]domain.Train, error)
	GetByID(ctx context.Context, id string) (*domain.Train, error)
	Create(ctx context.Context, train *domain.Train) error
}

type PGTrainRepository struct {
	db *pgxpool.Pool
}

func NewTrainRepository(db *pgxpool.Pool) TrainRepository {
	return &PGTrainRepository{db: db}
}

func (r *PGTrainRepository) ListActive(ctx context.Context) ([]domain.Train, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, number, type, total_seats, amenities, active, created_at, updated_at FROM trains WHERE active ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trains := make([]domain.Train, 0)
	for rows.Next() {
		var t domain.Train
		if err := rows.Scan(&t.ID, &t.Name, &t.Number, &t.Type, &t.TotalSeats, &t.Amenities, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		trains = append(trains, t)
	}
	return trains, rows.Err()
}

func (r *PGTrainRepository) GetByID(ctx context.Context, id string) (*domain.Train, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, number, type, total_seats, amenities, active, created_at, updated_at FROM trains WHERE id=$1`, id)
	var t domain.Train
	if err := row.Scan(&t.ID, &t.Name, &t.Number, &t.Type, &t.TotalSeats, &t.Amenities, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTrainNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGTrainRepository) Create(ctx context.Context, train *domain.Train) error {
	return r.db.QueryRow(ctx, `INSERT INTO trains (id, name, number, type, total_seats, amenities, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`, train.ID, train.Name, train.Number, train.Type, train.TotalSeats, train.Amenities, train.Active).
		Scan(&train.CreatedAt, &train.UpdatedAt)
}

var _ TrainRepository = (*PGTrainRepository)(nil)
