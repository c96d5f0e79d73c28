package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/railrover/railrover/internal/domain"
)

type AnalyticsRepository interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	RevenueTimeline(ctx context.Context) ([]domain.RevenuePoint, error)
}

type PGAnalyticsRepository struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) AnalyticsRepository {
	return &PGAnalyticsRepository{db: db}
}

func (r *PGAnalyticsRepository) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	row := r.db.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM bookings),
		(SELECT COUNT(*) FROM trains WHERE active),
		(SELECT COALESCE(SUM(total_price), 0) FROM bookings)`)
	if err := row.Scan(&stats.TotalBookings, &stats.ActiveTrains, &stats.TotalRevenue); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *PGAnalyticsRepository) RevenueTimeline(ctx context.Context) ([]domain.RevenuePoint, error) {
	rows, err := r.db.Query(ctx, `SELECT travel_date, SUM(total_price) FROM bookings GROUP BY travel_date ORDER BY travel_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]domain.RevenuePoint, 0)
	for rows.Next() {
		var p domain.RevenuePoint
		if err := rows.Scan(&p.Date, &p.Revenue); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

var _ AnalyticsRepository = (*PGAnalyticsRepository)(nil)
