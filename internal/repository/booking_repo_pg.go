package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/railrover/railrover/internal/domain"
)

type BookingRepository interface {
	CreateConfirmed(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	SeatsPromised(ctx context.Context, trainID string, travelDate time.Time) (int, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// CreateConfirmed inserts the booking inside a single transaction. The train
// row is locked with FOR UPDATE so that concurrent bookings for the same train
// serialize here and the promised-seat aggregate stays authoritative at commit
// time.
func (r *PGBookingRepository) CreateConfirmed(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var totalSeats int
	var active bool
	if err := tx.QueryRow(ctx, `SELECT total_seats, active FROM trains WHERE id=$1 FOR UPDATE`, booking.TrainID).Scan(&totalSeats, &active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTrainNotFound
		}
		return err
	}
	if !active {
		return domain.ErrTrainNotActive
	}

	var promised int
	if err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(passengers), 0) FROM bookings WHERE train_id=$1 AND travel_date=$2 AND status=$3`,
		booking.TrainID, booking.TravelDate, domain.BookingStatusConfirmed).Scan(&promised); err != nil {
		return err
	}
	if promised+booking.Passengers > totalSeats {
		return domain.ErrInsufficientCapacity
	}

	booking.Status = domain.BookingStatusConfirmed
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, user_id, train_id, route_id, travel_date, ticket_class, passengers, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`, booking.ID, booking.UserID, booking.TrainID, booking.RouteID, booking.TravelDate, booking.TicketClass, booking.Passengers, booking.TotalPrice, booking.Status).
		Scan(&booking.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, train_id, route_id, travel_date, ticket_class, passengers, total_price, status, created_at FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.TrainID, &b.RouteID, &b.TravelDate, &b.TicketClass, &b.Passengers, &b.TotalPrice, &b.Status, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, train_id, route_id, travel_date, ticket_class, passengers, total_price, status, created_at FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.TrainID, &b.RouteID, &b.TravelDate, &b.TicketClass, &b.Passengers, &b.TotalPrice, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) SeatsPromised(ctx context.Context, trainID string, travelDate time.Time) (int, error) {
	var promised int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(passengers), 0) FROM bookings WHERE train_id=$1 AND travel_date=$2 AND status=$3`,
		trainID, travelDate, domain.BookingStatusConfirmed).Scan(&promised)
	return promised, err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
