package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/railrover/railrover/internal/domain"
	"github.com/railrover/railrover/internal/kafka"
	"github.com/railrover/railrover/internal/metrics"
	"github.com/railrover/railrover/internal/pricing"
	"github.com/railrover/railrover/internal/queue"
	"github.com/railrover/railrover/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type TaskQueue interface {
	Enqueue(ctx context.Context, stream string, job interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	trains             repository.TrainRepository
	producer           Producer
	queue              TaskQueue
	bookingEventsTopic string
	waitlistTopic      string
	emailStream        string
}

type CreateBookingInput struct {
	UserID      string             `json:"user_id"`
	TrainID     string             `json:"train_id"`
	RouteID     string             `json:"route_id"`
	TravelDate  time.Time          `json:"travel_date"`
	TicketClass domain.TicketClass `json:"ticket_class"`
	Passengers  int                `json:"passengers"`
}

type ResultStatus string

const (
	StatusConfirmed  ResultStatus = "confirmed"
	StatusWaitlisted ResultStatus = "waitlisted"
)

// PublishOutcome records the result of one best-effort side effect. It is
// informational only and never changes the booking outcome.
type PublishOutcome struct {
	Channel string
	Err     error
}

type BookingResult struct {
	Status   ResultStatus
	Booking  *domain.Booking
	Outcomes []PublishOutcome
}

func NewBookingService(
	bookings repository.BookingRepository,
	trains repository.TrainRepository,
	producer Producer,
	taskQueue TaskQueue,
	bookingEventsTopic, waitlistTopic, emailStream string,
) *BookingService {
	return &BookingService{
		bookings:           bookings,
		trains:             trains,
		producer:           producer,
		queue:              taskQueue,
		bookingEventsTopic: bookingEventsTopic,
		waitlistTopic:      waitlistTopic,
		emailStream:        emailStream,
	}
}

// CreateBooking runs the whole flow: capacity check, then either the waitlist
// branch or price calculation, the transactional write and the best-effort
// fan-out. Capacity shortfall is never an error; it redirects to the waitlist.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	train, hasCapacity, err := s.checkCapacity(ctx, input.TrainID, input.TravelDate, input.Passengers)
	if err != nil {
		metrics.BookingRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	if !hasCapacity {
		return s.waitlist(ctx, input), nil
	}

	totalPrice := pricing.Calculate(input.TicketClass, input.Passengers)

	booking := &domain.Booking{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		TrainID:     train.ID,
		RouteID:     input.RouteID,
		TravelDate:  input.TravelDate,
		TicketClass: input.TicketClass,
		Passengers:  input.Passengers,
		TotalPrice:  totalPrice,
	}

	if err := s.bookings.CreateConfirmed(ctx, booking); err != nil {
		// A concurrent booking may have taken the seats between the check and
		// the commit; that is a waitlist case, not a failure.
		if errors.Is(err, domain.ErrInsufficientCapacity) {
			return s.waitlist(ctx, input), nil
		}
		metrics.BookingRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.BookingRequests.WithLabelValues("confirmed").Inc()

	result := &BookingResult{Status: StatusConfirmed, Booking: booking}
	result.Outcomes = append(result.Outcomes, s.publishCreated(ctx, booking))
	result.Outcomes = append(result.Outcomes, s.enqueueConfirmationEmail(ctx, booking))
	return result, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (input CreateBookingInput) validate() error {
	if input.Passengers <= 0 {
		return fmt.Errorf("%w: passenger count must be positive", domain.ErrInvalidInput)
	}
	if input.UserID == "" || input.TrainID == "" {
		return fmt.Errorf("%w: user id and train id are required", domain.ErrInvalidInput)
	}
	if !input.TicketClass.Valid() {
		return fmt.Errorf("%w: unknown ticket class %q", domain.ErrInvalidInput, input.TicketClass)
	}
	return nil
}

// checkCapacity compares the requested seats against what is still free on
// the train for that travel date. The result is advisory; the write re-checks
// under a row lock.
func (s *BookingService) checkCapacity(ctx context.Context, trainID string, travelDate time.Time, requested int) (*domain.Train, bool, error) {
	train, err := s.trains.GetByID(ctx, trainID)
	if err != nil {
		return nil, false, err
	}
	if !train.Active {
		return nil, false, domain.ErrTrainNotActive
	}

	promised, err := s.bookings.SeatsPromised(ctx, trainID, travelDate)
	if err != nil {
		return nil, false, err
	}
	return train, train.TotalSeats-promised >= requested, nil
}

func (s *BookingService) waitlist(ctx context.Context, input CreateBookingInput) *BookingResult {
	metrics.BookingRequests.WithLabelValues("waitlisted").Inc()

	event := kafka.WaitlistEvent{
		Type:        kafka.EventTypeWaitlistRequested,
		UserID:      input.UserID,
		TrainID:     input.TrainID,
		RouteID:     input.RouteID,
		TravelDate:  input.TravelDate.Format(time.RFC3339),
		TicketClass: string(input.TicketClass),
		Passengers:  input.Passengers,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	outcome := PublishOutcome{Channel: s.waitlistTopic}
	if err := s.producer.Publish(ctx, s.waitlistTopic, input.TrainID, event); err != nil {
		log.Printf("WARNING: failed to publish waitlist event for train %s: %v", input.TrainID, err)
		metrics.PublishFailures.WithLabelValues(s.waitlistTopic).Inc()
		outcome.Err = err
	}

	return &BookingResult{Status: StatusWaitlisted, Outcomes: []PublishOutcome{outcome}}
}

func (s *BookingService) publishCreated(ctx context.Context, booking *domain.Booking) PublishOutcome {
	event := kafka.BookingCreatedEvent{
		Type:        kafka.EventTypeBookingCreated,
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		TrainID:     booking.TrainID,
		RouteID:     booking.RouteID,
		TravelDate:  booking.TravelDate.Format(time.RFC3339),
		TicketClass: string(booking.TicketClass),
		Passengers:  booking.Passengers,
		TotalPrice:  booking.TotalPrice,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	outcome := PublishOutcome{Channel: s.bookingEventsTopic}
	if err := s.producer.Publish(ctx, s.bookingEventsTopic, booking.ID, event); err != nil {
		log.Printf("WARNING: failed to publish booking_created event for booking %s: %v", booking.ID, err)
		metrics.PublishFailures.WithLabelValues(s.bookingEventsTopic).Inc()
		outcome.Err = err
	}
	return outcome
}

func (s *BookingService) enqueueConfirmationEmail(ctx context.Context, booking *domain.Booking) PublishOutcome {
	job := queue.EmailJob{
		Type:       queue.JobTypeBookingConfirmation,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		TrainID:    booking.TrainID,
		TravelDate: booking.TravelDate.Format(time.RFC3339),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	outcome := PublishOutcome{Channel: s.emailStream}
	if err := s.queue.Enqueue(ctx, s.emailStream, job); err != nil {
		log.Printf("WARNING: failed to enqueue confirmation email for booking %s: %v", booking.ID, err)
		metrics.PublishFailures.WithLabelValues(s.emailStream).Inc()
		outcome.Err = err
	}
	return outcome
}

var _ BookingUseCase = (*BookingService)(nil)
