package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/railrover/railrover/internal/domain"
	"github.com/railrover/railrover/internal/kafka"
	"github.com/railrover/railrover/internal/pricing"
	"github.com/railrover/railrover/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateConfirmed(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) SeatsPromised(ctx context.Context, trainID string, travelDate time.Time) (int, error) {
	args := m.Called(ctx, trainID, travelDate)
	return args.Int(0), args.Error(1)
}

type MockTrainRepository struct {
	mock.Mock
}

func (m *MockTrainRepository) ListActive(ctx context.Context) ([]domain.Train, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Train), args.Error(1)
}

func (m *MockTrainRepository) GetByID(ctx context.Context, id string) (*domain.Train, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Train), args.Error(1)
}

func (m *MockTrainRepository) Create(ctx context.Context, train *domain.Train) error {
	args := m.Called(ctx, train)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type MockTaskQueue struct {
	mock.Mock
}

func (m *MockTaskQueue) Enqueue(ctx context.Context, stream string, job interface{}) error {
	args := m.Called(ctx, stream, job)
	return args.Error(0)
}

func newTestService(bookings *MockBookingRepository, trains *MockTrainRepository, producer *MockProducer, taskQueue *MockTaskQueue) *BookingService {
	return &BookingService{
		bookings:           bookings,
		trains:             trains,
		producer:           producer,
		queue:              taskQueue,
		bookingEventsTopic: "booking-events",
		waitlistTopic:      "waitlist-requests",
		emailStream:        "email-notifications",
	}
}

func activeTrain(id string, seats int) *domain.Train {
	return &domain.Train{
		ID:         id,
		Name:       "Coastal Express",
		Number:     "CE-101",
		TotalSeats: seats,
		Active:     true,
	}
}

func testInput(trainID string, passengers int) CreateBookingInput {
	return CreateBookingInput{
		UserID:      "user-1",
		TrainID:     trainID,
		RouteID:     "route-1",
		TravelDate:  time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		TicketClass: domain.TicketClassEconomy,
		Passengers:  passengers,
	}
}

func TestCreateBooking_Confirmed(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTrains := &MockTrainRepository{}
	mockProducer := &MockProducer{}
	mockQueue := &MockTaskQueue{}
	service := newTestService(mockBookings, mockTrains, mockProducer, mockQueue)

	ctx := context.Background()
	input := testInput("train-1", 2)

	mockTrains.On("GetByID", ctx, "train-1").Return(activeTrain("train-1", 5), nil).Once()
	mockBookings.On("SeatsPromised", ctx, "train-1", input.TravelDate).Return(0, nil).Once()
	mockBookings.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking")).
		Run(func(args mock.Arguments) {
			b := args.Get(1).(*domain.Booking)
			b.Status = domain.BookingStatusConfirmed
			b.CreatedAt = time.Now()
		}).
		Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", mock.Anything, mock.Anything).Return(nil).Once()
	mockQueue.On("Enqueue", ctx, "email-notifications", mock.Anything).Return(nil).Once()

	result, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, result.Status)
	assert.NotNil(t, result.Booking)
	assert.NotEmpty(t, result.Booking.ID)
	assert.Equal(t, int64(100), result.Booking.TotalPrice)
	assert.Equal(t, domain.BookingStatusConfirmed, result.Booking.Status)
	for _, outcome := range result.Outcomes {
		assert.NoError(t, outcome.Err)
	}

	mockBookings.AssertExpectations(t)
	mockTrains.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
	mockQueue.AssertExpectations(t)
}

func TestCreateBooking_Waitlisted(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTrains := &MockTrainRepository{}
	mockProducer := &MockProducer{}
	mockQueue := &MockTaskQueue{}
	service := newTestService(mockBookings, mockTrains, mockProducer, mockQueue)

	ctx := context.Background()
	input := testInput("train-1", 3)

	mockTrains.On("GetByID", ctx, "train-1").Return(activeTrain("train-1", 2), nil).Once()
	mockBookings.On("SeatsPromised", ctx, "train-1", input.TravelDate).Return(0, nil).Once()
	mockProducer.On("Publish", ctx, "waitlist-requests", "train-1", mock.Anything).Return(nil).Once()

	result, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, StatusWaitlisted, result.Status)
	assert.Nil(t, result.Booking)

	mockBookings.AssertNotCalled(t, "CreateConfirmed", mock.Anything, mock.Anything)
	mockQueue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
	mockProducer.AssertExpectations(t)
}

func TestCreateBooking_WaitlistedWhenSeatsAlreadyPromised(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTrains := &MockTrainRepository{}
	mockProducer := &MockProducer{}
	mockQueue := &MockTaskQueue{}
	service := newTestService(mockBookings, mockTrains, mockProducer, mockQueue)

	ctx := context.Background()
	input := testInput("train-1", 3)

	// 5 total seats, 4 already promised for the travel date.
	mockTrains.On("GetByID", ctx, "train-1").Return(activeTrain("train-1", 5), nil).Once()
	mockBookings.On("SeatsPromised", ctx, "train-1", input.TravelDate).Return(4, nil).Once()
	mockProducer.On("Publish", ctx, "waitlist-requests", "train-1", mock.Anything).Return(nil).Once()

	result, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, StatusWaitlisted, result.Status)
	mockBookings.AssertNotCalled(t, "CreateConfirmed", mock.Anything, mock.Anything)
}

func TestCreateBooking_TrainNotFound(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTrains := &MockTrainRepository{}
	mockProducer := &MockProducer{}
	mockQueue := &MockTaskQueue{}
	service := newTestService(mockBookings, mockTrains, mockProducer, mockQueue)

	ctx := context.Background()

	mockTrains.On("GetByID", ctx, "missing").Return(nil, domain.ErrTrainNotFound).Once()

	result, err := service.CreateBooking(ctx, testInput("missing", 2))

	assert.ErrorIs(t, err, domain.ErrTrainNotFound)
	assert.Nil(t, result)

	mockBookings.AssertNotCalled(t, "CreateConfirmed", mock.Anything, mock.Anything)
	mockProducer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockQueue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_TrainNotActive(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTrains := &MockTrainRepository{}
	mockProducer := &MockProducer{}
	mockQueue := &MockTaskQueue{}
	service := newTestService(mockBookings, mockTrains, mockProducer, mockQueue)

	ctx := context.Background()
	train := activeTrain("train-1", 5)
	train.Active = false

	mockTrains.On("GetByID", ctx, "train-1").Return(train, nil).Once()

	result, err := service.CreateBooking(ctx, testInput("train-1", 2))

	assert.ErrorIs(t, err, domain.ErrTrainNotActive)
	assert.Nil(t, result)
}

func TestCreateBooking_InvalidInput(t *testing.T) {
	service := newTestService(&MockBookingRepository{}, &MockTrainRepository{}, &MockProducer{}, &MockTaskQueue{})
	ctx := context.Background()

	input := testInput("train-1", 0)
	_, err := service.CreateBooking(ctx, input)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	input = testInput("train-1", 2)
	input.TicketClass = "Luxury"
	_, err = service.CreateBooking(ctx, input)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	input = testInput("train-1", 2)
	input.UserID = ""
	_, err = service.CreateBooking(ctx, input)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateBooking_CommitTimeCapacityLossGoesToWaitlist(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTrains := &MockTrainRepository{}
	mockProducer := &MockProducer{}
	mockQueue := &MockTaskQueue{}
	service := newTestService(mockBookings, mockTrains, mockProducer, mockQueue)

	ctx := context.Background()
	input := testInput("train-1", 2)

	mockTrains.On("GetByID", ctx, "train-1").Return(activeTrain("train-1", 5), nil).Once()
	mockBookings.On("SeatsPromised", ctx, "train-1", input.TravelDate).Return(0, nil).Once()
	mockBookings.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking")).Return(domain.ErrInsufficientCapacity).Once()
	mockProducer.On("Publish", ctx, "waitlist-requests", "train-1", mock.Anything).Return(nil).Once()

	result, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, StatusWaitlisted, result.Status)
	mockQueue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_WriteFailureIsSurfaced(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTrains := &MockTrainRepository{}
	mockProducer := &MockProducer{}
	mockQueue := &MockTaskQueue{}
	service := newTestService(mockBookings, mockTrains, mockProducer, mockQueue)

	ctx := context.Background()
	input := testInput("train-1", 2)
	storeErr := errors.New("connection reset")

	mockTrains.On("GetByID", ctx, "train-1").Return(activeTrain("train-1", 5), nil).Once()
	mockBookings.On("SeatsPromised", ctx, "train-1", input.TravelDate).Return(0, nil).Once()
	mockBookings.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking")).Return(storeErr).Once()

	result, err := service.CreateBooking(ctx, input)

	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, result)

	mockProducer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockQueue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_PublishFailureDoesNotFailBooking(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTrains := &MockTrainRepository{}
	mockProducer := &MockProducer{}
	mockQueue := &MockTaskQueue{}
	service := newTestService(mockBookings, mockTrains, mockProducer, mockQueue)

	ctx := context.Background()
	input := testInput("train-1", 2)

	mockTrains.On("GetByID", ctx, "train-1").Return(activeTrain("train-1", 5), nil).Once()
	mockBookings.On("SeatsPromised", ctx, "train-1", input.TravelDate).Return(0, nil).Once()
	mockBookings.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	mockQueue.On("Enqueue", ctx, "email-notifications", mock.Anything).Return(errors.New("redis down")).Once()

	result, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, result.Status)
	assert.Len(t, result.Outcomes, 2)
	for _, outcome := range result.Outcomes {
		assert.Error(t, outcome.Err)
	}
}

func TestCreateBooking_WaitlistPublishFailureStillWaitlists(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTrains := &MockTrainRepository{}
	mockProducer := &MockProducer{}
	mockQueue := &MockTaskQueue{}
	service := newTestService(mockBookings, mockTrains, mockProducer, mockQueue)

	ctx := context.Background()
	input := testInput("train-1", 3)

	mockTrains.On("GetByID", ctx, "train-1").Return(activeTrain("train-1", 2), nil).Once()
	mockBookings.On("SeatsPromised", ctx, "train-1", input.TravelDate).Return(0, nil).Once()
	mockProducer.On("Publish", ctx, "waitlist-requests", "train-1", mock.Anything).Return(errors.New("broker down")).Once()

	result, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, StatusWaitlisted, result.Status)
	assert.Len(t, result.Outcomes, 1)
	assert.Error(t, result.Outcomes[0].Err)
}

func TestCreateBooking_PublishesWaitlistEventPayload(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTrains := &MockTrainRepository{}
	mockProducer := &MockProducer{}
	mockQueue := &MockTaskQueue{}
	service := newTestService(mockBookings, mockTrains, mockProducer, mockQueue)

	ctx := context.Background()
	input := testInput("train-1", 3)

	mockTrains.On("GetByID", ctx, "train-1").Return(activeTrain("train-1", 2), nil).Once()
	mockBookings.On("SeatsPromised", ctx, "train-1", input.TravelDate).Return(0, nil).Once()

	var published kafka.WaitlistEvent
	mockProducer.On("Publish", ctx, "waitlist-requests", "train-1", mock.Anything).
		Run(func(args mock.Arguments) {
			published = args.Get(3).(kafka.WaitlistEvent)
		}).
		Return(nil).Once()

	_, err := service.CreateBooking(ctx, input)
	assert.NoError(t, err)

	assert.Equal(t, kafka.EventTypeWaitlistRequested, published.Type)
	assert.Equal(t, "user-1", published.UserID)
	assert.Equal(t, "train-1", published.TrainID)
	assert.Equal(t, 3, published.Passengers)
	_, parseErr := time.Parse(time.RFC3339, published.Timestamp)
	assert.NoError(t, parseErr)
}

func TestCreateBooking_EnqueuesEmailJob(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTrains := &MockTrainRepository{}
	mockProducer := &MockProducer{}
	mockQueue := &MockTaskQueue{}
	service := newTestService(mockBookings, mockTrains, mockProducer, mockQueue)

	ctx := context.Background()
	input := testInput("train-1", 1)

	mockTrains.On("GetByID", ctx, "train-1").Return(activeTrain("train-1", 5), nil).Once()
	mockBookings.On("SeatsPromised", ctx, "train-1", input.TravelDate).Return(0, nil).Once()
	mockBookings.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", mock.Anything, mock.Anything).Return(nil).Once()

	var job queue.EmailJob
	mockQueue.On("Enqueue", ctx, "email-notifications", mock.Anything).
		Run(func(args mock.Arguments) {
			job = args.Get(2).(queue.EmailJob)
		}).
		Return(nil).Once()

	result, err := service.CreateBooking(ctx, input)
	assert.NoError(t, err)

	assert.Equal(t, queue.JobTypeBookingConfirmation, job.Type)
	assert.Equal(t, result.Booking.ID, job.BookingID)
	assert.Equal(t, "user-1", job.UserID)
}

func TestPriceIsPriceCalculatorOutput(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTrains := &MockTrainRepository{}
	mockProducer := &MockProducer{}
	mockQueue := &MockTaskQueue{}
	service := newTestService(mockBookings, mockTrains, mockProducer, mockQueue)

	ctx := context.Background()
	input := testInput("train-1", 4)
	input.TicketClass = domain.TicketClassBusiness

	mockTrains.On("GetByID", ctx, "train-1").Return(activeTrain("train-1", 10), nil).Once()
	mockBookings.On("SeatsPromised", ctx, "train-1", input.TravelDate).Return(0, nil).Once()
	mockBookings.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", mock.Anything, mock.Anything).Return(nil).Once()
	mockQueue.On("Enqueue", ctx, "email-notifications", mock.Anything).Return(nil).Once()

	result, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, pricing.Calculate(domain.TicketClassBusiness, 4), result.Booking.TotalPrice)
}

// fakeStore is an in-memory store with the same locking discipline as the
// Postgres repository: the capacity check and the insert happen under one
// lock, so concurrent bookings serialize.
type fakeStore struct {
	mu       sync.Mutex
	train    domain.Train
	bookings []domain.Booking
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*domain.Train, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id != f.train.ID {
		return nil, domain.ErrTrainNotFound
	}
	t := f.train
	return &t, nil
}

func (f *fakeStore) ListActive(ctx context.Context) ([]domain.Train, error) {
	return []domain.Train{f.train}, nil
}

func (f *fakeStore) Create(ctx context.Context, train *domain.Train) error {
	return nil
}

func (f *fakeStore) CreateConfirmed(ctx context.Context, booking *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	promised := 0
	for _, b := range f.bookings {
		if b.TrainID == booking.TrainID && b.TravelDate.Equal(booking.TravelDate) {
			promised += b.Passengers
		}
	}
	if promised+booking.Passengers > f.train.TotalSeats {
		return domain.ErrInsufficientCapacity
	}
	booking.Status = domain.BookingStatusConfirmed
	booking.CreatedAt = time.Now()
	f.bookings = append(f.bookings, *booking)
	return nil
}

func (f *fakeStore) GetByIDBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return nil, domain.ErrBookingNotFound
}

func (f *fakeStore) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return nil, nil
}

func (f *fakeStore) SeatsPromised(ctx context.Context, trainID string, travelDate time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	promised := 0
	for _, b := range f.bookings {
		if b.TrainID == trainID && b.TravelDate.Equal(travelDate) {
			promised += b.Passengers
		}
	}
	return promised, nil
}

type bookingStoreAdapter struct {
	*fakeStore
}

func (a bookingStoreAdapter) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return a.fakeStore.GetByIDBooking(ctx, id)
}

type noopProducer struct{}

func (noopProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	return nil
}

type noopQueue struct{}

func (noopQueue) Enqueue(ctx context.Context, stream string, job interface{}) error {
	return nil
}

func TestCreateBooking_ConcurrentRequestsNeverOversell(t *testing.T) {
	store := &fakeStore{train: domain.Train{ID: "train-1", TotalSeats: 3, Active: true}}
	service := NewBookingService(
		bookingStoreAdapter{store},
		store,
		noopProducer{},
		noopQueue{},
		"booking-events",
		"waitlist-requests",
		"email-notifications",
	)

	ctx := context.Background()
	const workers = 8

	var wg sync.WaitGroup
	results := make([]*BookingResult, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Each request wants 2 of the 3 seats; only one can confirm.
			result, err := service.CreateBooking(ctx, testInput("train-1", 2))
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	confirmed := 0
	for _, r := range results {
		if r.Status == StatusConfirmed {
			confirmed++
		} else {
			assert.Equal(t, StatusWaitlisted, r.Status)
		}
	}
	assert.Equal(t, 1, confirmed)

	promised, err := store.SeatsPromised(ctx, "train-1", testInput("train-1", 2).TravelDate)
	assert.NoError(t, err)
	assert.LessOrEqual(t, promised, store.train.TotalSeats)
}
