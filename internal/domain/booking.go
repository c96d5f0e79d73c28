package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	// BookingStatusWaitlisted is a response-only state, never persisted.
	BookingStatusWaitlisted BookingStatus = "waitlisted"
)

type TicketClass string

const (
	TicketClassEconomy  TicketClass = "Economy"
	TicketClassBusiness TicketClass = "Business"
	TicketClassFirst    TicketClass = "First"
)

func (c TicketClass) Valid() bool {
	switch c {
	case TicketClassEconomy, TicketClassBusiness, TicketClassFirst:
		return true
	}
	return false
}

type Booking struct {
	ID          string
	UserID      string
	TrainID     string
	RouteID     string
	TravelDate  time.Time
	TicketClass TicketClass
	Passengers  int
	TotalPrice  int64
	Status      BookingStatus
	CreatedAt   time.Time
}
