package kafka

const (
	EventTypeBookingCreated    = "BOOKING_CREATED"
	EventTypeWaitlistRequested = "WAITLIST_REQUESTED"
)

type BookingCreatedEvent struct {
	Type        string `json:"type"`
	BookingID   string `json:"booking_id"`
	UserID      string `json:"user_id"`
	TrainID     string `json:"train_id"`
	RouteID     string `json:"route_id"`
	TravelDate  string `json:"travel_date"`
	TicketClass string `json:"ticket_class"`
	Passengers  int    `json:"passengers"`
	TotalPrice  int64  `json:"total_price"`
	Timestamp   string `json:"timestamp"`
}

type WaitlistEvent struct {
	Type        string `json:"type"`
	UserID      string `json:"user_id"`
	TrainID     string `json:"train_id"`
	RouteID     string `json:"route_id"`
	TravelDate  string `json:"travel_date"`
	TicketClass string `json:"ticket_class"`
	Passengers  int    `json:"passengers"`
	Timestamp   string `json:"timestamp"`
}
