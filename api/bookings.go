package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/railrover/railrover/internal/domain"
	"github.com/railrover/railrover/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	UserID      string `json:"user_id"`
	TrainID     string `json:"train_id"`
	RouteID     string `json:"route_id"`
	TravelDate  string `json:"travel_date"`
	TicketClass string `json:"ticket_class"`
	Passengers  int    `json:"passengers"`
}

type bookingResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	TrainID     string `json:"train_id"`
	RouteID     string `json:"route_id"`
	TravelDate  string `json:"travel_date"`
	TicketClass string `json:"ticket_class"`
	Passengers  int    `json:"passengers"`
	TotalPrice  int64  `json:"total_price"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type bookingResultResponse struct {
	Status  string           `json:"status"`
	Booking *bookingResponse `json:"booking,omitempty"`
}

type errorResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.GET("/user/:userId", h.listByUser)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Status: "error", Reason: err.Error()})
		return
	}

	travelDate, err := parseTravelDate(req.TravelDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Status: "error", Reason: "invalid travel date"})
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:      req.UserID,
		TrainID:     req.TrainID,
		RouteID:     req.RouteID,
		TravelDate:  travelDate,
		TicketClass: domain.TicketClass(req.TicketClass),
		Passengers:  req.Passengers,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTrainNotFound):
			c.JSON(http.StatusNotFound, errorResponse{Status: "error", Reason: "Train not found"})
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrTrainNotActive):
			c.JSON(http.StatusBadRequest, errorResponse{Status: "error", Reason: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, errorResponse{Status: "error", Reason: "Booking failed"})
		}
		return
	}

	switch result.Status {
	case booking.StatusWaitlisted:
		c.JSON(http.StatusAccepted, bookingResultResponse{Status: string(booking.StatusWaitlisted)})
	default:
		c.JSON(http.StatusCreated, bookingResultResponse{
			Status:  string(booking.StatusConfirmed),
			Booking: toBookingResponse(result.Booking),
		})
	}
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Status: "error", Reason: "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Status: "error", Reason: "Failed to fetch booking"})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) listByUser(c *gin.Context) {
	bookings, err := h.service.ListUserBookings(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Status: "error", Reason: "Failed to fetch bookings"})
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, *toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func toBookingResponse(b *domain.Booking) *bookingResponse {
	return &bookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		TrainID:     b.TrainID,
		RouteID:     b.RouteID,
		TravelDate:  b.TravelDate.Format(time.RFC3339),
		TicketClass: string(b.TicketClass),
		Passengers:  b.Passengers,
		TotalPrice:  b.TotalPrice,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
}

func parseTravelDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
