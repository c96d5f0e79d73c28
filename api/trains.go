package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/railrover/railrover/internal/domain"
	"github.com/railrover/railrover/internal/service/trains"
)

type TrainHandler struct {
	service trains.TrainUseCase
}

type createTrainRequest struct {
	Name       string   `json:"name"`
	Number     string   `json:"number"`
	Type       string   `json:"type"`
	TotalSeats int      `json:"total_seats"`
	Amenities  []string `json:"amenities"`
}

type trainResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Number     string   `json:"number"`
	Type       string   `json:"type"`
	TotalSeats int      `json:"total_seats"`
	Amenities  []string `json:"amenities"`
	Active     bool     `json:"active"`
	CreatedAt  string   `json:"created_at"`
}

func NewTrainHandler(service trains.TrainUseCase) *TrainHandler {
	return &TrainHandler{service: service}
}

func (h *TrainHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
}

func (h *TrainHandler) list(c *gin.Context) {
	all, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Status: "error", Reason: "Failed to fetch trains"})
		return
	}

	out := make([]trainResponse, 0, len(all))
	for i := range all {
		out = append(out, toTrainResponse(&all[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *TrainHandler) get(c *gin.Context) {
	train, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTrainNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Status: "error", Reason: "Train not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Status: "error", Reason: "Failed to fetch train"})
		return
	}
	c.JSON(http.StatusOK, toTrainResponse(train))
}

func (h *TrainHandler) create(c *gin.Context) {
	var req createTrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Status: "error", Reason: err.Error()})
		return
	}

	train, err := h.service.Create(c.Request.Context(), trains.CreateTrainInput{
		Name:       req.Name,
		Number:     req.Number,
		Type:       req.Type,
		TotalSeats: req.TotalSeats,
		Amenities:  req.Amenities,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, errorResponse{Status: "error", Reason: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Status: "error", Reason: "Failed to create train"})
		return
	}
	c.JSON(http.StatusCreated, toTrainResponse(train))
}

func toTrainResponse(t *domain.Train) trainResponse {
	return trainResponse{
		ID:         t.ID,
		Name:       t.Name,
		Number:     t.Number,
		Type:       t.Type,
		TotalSeats: t.TotalSeats,
		Amenities:  t.Amenities,
		Active:     t.Active,
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
	}
}
