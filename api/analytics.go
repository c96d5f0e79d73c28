package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/railrover/railrover/internal/service/analytics"
)

type AnalyticsHandler struct {
	service analytics.AnalyticsUseCase
}

type dashboardResponse struct {
	TotalBookings int64 `json:"total_bookings"`
	ActiveTrains  int64 `json:"active_trains"`
	TotalRevenue  int64 `json:"total_revenue"`
}

type revenuePointResponse struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
}

func NewAnalyticsHandler(service analytics.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) Register(router *gin.RouterGroup) {
	router.GET("/dashboard", h.dashboard)
	router.GET("/revenue", h.revenue)
}

func (h *AnalyticsHandler) dashboard(c *gin.Context) {
	stats, err := h.service.DashboardStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Status: "error", Reason: "Failed to fetch stats"})
		return
	}
	c.JSON(http.StatusOK, dashboardResponse{
		TotalBookings: stats.TotalBookings,
		ActiveTrains:  stats.ActiveTrains,
		TotalRevenue:  stats.TotalRevenue,
	})
}

func (h *AnalyticsHandler) revenue(c *gin.Context) {
	points, err := h.service.RevenueTimeline(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Status: "error", Reason: "Failed to fetch revenue timeline"})
		return
	}

	out := make([]revenuePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, revenuePointResponse{Date: p.Date.Format("2006-01-02"), Revenue: p.Revenue})
	}
	c.JSON(http.StatusOK, out)
}
