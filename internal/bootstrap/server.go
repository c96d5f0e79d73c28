package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/railrover/railrover/api"
	"github.com/railrover/railrover/config"
	"github.com/railrover/railrover/internal/service/analytics"
	"github.com/railrover/railrover/internal/service/booking"
	"github.com/railrover/railrover/internal/service/trains"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, trainSvc trains.TrainUseCase, bookingSvc booking.BookingUseCase, analyticsSvc analytics.AnalyticsUseCase) error {
	srv := newServer(cfg, trainSvc, bookingSvc, analyticsSvc)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServer(cfg *config.Config, trainSvc trains.TrainUseCase, bookingSvc booking.BookingUseCase, analyticsSvc analytics.AnalyticsUseCase) *http.Server {
	started := time.Now()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
			"uptime_seconds": int64(time.Since(started).Seconds()),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api")
	api.NewTrainHandler(trainSvc).Register(apiGroup.Group("/trains"))
	api.NewBookingHandler(bookingSvc).Register(apiGroup.Group("/bookings"))
	api.NewAnalyticsHandler(analyticsSvc).Register(apiGroup.Group("/analytics"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger-json", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger-json/swagger.json"))))
	}

	return &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}
}
