package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/railrover/railrover/config"
	"github.com/railrover/railrover/internal/bootstrap"
	"github.com/railrover/railrover/internal/cache"
	"github.com/railrover/railrover/internal/kafka"
	"github.com/railrover/railrover/internal/queue"
	"github.com/railrover/railrover/internal/repository"
	"github.com/railrover/railrover/internal/service/analytics"
	"github.com/railrover/railrover/internal/service/booking"
	"github.com/railrover/railrover/internal/service/trains"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.TrainsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	emailQueue := queue.NewRedisQueue(redisCache.Client())

	trainRepo := repository.NewTrainRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)

	trainService := trains.NewTrainService(trainRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		trainRepo,
		producer,
		emailQueue,
		cfg.Kafka.BookingEventsTopic,
		cfg.Kafka.WaitlistTopic,
		cfg.Queue.EmailStream,
	)
	analyticsService := analytics.NewAnalyticsService(analyticsRepo)

	if err := bootstrap.Run(ctx, cfg, trainService, bookingService, analyticsService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
