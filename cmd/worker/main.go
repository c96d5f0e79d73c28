package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/railrover/railrover/config"
	"github.com/railrover/railrover/internal/cache"
	"github.com/railrover/railrover/internal/email"
	"github.com/railrover/railrover/internal/kafka"
	"github.com/railrover/railrover/internal/queue"
	kafkaGo "github.com/segmentio/kafka-go"
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

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.TrainsCacheTTL)*time.Second)
	emailQueue := queue.NewRedisQueue(redisCache.Client())
	emailSender := email.NewSender()

	// Confirmation emails come off the durable Redis Streams queue.
	go func() {
		err := emailQueue.Consume(ctx, cfg.Queue.EmailStream, cfg.Queue.Group, cfg.Queue.Consumer, func(ctx context.Context, payload []byte) error {
			var job queue.EmailJob
			if err := json.Unmarshal(payload, &job); err != nil {
				log.Printf("decode email job: %v", err)
				return nil
			}
			return emailSender.SendConfirmation(ctx, job)
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("email queue consumer stopped: %v", err)
		}
	}()

	// Waitlist notifications come off the Kafka waitlist topic.
	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.WaitlistTopic)
	defer consumer.Close()

	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.WaitlistEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode waitlist event: %v", err)
				return nil
			}
			return emailSender.SendWaitlisted(ctx, event)
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("waitlist consumer stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down worker")
}
