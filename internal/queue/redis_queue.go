package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const JobTypeBookingConfirmation = "BOOKING_CONFIRMATION"

type EmailJob struct {
	Type       string `json:"type"`
	BookingID  string `json:"booking_id"`
	UserID     string `json:"user_id"`
	TrainID    string `json:"train_id"`
	TravelDate string `json:"travel_date"`
	Timestamp  string `json:"timestamp"`
}

// RedisQueue is a durable task queue on top of Redis Streams. Jobs accepted by
// Enqueue are delivered at least once to a consumer group; entries left
// unacked by a crashed consumer are picked up on its next start.
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Enqueue(ctx context.Context, stream string, job interface{}) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{"payload": data},
	}).Err()
}

// Consume reads jobs for the given consumer group until the context is
// canceled. Jobs are acked only after the handler succeeds; undecodable
// entries are acked and skipped. The consumer's own pending entries are
// drained before new ones are read.
func (q *RedisQueue) Consume(ctx context.Context, stream, group, consumer string, handler func(context.Context, []byte) error) error {
	if err := q.ensureGroup(ctx, stream, group); err != nil {
		return err
	}

	cursor := "0"
	for {
		res, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    group,
			Consumer: consumer,
			Streams:  []string{stream, cursor},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		delivered := 0
		for _, s := range res {
			for _, msg := range s.Messages {
				delivered++
				q.handle(ctx, stream, group, msg, handler)
			}
		}
		// Pending backlog exhausted, switch to new entries.
		if cursor == "0" && delivered == 0 {
			cursor = ">"
		}
	}
}

func (q *RedisQueue) handle(ctx context.Context, stream, group string, msg redis.XMessage, handler func(context.Context, []byte) error) {
	payload, ok := msg.Values["payload"].(string)
	if !ok {
		log.Printf("queue %s: entry %s has no payload, skipping", stream, msg.ID)
		_ = q.client.XAck(ctx, stream, group, msg.ID).Err()
		return
	}
	if err := handler(ctx, []byte(payload)); err != nil {
		log.Printf("queue %s: handle entry %s: %v", stream, msg.ID, err)
		return
	}
	if err := q.client.XAck(ctx, stream, group, msg.ID).Err(); err != nil {
		log.Printf("queue %s: ack entry %s: %v", stream, msg.ID, err)
	}
}

func (q *RedisQueue) ensureGroup(ctx context.Context, stream, group string) error {
	err := q.client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}
