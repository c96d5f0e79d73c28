package email

import (
	"context"
	"log"

	"github.com/railrover/railrover/internal/kafka"
	"github.com/railrover/railrover/internal/metrics"
	"github.com/railrover/railrover/internal/queue"
)

// Sender delivers booking emails. The transport is a stub that logs the
// message; swapping in SMTP only touches this package.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) SendConfirmation(ctx context.Context, job queue.EmailJob) error {
	log.Printf("email to user %s: booking %s confirmed for train %s on %s", job.UserID, job.BookingID, job.TrainID, job.TravelDate)
	metrics.EmailsSent.WithLabelValues("confirmation").Inc()
	return nil
}

func (s *Sender) SendWaitlisted(ctx context.Context, event kafka.WaitlistEvent) error {
	log.Printf("email to user %s: waitlisted for train %s on %s (%d passengers)", event.UserID, event.TrainID, event.TravelDate, event.Passengers)
	metrics.EmailsSent.WithLabelValues("waitlist").Inc()
	return nil
}
