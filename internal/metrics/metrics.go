package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingRequests counts booking requests by outcome (confirmed, waitlisted, error).
	BookingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookings",
			Name:      "requests_total",
			Help:      "The total number of booking requests by outcome",
		},
		[]string{"outcome"},
	)

	// PublishFailures counts best-effort publish and enqueue failures by channel.
	PublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notifications",
			Name:      "publish_failed_total",
			Help:      "The total number of failed notification publishes",
		},
		[]string{"channel"},
	)

	// EmailsSent counts emails sent by the worker.
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notifications",
			Name:      "emails_sent_total",
			Help:      "The total number of emails sent",
		},
		[]string{"kind"},
	)
)
