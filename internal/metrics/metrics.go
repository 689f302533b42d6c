package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venuedesk",
			Name:      "booking_operations_total",
			Help:      "Booking mutations by operation.",
		},
		[]string{"operation"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venuedesk",
			Name:      "notifications_total",
			Help:      "Notifications created by type.",
		},
		[]string{"type"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venuedesk",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingOps, notifications, httpRequests)
	})
}

// IncBookingOp increments the counter for a booking operation label.
func IncBookingOp(operation string) {
	bookingOps.WithLabelValues(operation).Inc()
}

// IncNotification increments the counter for a notification type.
func IncNotification(notificationType string) {
	notifications.WithLabelValues(notificationType).Inc()
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
