package storage

import "context"

// Store is the key-value persistence contract. Values are opaque strings;
// the service layer stores JSON-encoded arrays under a fixed set of keys.
// A missing key is reported via ok=false, not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

const (
	// KeyBookings holds the JSON array of booking requests.
	KeyBookings = "venuedesk:bookings"
	// KeyNotifications holds the JSON array of notifications, newest first.
	KeyNotifications = "venuedesk:notifications"
)
