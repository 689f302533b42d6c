package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated  = "booking_created"
	EventBookingApproved = "booking_approved"
	EventBookingRejected = "booking_rejected"
	EventBookingDeleted  = "booking_deleted"
	EventBookingsPurged  = "bookings_purged"
)

// Purge scopes carried by EventBookingsPurged.
const (
	PurgeAll         = "all"
	PurgeByStatus    = "status"
	PurgeByDateRange = "date_range"
)

// BookingEventPayload is the booking snapshot carried by every event. Only
// the fields relevant to a given event type are populated.
type BookingEventPayload struct {
	BookingID     string `json:"booking_id,omitempty"`
	RequesterName string `json:"requester_name,omitempty"`
	Venue         string `json:"venue,omitempty"`
	Event         string `json:"event,omitempty"`
	Status        string `json:"status,omitempty"`
	Actor         string `json:"actor,omitempty"`
	Reason        string `json:"reason,omitempty"`

	// Purge events describe the deleted set instead of a single booking.
	Scope     string `json:"scope,omitempty"`
	Count     int    `json:"count,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// Event is a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Handler reacts to an event.
type Handler func(event *Event) error

// Bus provides synchronous in-process pub/sub. Handlers run on the
// publisher's goroutine; the single-writer execution model needs no more.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event. Safe on a nil
// bus so components can run without subscribers wired.
func (b *Bus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

// DecodePayload unmarshals an event payload into a BookingEventPayload.
func DecodePayload(event *Event) (BookingEventPayload, error) {
	var payload BookingEventPayload
	err := json.Unmarshal(event.Payload, &payload)
	return payload, err
}
