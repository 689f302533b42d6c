package models

import "time"

// Notification is an audit/alert entry created as a side effect of a booking
// mutation. RequestID is a weak reference: the booking it points at may have
// been deleted since.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // success, error, info, warning
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	RequestID string    `json:"requestId,omitempty"`
}
