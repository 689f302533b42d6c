package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"venuedesk/internal/events"
	"venuedesk/internal/metrics"
	"venuedesk/internal/models"
	"venuedesk/internal/storage"
)

// NotificationService turns booking events into persisted help-desk
// notifications. It subscribes to the event bus; nothing else creates
// notifications. The stored array is ordered newest first.
type NotificationService struct {
	store  storage.Store
	logger *zerolog.Logger
}

func NewNotificationService(store storage.Store, logger *zerolog.Logger) *NotificationService {
	return &NotificationService{store: store, logger: logger}
}

// Subscribe wires the notification handlers for every booking event type.
func (s *NotificationService) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventBookingCreated, s.onCreated)
	bus.Subscribe(events.EventBookingApproved, s.onApproved)
	bus.Subscribe(events.EventBookingRejected, s.onRejected)
	bus.Subscribe(events.EventBookingDeleted, s.onDeleted)
	bus.Subscribe(events.EventBookingsPurged, s.onPurged)
}

// ListAll returns every notification, most recent first.
func (s *NotificationService) ListAll(ctx context.Context) ([]models.Notification, error) {
	return s.load(ctx)
}

// MarkRead flips a notification's read flag to true. Unknown ids are a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	notifications, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range notifications {
		if notifications[i].ID == id {
			if notifications[i].Read {
				return nil
			}
			notifications[i].Read = true
			return s.save(ctx, notifications)
		}
	}
	return nil
}

// UnreadCount returns how many notifications are still unread.
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	notifications, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range notifications {
		if !notifications[i].Read {
			count++
		}
	}
	return count, nil
}

// DeleteAll clears the notification collection. Storage failures are logged
// and reported as false.
func (s *NotificationService) DeleteAll(ctx context.Context) bool {
	if err := s.store.Delete(ctx, storage.KeyNotifications); err != nil {
		s.logger.Error().Err(err).Msg("delete all notifications")
		return false
	}
	return true
}

func (s *NotificationService) onCreated(event *events.Event) error {
	p, err := events.DecodePayload(event)
	if err != nil {
		return err
	}
	return s.create(models.Notification{
		Type:      models.NotificationInfo,
		Title:     "New Booking Request",
		Message:   fmt.Sprintf("New facility booking request from %s for %s", p.RequesterName, p.Venue),
		RequestID: p.BookingID,
	})
}

func (s *NotificationService) onApproved(event *events.Event) error {
	p, err := events.DecodePayload(event)
	if err != nil {
		return err
	}

	// One notification for the requester, one for the help desk.
	if err := s.create(models.Notification{
		Type:      models.NotificationSuccess,
		Title:     "Booking Approved",
		Message:   fmt.Sprintf("Your booking request for %s has been approved", p.Venue),
		RequestID: p.BookingID,
	}); err != nil {
		return err
	}
	return s.create(models.Notification{
		Type:      models.NotificationSuccess,
		Title:     "Booking Approved",
		Message:   fmt.Sprintf("Booking request from %s has been approved by %s", p.RequesterName, p.Actor),
		RequestID: p.BookingID,
	})
}

func (s *NotificationService) onRejected(event *events.Event) error {
	p, err := events.DecodePayload(event)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Your booking request for %s has been rejected.", p.Venue)
	if p.Reason != "" {
		message += fmt.Sprintf(" Reason: %s", p.Reason)
	}

	if err := s.create(models.Notification{
		Type:      models.NotificationError,
		Title:     "Booking Rejected",
		Message:   message,
		RequestID: p.BookingID,
	}); err != nil {
		return err
	}
	return s.create(models.Notification{
		Type:      models.NotificationWarning,
		Title:     "Booking Rejected",
		Message:   fmt.Sprintf("Booking request from %s has been rejected by %s", p.RequesterName, p.Actor),
		RequestID: p.BookingID,
	})
}

func (s *NotificationService) onDeleted(event *events.Event) error {
	p, err := events.DecodePayload(event)
	if err != nil {
		return err
	}
	return s.create(models.Notification{
		Type:      models.NotificationWarning,
		Title:     "Booking Deleted",
		Message:   fmt.Sprintf("Booking request %q has been permanently deleted by admin", p.Event),
		RequestID: p.BookingID,
	})
}

func (s *NotificationService) onPurged(event *events.Event) error {
	p, err := events.DecodePayload(event)
	if err != nil {
		return err
	}

	var title, message string
	switch p.Scope {
	case events.PurgeByStatus:
		title = fmt.Sprintf("%s Bookings Deleted", capitalize(p.Status))
		message = fmt.Sprintf("%d %s booking(s) have been permanently deleted by admin", p.Count, p.Status)
	case events.PurgeByDateRange:
		title = "Bookings Deleted by Date Range"
		message = fmt.Sprintf("%d booking(s) from %s to %s have been permanently deleted by admin",
			p.Count, p.StartDate, p.EndDate)
	default:
		title = "All Bookings Deleted"
		message = "All booking records have been permanently deleted by admin"
	}

	return s.create(models.Notification{
		Type:    models.NotificationWarning,
		Title:   title,
		Message: message,
	})
}

// create prepends the notification so the stored order stays newest-first.
func (s *NotificationService) create(n models.Notification) error {
	ctx := context.Background()

	notifications, err := s.load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("title", n.Title).Msg("create notification: load")
		return err
	}

	n.ID = uuid.NewString()
	n.Timestamp = time.Now()
	n.Read = false

	notifications = append([]models.Notification{n}, notifications...)
	if err := s.save(ctx, notifications); err != nil {
		s.logger.Error().Err(err).Str("title", n.Title).Msg("create notification: save")
		return err
	}

	metrics.IncNotification(n.Type)
	return nil
}

func (s *NotificationService) load(ctx context.Context) ([]models.Notification, error) {
	raw, ok, err := s.store.Get(ctx, storage.KeyNotifications)
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	if !ok {
		return []models.Notification{}, nil
	}

	var notifications []models.Notification
	if err := json.Unmarshal([]byte(raw), &notifications); err != nil {
		return nil, fmt.Errorf("parse stored notifications: %w", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

func (s *NotificationService) save(ctx context.Context, notifications []models.Notification) error {
	raw, err := json.Marshal(notifications)
	if err != nil {
		return fmt.Errorf("encode notifications: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyNotifications, string(raw)); err != nil {
		return fmt.Errorf("save notifications: %w", err)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
