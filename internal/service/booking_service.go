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

// BookingService owns the canonical booking collection. Every mutation is a
// full read-modify-write of the stored JSON array; callers always receive
// value copies, never references into the stored state.
type BookingService struct {
	store  storage.Store
	bus    *events.Bus
	logger *zerolog.Logger
}

func NewBookingService(store storage.Store, bus *events.Bus, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:  store,
		bus:    bus,
		logger: logger,
	}
}

// ListAll returns every stored booking in insertion order. An absent storage
// key yields an empty slice.
func (s *BookingService) ListAll(ctx context.Context) ([]models.BookingRequest, error) {
	return s.loadBookings(ctx)
}

// GetByID returns the booking with the given id, or (nil, nil) when absent.
func (s *BookingService) GetByID(ctx context.Context, id string) (*models.BookingRequest, error) {
	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		if bookings[i].ID == id {
			b := bookings[i]
			return &b, nil
		}
	}
	return nil, nil
}

// Create stores a new booking request. Identity, status and timestamps on the
// draft are overwritten: the booking starts pending with a fresh unique id.
func (s *BookingService) Create(ctx context.Context, draft models.BookingRequest) (*models.BookingRequest, error) {
	if draft.NumberOfGuests < 0 {
		return nil, fmt.Errorf("number of guests must be non-negative")
	}

	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	draft.ID = newUniqueID(bookings)
	draft.Status = models.StatusPending
	draft.Approved = nil
	draft.CreatedAt = now
	draft.UpdatedAt = now

	bookings = append(bookings, draft)
	if err := s.saveBookings(ctx, bookings); err != nil {
		return nil, err
	}

	metrics.IncBookingOp("create")
	s.publish(events.EventBookingCreated, events.BookingEventPayload{
		BookingID:     draft.ID,
		RequesterName: draft.RequesterName,
		Venue:         draft.VenueRequested,
		Event:         draft.Event,
		Status:        draft.Status,
	})

	return &draft, nil
}

// Update merges the given fields into the stored booking and refreshes
// UpdatedAt. Returns (nil, nil) when the id is unknown.
func (s *BookingService) Update(ctx context.Context, id string, upd models.BookingUpdate) (*models.BookingRequest, error) {
	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range bookings {
		if bookings[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil
	}

	applyUpdate(&bookings[idx], upd)
	bookings[idx].UpdatedAt = time.Now()

	if err := s.saveBookings(ctx, bookings); err != nil {
		return nil, err
	}

	metrics.IncBookingOp("update")
	updated := bookings[idx]
	return &updated, nil
}

// Approve marks the booking approved and fills the review fields. A booking
// already reviewed is overwritten: corrections go through the same path.
func (s *BookingService) Approve(ctx context.Context, id, approverName string) (*models.BookingRequest, error) {
	approved := true
	status := models.StatusApproved
	date := time.Now().Format(models.ApprovedDateLayout)

	booking, err := s.Update(ctx, id, models.BookingUpdate{
		Status:            &status,
		Approved:          &approved,
		ApprovedBy:        &approverName,
		ApprovedDate:      &date,
		ApprovedSignature: &approverName,
	})
	if err != nil || booking == nil {
		return booking, err
	}

	metrics.IncBookingOp("approve")
	s.publish(events.EventBookingApproved, events.BookingEventPayload{
		BookingID:     booking.ID,
		RequesterName: booking.RequesterName,
		Venue:         booking.VenueRequested,
		Status:        booking.Status,
		Actor:         approverName,
	})

	return booking, nil
}

// Reject marks the booking rejected, storing the reason (or a default) in the
// department remarks.
func (s *BookingService) Reject(ctx context.Context, id, approverName, reason string) (*models.BookingRequest, error) {
	rejected := false
	status := models.StatusRejected
	date := time.Now().Format(models.ApprovedDateLayout)
	remarks := reason
	if remarks == "" {
		remarks = "Request rejected"
	}

	booking, err := s.Update(ctx, id, models.BookingUpdate{
		Status:            &status,
		Approved:          &rejected,
		ApprovedBy:        &approverName,
		ApprovedDate:      &date,
		ApprovedSignature: &approverName,
		DepartmentRemarks: &remarks,
	})
	if err != nil || booking == nil {
		return booking, err
	}

	metrics.IncBookingOp("reject")
	s.publish(events.EventBookingRejected, events.BookingEventPayload{
		BookingID:     booking.ID,
		RequesterName: booking.RequesterName,
		Venue:         booking.VenueRequested,
		Status:        booking.Status,
		Actor:         approverName,
		Reason:        reason,
	})

	return booking, nil
}

// Delete removes the booking and reports whether anything was removed.
// Storage failures are logged and reported as false, never propagated.
func (s *BookingService) Delete(ctx context.Context, id string) bool {
	bookings, err := s.loadBookings(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", id).Msg("delete: load bookings")
		return false
	}

	idx := -1
	for i := range bookings {
		if bookings[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	deleted := bookings[idx]
	bookings = append(bookings[:idx], bookings[idx+1:]...)
	if err := s.saveBookings(ctx, bookings); err != nil {
		s.logger.Error().Err(err).Str("booking_id", id).Msg("delete: save bookings")
		return false
	}

	metrics.IncBookingOp("delete")
	s.publish(events.EventBookingDeleted, events.BookingEventPayload{
		BookingID:     deleted.ID,
		RequesterName: deleted.RequesterName,
		Venue:         deleted.VenueRequested,
		Event:         deleted.Event,
	})

	return true
}

// DeleteAll clears the entire booking collection by removing the storage key.
func (s *BookingService) DeleteAll(ctx context.Context) bool {
	if err := s.store.Delete(ctx, storage.KeyBookings); err != nil {
		s.logger.Error().Err(err).Msg("delete all bookings")
		return false
	}

	metrics.IncBookingOp("delete_all")
	s.publish(events.EventBookingsPurged, events.BookingEventPayload{Scope: events.PurgeAll})
	return true
}

// DeleteByStatus removes every booking in the given status and returns the
// number removed.
func (s *BookingService) DeleteByStatus(ctx context.Context, status string) int {
	bookings, err := s.loadBookings(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("status", status).Msg("delete by status: load bookings")
		return 0
	}

	remaining := bookings[:0:0]
	removed := 0
	for _, b := range bookings {
		if b.Status == status {
			removed++
			continue
		}
		remaining = append(remaining, b)
	}

	if err := s.saveBookings(ctx, remaining); err != nil {
		s.logger.Error().Err(err).Str("status", status).Msg("delete by status: save bookings")
		return 0
	}

	metrics.IncBookingOp("delete_by_status")
	s.publish(events.EventBookingsPurged, events.BookingEventPayload{
		Scope:  events.PurgeByStatus,
		Status: status,
		Count:  removed,
	})

	return removed
}

// DeleteByDateRange removes every booking whose CreatedAt falls inside the
// inclusive [startDate, endDate] calendar range and returns the count.
func (s *BookingService) DeleteByDateRange(ctx context.Context, startDate, endDate string) int {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		s.logger.Error().Err(err).Str("start", startDate).Str("end", endDate).Msg("delete by date range: bad range")
		return 0
	}

	bookings, err := s.loadBookings(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("delete by date range: load bookings")
		return 0
	}

	remaining := bookings[:0:0]
	removed := 0
	for _, b := range bookings {
		if inRange(b.CreatedAt, start, end) {
			removed++
			continue
		}
		remaining = append(remaining, b)
	}

	if err := s.saveBookings(ctx, remaining); err != nil {
		s.logger.Error().Err(err).Msg("delete by date range: save bookings")
		return 0
	}

	metrics.IncBookingOp("delete_by_date_range")
	s.publish(events.EventBookingsPurged, events.BookingEventPayload{
		Scope:     events.PurgeByDateRange,
		Count:     removed,
		StartDate: startDate,
		EndDate:   endDate,
	})

	return removed
}

// Search returns bookings whose requester name, venue, event description or
// company name contains the query, case-insensitively. An empty query is not
// special-cased.
func (s *BookingService) Search(ctx context.Context, query string) ([]models.BookingRequest, error) {
	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	matches := make([]models.BookingRequest, 0)
	for _, b := range bookings {
		if strings.Contains(strings.ToLower(b.RequesterName), q) ||
			strings.Contains(strings.ToLower(b.VenueRequested), q) ||
			strings.Contains(strings.ToLower(b.Event), q) ||
			strings.Contains(strings.ToLower(b.CompanyName), q) {
			matches = append(matches, b)
		}
	}
	return matches, nil
}

// ListByStatus returns bookings in the given status, insertion order.
func (s *BookingService) ListByStatus(ctx context.Context, status string) ([]models.BookingRequest, error) {
	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]models.BookingRequest, 0)
	for _, b := range bookings {
		if b.Status == status {
			matches = append(matches, b)
		}
	}
	return matches, nil
}

// ListByEventDateRange returns bookings whose event start date falls inside
// the inclusive [startDate, endDate] calendar range.
func (s *BookingService) ListByEventDateRange(ctx context.Context, startDate, endDate string) ([]models.BookingRequest, error) {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]models.BookingRequest, 0)
	for _, b := range bookings {
		eventDate, err := time.Parse(models.EventDateLayout, b.EventScheduleStartDate)
		if err != nil {
			continue
		}
		if inRange(eventDate, start, end) {
			matches = append(matches, b)
		}
	}
	return matches, nil
}

// SeedDemoData populates one example booking, but only when the booking key
// is entirely absent. Existing data, even an empty array, is never touched.
func (s *BookingService) SeedDemoData(ctx context.Context) error {
	_, ok, err := s.store.Get(ctx, storage.KeyBookings)
	if err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	if ok {
		return nil
	}

	_, err = s.Create(ctx, demoBooking())
	return err
}

func demoBooking() models.BookingRequest {
	return models.BookingRequest{
		RequesterName:          "Gouhar Karam",
		RequestInitiatedDate:   "27/July/2025",
		CompanyName:            "MAG",
		Designation:            "SAFETY OFFICER",
		MobileNumber:           "0571491662",
		Email:                  "g.karam@mag-sa.com",
		Residence:              true,
		UnitNo:                 "FMB-025",
		UnitLocation:           "FMB-Blk2-Bld1",
		VenueRequested:         "Multipurpose Hall",
		Event:                  "Electrical Safety Awareness (LOTO) Training",
		EventScheduleStartDate: "2025-01-27",
		EventEndDate:           "2025-01-27",
		EventStartTime:         "14:00",
		EventEndTime:           "16:30",
		NumberOfGuests:         25,
		AVSystem:               true,
		AVSystemDetails:        "Projector and sound system required",
	}
}

func (s *BookingService) loadBookings(ctx context.Context) ([]models.BookingRequest, error) {
	raw, ok, err := s.store.Get(ctx, storage.KeyBookings)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	if !ok {
		return []models.BookingRequest{}, nil
	}

	var bookings []models.BookingRequest
	if err := json.Unmarshal([]byte(raw), &bookings); err != nil {
		return nil, fmt.Errorf("parse stored bookings: %w", err)
	}
	if bookings == nil {
		bookings = []models.BookingRequest{}
	}
	return bookings, nil
}

func (s *BookingService) saveBookings(ctx context.Context, bookings []models.BookingRequest) error {
	raw, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("encode bookings: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyBookings, string(raw)); err != nil {
		return fmt.Errorf("save bookings: %w", err)
	}
	return nil
}

func (s *BookingService) publish(eventType string, payload events.BookingEventPayload) {
	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}

// newUniqueID returns a uuid not present in the collection. Collisions are
// vanishingly rare but uniqueness is a hard requirement, so re-roll anyway.
func newUniqueID(bookings []models.BookingRequest) string {
	for {
		id := uuid.NewString()
		taken := false
		for i := range bookings {
			if bookings[i].ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}

func applyUpdate(b *models.BookingRequest, upd models.BookingUpdate) {
	if upd.RequesterName != nil {
		b.RequesterName = *upd.RequesterName
	}
	if upd.CompanyName != nil {
		b.CompanyName = *upd.CompanyName
	}
	if upd.Designation != nil {
		b.Designation = *upd.Designation
	}
	if upd.MobileNumber != nil {
		b.MobileNumber = *upd.MobileNumber
	}
	if upd.Email != nil {
		b.Email = *upd.Email
	}
	if upd.VenueRequested != nil {
		b.VenueRequested = *upd.VenueRequested
	}
	if upd.Event != nil {
		b.Event = *upd.Event
	}
	if upd.EventScheduleStartDate != nil {
		b.EventScheduleStartDate = *upd.EventScheduleStartDate
	}
	if upd.EventEndDate != nil {
		b.EventEndDate = *upd.EventEndDate
	}
	if upd.EventStartTime != nil {
		b.EventStartTime = *upd.EventStartTime
	}
	if upd.EventEndTime != nil {
		b.EventEndTime = *upd.EventEndTime
	}
	if upd.NumberOfGuests != nil {
		b.NumberOfGuests = *upd.NumberOfGuests
	}
	if upd.Remarks != nil {
		b.Remarks = *upd.Remarks
	}
	if upd.Status != nil {
		b.Status = *upd.Status
	}
	if upd.Approved != nil {
		b.Approved = upd.Approved
	}
	if upd.ApprovedBy != nil {
		b.ApprovedBy = *upd.ApprovedBy
	}
	if upd.ApprovedDate != nil {
		b.ApprovedDate = *upd.ApprovedDate
	}
	if upd.ApprovedSignature != nil {
		b.ApprovedSignature = *upd.ApprovedSignature
	}
	if upd.DepartmentRemarks != nil {
		b.DepartmentRemarks = *upd.DepartmentRemarks
	}
}

// parseDateRange parses two calendar dates; the range is inclusive on both
// ends, compared against midnight of each day.
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(models.EventDateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(models.EventDateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	return start, end, nil
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
