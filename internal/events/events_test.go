package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishNotifiesSubscribers(t *testing.T) {
	bus := NewBus()

	var got []string
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		got = append(got, "first:"+event.Type)
		return nil
	})
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		got = append(got, "second:"+event.Type)
		return nil
	})
	bus.Subscribe(EventBookingDeleted, func(event *Event) error {
		got = append(got, "deleted")
		return nil
	})

	bus.Publish(&Event{Type: EventBookingCreated})

	assert.Equal(t, []string{"first:booking_created", "second:booking_created"}, got)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(&Event{Type: EventBookingApproved})
	})
}

func TestHandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewBus()

	called := false
	bus.Subscribe(EventBookingRejected, func(event *Event) error {
		return errors.New("boom")
	})
	bus.Subscribe(EventBookingRejected, func(event *Event) error {
		called = true
		return nil
	})

	bus.Publish(&Event{Type: EventBookingRejected})
	assert.True(t, called)
}

func TestPublishJSONRoundTrip(t *testing.T) {
	bus := NewBus()

	var decoded BookingEventPayload
	bus.Subscribe(EventBookingApproved, func(event *Event) error {
		var err error
		decoded, err = DecodePayload(event)
		return err
	})

	payload := BookingEventPayload{
		BookingID:     "b1",
		RequesterName: "Alice Smith",
		Venue:         "Tennis Court",
		Status:        "approved",
		Actor:         "Manager",
	}
	require.NoError(t, bus.PublishJSON(EventBookingApproved, payload))

	assert.Equal(t, payload, decoded)
}

func TestPublishJSONOnNilBus(t *testing.T) {
	var bus *Bus
	assert.NoError(t, bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: "b1"}))
}

func TestPublishSetsCreatedAt(t *testing.T) {
	bus := NewBus()

	var seen *Event
	bus.Subscribe(EventBookingsPurged, func(event *Event) error {
		seen = event
		return nil
	})

	bus.Publish(&Event{Type: EventBookingsPurged})
	require.NotNil(t, seen)
	assert.False(t, seen.CreatedAt.IsZero())
}
