package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var got []Event
	dispatcher.Subscribe(EventRequestCreated, func(_ context.Context, event Event) error {
		got = append(got, event)
		return nil
	})
	dispatcher.Subscribe(EventRequestCompleted, func(_ context.Context, event Event) error {
		t.Fatalf("handler for %s should not fire", event.Type)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{
		ID:        "evt-1",
		Type:      EventRequestCreated,
		RequestID: "req-1",
		Actor:     Actor{Subject: "auth0|alice"},
		Payload:   RequestCreatedPayload{Title: "Fix fence"},
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "req-1", got[0].RequestID)
	assert.Equal(t, "auth0|alice", got[0].Actor.Subject)
}

func TestDispatcher_HandlerErrorDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	dispatcher.Subscribe(EventAppointmentScheduled, func(context.Context, Event) error {
		return errors.New("boom")
	})
	called := false
	dispatcher.Subscribe(EventAppointmentScheduled, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventAppointmentScheduled})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventAppointmentCancelled}))
}
