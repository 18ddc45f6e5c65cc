package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var first, second []Event
	d.Subscribe(EventJobCreated, func(_ context.Context, e Event) error {
		first = append(first, e)
		return nil
	})
	d.Subscribe(EventJobCreated, func(_ context.Context, e Event) error {
		second = append(second, e)
		return nil
	})

	err := d.Publish(context.Background(), Event{
		ID:        "e1",
		Type:      EventJobCreated,
		Actor:     "emma",
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
}

func TestPublishSkipsOtherEventTypes(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventApplicationSubmitted, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventJobCreated}))
	assert.False(t, called)
}

func TestPublishContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()

	var reached bool
	d.Subscribe(EventJobCreated, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventJobCreated, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventJobCreated})
	assert.ErrorContains(t, err, "boom")
	assert.True(t, reached, "later handlers still run after an earlier failure")
}
