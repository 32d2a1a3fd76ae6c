package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/nutriflow/nutriflow/pkg/channels/gochannel"
	"github.com/nutriflow/nutriflow/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)
	t.Cleanup(func() {
		_ = bus.Close()
	})

	return bus
}

func TestWatermillEventBus_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newTestBus(t)
	received := make(chan *events.FlowExited, 1)

	require.NoError(t, bus.Handle(events.FlowExitedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.FlowExited)

		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx))

	err := bus.Publish(ctx, "user-1", events.FlowExited{
		BaseEvent: events.NewBaseEvent(events.FlowExitedEvent, "user-1"),
		Screen:    "home",
	})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, "home", event.Screen)
		assert.Equal(t, "user-1", event.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_UnhandledTypesAreAcked(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newTestBus(t)
	received := make(chan *events.SignInRequired, 1)

	require.NoError(t, bus.Handle(events.SignInRequiredEvent, func(_ context.Context, event any) error {
		received <- event.(*events.SignInRequired)

		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx))

	// No handler for step events: the message is dropped and the next one flows.
	require.NoError(t, bus.Publish(ctx, "user-1", events.StepAdvanced{
		BaseEvent: events.NewBaseEvent(events.StepAdvancedEvent, "user-1"),
		StepID:    "age",
	}))
	require.NoError(t, bus.Publish(ctx, "user-1", events.SignInRequired{
		BaseEvent: events.NewBaseEvent(events.SignInRequiredEvent, "user-1"),
	}))

	select {
	case event := <-received:
		assert.Equal(t, events.SignInRequiredEvent, event.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newTestBus(t)

	assert.NotEqual(t, bus.GenerateID(), bus.GenerateID())
}
