package navigation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/nutriflow/nutriflow/pkg/events"
	"github.com/nutriflow/nutriflow/pkg/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder()

	_, ok := rec.Last()
	assert.False(t, ok)

	require.NoError(t, rec.Advance(ctx, "email"))
	require.NoError(t, rec.ExitToScreen(ctx, ScreenHome))
	require.NoError(t, rec.ExitToSignIn(ctx))

	assert.Equal(t, []Command{
		{Action: ActionAdvance, Step: "email"},
		{Action: ActionExit, Screen: ScreenHome},
		{Action: ActionSignIn},
	}, rec.Commands())

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, ActionSignIn, last.Action)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer

	console := NewConsole(&buf)
	require.NoError(t, console.Advance(context.Background(), "age"))
	require.NoError(t, console.ExitToScreen(context.Background(), ScreenHome))
	require.NoError(t, console.ExitToSignIn(context.Background()))

	assert.Equal(t, "-> advance to step age\n-> exit flow to home\n-> exit flow to sign-in\n", buf.String())
}

func TestPublisher(t *testing.T) {
	ctx := context.Background()
	bus := &mocks.MockEventBus{}

	bus.On("Publish", ctx, "user-1", mock.MatchedBy(func(e events.StepAdvanced) bool {
		return e.StepID == "age" && e.UserID == "user-1"
	})).Return(nil).Once()
	bus.On("Publish", ctx, "user-1", mock.MatchedBy(func(e events.FlowExited) bool {
		return e.Screen == ScreenHome
	})).Return(nil).Once()
	bus.On("Publish", ctx, "user-1", mock.AnythingOfType("events.SignInRequired")).Return(nil).Once()

	publisher := NewPublisher(bus, "user-1")
	require.NoError(t, publisher.Advance(ctx, "age"))
	require.NoError(t, publisher.ExitToScreen(ctx, ScreenHome))
	require.NoError(t, publisher.ExitToSignIn(ctx))

	bus.AssertExpectations(t)
}

func TestFanoutAndLogged(t *testing.T) {
	ctx := context.Background()
	bus := &mocks.MockEventBus{}
	bus.On("Publish", ctx, "user-1", mock.Anything).Return(errors.New("broker down"))

	rec := NewRecorder()
	fan := Fanout{rec, NewPublisher(bus, "user-1")}

	err := fan.Advance(ctx, "age")
	require.Error(t, err)
	assert.Len(t, rec.Commands(), 1)

	nav := Logged(fan, slog.Default())
	require.NoError(t, nav.ExitToScreen(ctx, ScreenHome))
	require.NoError(t, nav.ExitToSignIn(ctx))
	assert.Len(t, rec.Commands(), 3)
}

func TestDiscard(t *testing.T) {
	var nav Navigator = Discard{}

	assert.NoError(t, nav.Advance(context.Background(), "age"))
	assert.NoError(t, nav.ExitToScreen(context.Background(), ScreenHome))
	assert.NoError(t, nav.ExitToSignIn(context.Background()))
}
